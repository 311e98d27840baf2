// Package barcode genera los códigos de etiqueta por unidad física.
// Formato: SKU-ATRIBUTO-NNN (3 dígitos hasta 999, 4 dígitos de 1000 a 9999). Función pura, sin contadores.
package barcode

import (
	"fmt"
	"strings"

	"github.com/boombuler/barcode/code128"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

const (
	// MinUnit primer número de unidad válido.
	MinUnit = 1
	// MaxUnit techo de numeración; no se generan códigos por encima.
	MaxUnit = 9999
	// WideUnit primer número que usa 4 dígitos.
	WideUnit = 1000
)

// UnitCodeService genera los códigos de barra por unidad.
type UnitCodeService struct{}

// NewUnitCodeService crea el servicio.
func NewUnitCodeService() *UnitCodeService {
	return &UnitCodeService{}
}

// CodeFor devuelve el código de la unidad n. Mismo (sku, atributo, n) produce siempre el mismo string.
func (s *UnitCodeService) CodeFor(sku, attribute string, unit int) (string, error) {
	sku, attribute, err := cleanParts(sku, attribute)
	if err != nil {
		return "", err
	}
	if unit < MinUnit {
		return "", domain.Invalid("unit", fmt.Sprintf("debe ser >= %d", MinUnit))
	}
	if unit > MaxUnit {
		return "", &domain.ExhaustionError{Requested: unit, Limit: MaxUnit}
	}
	code := format(sku, attribute, unit)
	if _, err := code128.Encode(code); err != nil {
		return "", domain.Invalid("sku", "no se puede codificar en Code 128: "+err.Error())
	}
	return code, nil
}

// AllocateRange devuelve count códigos consecutivos desde start.
// Rechaza todo el rango con ExhaustionError si alguna unidad queda por encima de MaxUnit (no trunca).
func (s *UnitCodeService) AllocateRange(sku, attribute string, start, count int) ([]string, error) {
	sku, attribute, err := cleanParts(sku, attribute)
	if err != nil {
		return nil, err
	}
	if start < MinUnit {
		return nil, domain.Invalid("start_unit", fmt.Sprintf("debe ser >= %d", MinUnit))
	}
	if count < 1 {
		return nil, domain.Invalid("count", "debe ser >= 1")
	}
	end := start + count - 1
	if end > MaxUnit || end < start {
		return nil, &domain.ExhaustionError{Requested: end, Limit: MaxUnit}
	}

	// Validar una vez el prefijo: el sufijo numérico siempre es codificable.
	if _, err := code128.Encode(format(sku, attribute, start)); err != nil {
		return nil, domain.Invalid("sku", "no se puede codificar en Code 128: "+err.Error())
	}

	codes := make([]string, 0, count)
	for n := start; n <= end; n++ {
		codes = append(codes, format(sku, attribute, n))
	}
	return codes, nil
}

// PadWidth ancho del sufijo numérico para la unidad n.
func PadWidth(unit int) int {
	if unit < WideUnit {
		return 3
	}
	return 4
}

func format(sku, attribute string, unit int) string {
	return fmt.Sprintf("%s-%s-%0*d", sku, attribute, PadWidth(unit), unit)
}

func cleanParts(sku, attribute string) (string, string, error) {
	sku = entity.NormalizeSKU(sku)
	attribute = strings.TrimSpace(attribute)
	if sku == "" {
		return "", "", domain.Invalid("sku", "obligatorio")
	}
	if attribute == "" {
		return "", "", domain.Invalid("attribute", "obligatorio")
	}
	return sku, attribute, nil
}
