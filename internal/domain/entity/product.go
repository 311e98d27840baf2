package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Product representa un producto del catálogo. El catálogo lo administra otro módulo;
// para el ledger es de solo lectura.
type Product struct {
	SKU              string          // único, normalizado a mayúsculas
	Name             string
	Price            decimal.Decimal // precio unitario vigente (no negativo)
	MinStock         int             // umbral de stock mínimo
	BarcodeAttribute string          // atributo secundario de la etiqueta (ej: volumen "500ML"); vacío si no aplica
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NormalizeSKU recorta espacios y pasa el SKU a mayúsculas.
// Un Caser no es seguro entre goroutines, por eso se construye en cada llamada.
func NormalizeSKU(sku string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(sku))
}
