package labels

import (
	"fmt"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/barcode"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// DefaultApproachingLimit unidad final desde la que se advierte cercanía al techo.
const DefaultApproachingLimit = 9900

// Planner decide cuántas etiquetas nuevas se generan para un producto.
// No tiene estado ni hace I/O: recibe el stock y el conteo previo ya leídos.
type Planner struct {
	codes            *barcode.UnitCodeService
	approachingLimit int
}

// NewPlanner construye el planificador. approachingLimit fuera de rango usa DefaultApproachingLimit.
func NewPlanner(codes *barcode.UnitCodeService, approachingLimit int) *Planner {
	if codes == nil {
		codes = barcode.NewUnitCodeService()
	}
	if approachingLimit < barcode.MinUnit || approachingLimit > barcode.MaxUnit {
		approachingLimit = DefaultApproachingLimit
	}
	return &Planner{codes: codes, approachingLimit: approachingLimit}
}

// PlanLabels arma el plan de impresión. requestedStart 0 continúa tras la última unidad etiquetada.
// Las advertencias son informativas; los únicos rechazos son cantidad inválida, cantidad mayor al stock
// físico (si hay stock) y unidades por encima de 9999.
func (p *Planner) PlanLabels(product entity.CurrentStock, requestedStart, requestedQty, previouslyLabeled int) (*entity.LabelPlan, error) {
	if requestedQty < 1 {
		return nil, domain.Invalid("quantity", "debe ser >= 1")
	}
	if requestedStart < 0 {
		return nil, domain.Invalid("start_unit", "no puede ser negativo")
	}
	if previouslyLabeled < 0 {
		return nil, domain.Invalid("labeled_count", "no puede ser negativo")
	}
	attribute := strings.TrimSpace(product.BarcodeAttribute)
	if attribute == "" {
		return nil, domain.Invalid("attribute", fmt.Sprintf("el producto %s no tiene atributo de etiqueta", product.SKU))
	}
	// Con stock en cero o negativo la solicitud se permite; la advertencia NO_STOCK marca la discrepancia.
	if product.OnHand > 0 && int64(requestedQty) > product.OnHand {
		return nil, domain.Invalid("quantity",
			fmt.Sprintf("se piden %d etiquetas y hay %d unidades en stock", requestedQty, product.OnHand))
	}

	start := requestedStart
	if start == 0 {
		start = previouslyLabeled + 1
	}
	codes, err := p.codes.AllocateRange(product.SKU, attribute, start, requestedQty)
	if err != nil {
		return nil, err
	}
	end := start + requestedQty - 1

	plan := &entity.LabelPlan{
		SKU:                  product.SKU,
		Attribute:            attribute,
		StartUnit:            start,
		EndUnit:              end,
		AvailableForLabeling: product.OnHand - int64(previouslyLabeled),
		Codes:                codes,
	}
	plan.Warnings = p.warnings(product.OnHand, previouslyLabeled, plan)
	return plan, nil
}

func (p *Planner) warnings(onHand int64, previouslyLabeled int, plan *entity.LabelPlan) []entity.LabelWarning {
	var out []entity.LabelWarning
	if onHand <= 0 {
		out = append(out, entity.LabelWarningNoStock)
	}
	if plan.AvailableForLabeling <= 0 {
		out = append(out, entity.LabelWarningNoUnitsAvailable)
	}
	if int64(previouslyLabeled) > onHand {
		out = append(out, entity.LabelWarningStockMismatch)
	}
	if plan.StartUnit < barcode.WideUnit && plan.EndUnit >= barcode.WideUnit {
		out = append(out, entity.LabelWarningPaddingChange)
	}
	switch {
	case plan.EndUnit == barcode.MaxUnit:
		out = append(out, entity.LabelWarningAtLimit)
	case plan.EndUnit >= p.approachingLimit:
		out = append(out, entity.LabelWarningApproachingLimit)
	}
	return out
}
