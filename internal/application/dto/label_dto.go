package dto

import "github.com/jhoicas/stock-ledger/internal/domain/entity"

// PlanLabelsRequest body para POST /api/labels/plan. StartUnit 0 = continuar tras la última etiquetada.
type PlanLabelsRequest struct {
	SKU       string `json:"sku"`
	StartUnit int    `json:"start_unit,omitempty"`
	Quantity  int    `json:"quantity"`
}

// MarkPrintedRequest body para POST /api/labels/printed.
type MarkPrintedRequest struct {
	SKU     string `json:"sku"`
	EndUnit int    `json:"end_unit"`
}

// LabelPlanDTO respuesta del planificador.
type LabelPlanDTO struct {
	SKU                  string   `json:"sku"`
	Attribute            string   `json:"attribute"`
	StartUnit            int      `json:"start_unit"`
	EndUnit              int      `json:"end_unit"`
	AvailableForLabeling int64    `json:"available_for_labeling"`
	Codes                []string `json:"codes"`
	Warnings             []string `json:"warnings"`
}

// NewLabelPlanDTO convierte el plan.
func NewLabelPlanDTO(p *entity.LabelPlan) LabelPlanDTO {
	warnings := make([]string, 0, len(p.Warnings))
	for _, w := range p.Warnings {
		warnings = append(warnings, string(w))
	}
	return LabelPlanDTO{
		SKU:                  p.SKU,
		Attribute:            p.Attribute,
		StartUnit:            p.StartUnit,
		EndUnit:              p.EndUnit,
		AvailableForLabeling: p.AvailableForLabeling,
		Codes:                p.Codes,
		Warnings:             warnings,
	}
}

// LabeledCountDTO conteo de unidades etiquetadas tras registrar una impresión.
type LabeledCountDTO struct {
	SKU          string `json:"sku"`
	LabeledCount int    `json:"labeled_count"`
}

// UnitCodeDTO respuesta de GET /api/labels/code.
type UnitCodeDTO struct {
	Code string `json:"code"`
}
