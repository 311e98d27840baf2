package entity

// LabelWarning advertencia no bloqueante del planificador de etiquetas.
type LabelWarning string

const (
	LabelWarningNoUnitsAvailable LabelWarning = "NO_UNITS_AVAILABLE" // onHand - etiquetadas <= 0
	LabelWarningNoStock          LabelWarning = "NO_STOCK"           // onHand <= 0
	LabelWarningStockMismatch    LabelWarning = "STOCK_MISMATCH"     // el stock bajó desde la última impresión
	LabelWarningPaddingChange    LabelWarning = "PADDING_FORMAT_CHANGE"
	LabelWarningApproachingLimit LabelWarning = "APPROACHING_LIMIT"
	LabelWarningAtLimit          LabelWarning = "AT_LIMIT"
)

// LabelPlan resultado de planificar una tanda de etiquetas por unidad.
type LabelPlan struct {
	SKU                  string
	Attribute            string
	StartUnit            int
	EndUnit              int
	AvailableForLabeling int64
	Codes                []string
	Warnings             []LabelWarning
}

// HasWarning indica si el plan trae la advertencia w.
func (p *LabelPlan) HasWarning(w LabelWarning) bool {
	for _, x := range p.Warnings {
		if x == w {
			return true
		}
	}
	return false
}
