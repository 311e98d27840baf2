package inventory

import "github.com/jhoicas/stock-ledger/internal/domain/entity"

// Resultados de compensación reportados a métricas.
const (
	CompensationOK     = "ok"
	CompensationFailed = "failed"
)

// UnknownMovementType etiqueta de métricas para tipos fuera del conjunto cerrado.
const UnknownMovementType entity.MovementType = "unknown"

// Metrics observa los resultados del ledger. outcome es "ok" o un domain.ErrorKind.
type Metrics interface {
	MovementRecorded(movementType entity.MovementType, outcome string)
	CompensationFinished(outcome string)
}

type nopMetrics struct{}

func (nopMetrics) MovementRecorded(entity.MovementType, string) {}
func (nopMetrics) CompensationFinished(string) {}
