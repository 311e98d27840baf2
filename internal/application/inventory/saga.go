package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// compensation acción de reversa de un paso que ya se completó.
type compensation struct {
	step string
	undo func(ctx context.Context) error
}

// saga acumula compensaciones en el orden en que se completan los pasos.
// Los pasos se ejecutan en secuencia estricta, así las compensaciones registradas son siempre un prefijo.
type saga struct {
	movementID string
	done       []compensation
}

func newSaga(movementID string) *saga {
	return &saga{movementID: movementID}
}

// record registra la compensación del paso recién completado.
func (s *saga) record(step string, undo func(ctx context.Context) error) {
	s.done = append(s.done, compensation{step: step, undo: undo})
}

// rollback ejecuta las compensaciones en orden inverso. Se detiene en el primer fallo:
// borrar una cabecera con líneas todavía presentes dejaría líneas huérfanas.
// Devuelve *domain.CompensationFailure con los pasos que quedaron sin revertir.
func (s *saga) rollback(ctx context.Context, cause error) error {
	for i := len(s.done) - 1; i >= 0; i-- {
		if err := s.done[i].undo(ctx); err != nil {
			pending := make([]string, 0, i+1)
			for j := i; j >= 0; j-- {
				pending = append(pending, s.done[j].step)
			}
			return &domain.CompensationFailure{
				MovementID: s.movementID,
				Pending:    pending,
				Cause:      cause,
				Err:        err,
			}
		}
	}
	s.done = nil
	return nil
}
