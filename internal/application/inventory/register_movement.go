package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// RecordMovementFromRequest adapta el request HTTP al caso de uso RecordMovement(ctx, MovementInput).
// performedBy viene del token, nunca del body.
func (uc *RecordMovementUseCase) RecordMovementFromRequest(ctx context.Context, performedBy string, in dto.RecordMovementRequest) (*entity.Movement, error) {
	lines := make([]LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, LineInput{SKU: l.SKU, Quantity: l.Quantity})
	}
	return uc.RecordMovement(ctx, MovementInput{
		Type:  entity.ParseMovementType(in.Type),
		Lines: lines,
		Metadata: Metadata{
			PerformedBy:  performedBy,
			Reference:    in.Reference,
			Notes:        in.Notes,
			CustomerName: in.CustomerName,
		},
	})
}
