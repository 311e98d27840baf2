package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MovementRepository define las primitivas de fila única que ofrece el almacén para el ledger.
// No hay transacciones multi-tabla: la atomicidad de un movimiento la construye el ledger con compensaciones.
type MovementRepository interface {
	// InsertMovementHeader persiste la cabecera; asigna ID y CreatedAt si vienen vacíos.
	InsertMovementHeader(ctx context.Context, movement *entity.Movement) error
	// DeleteMovementHeader borra la cabecera (compensación).
	DeleteMovementHeader(ctx context.Context, id string) error
	// InsertMovementLine persiste una línea; asigna ID y CreatedAt si vienen vacíos.
	InsertMovementLine(ctx context.Context, line *entity.MovementLine) error
	// DeleteMovementLinesForMovement borra todas las líneas del movimiento (compensación).
	DeleteMovementLinesForMovement(ctx context.Context, movementID string) error
	// UpdateMovementStatus cambia el estado de la cabecera solo si sigue en from (comparar y escribir en una
	// sola operación de fila). NotFoundError si no existe; ValidationError de "status" si ya tenía otro estado.
	UpdateMovementStatus(ctx context.Context, id string, from, to entity.MovementStatus) error
	// GetMovement devuelve la cabecera con sus líneas en orden de inserción. NotFoundError si no existe.
	GetMovement(ctx context.Context, id string) (*entity.Movement, error)
}
