package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo cabeceras y líneas de movimientos sobre PostgreSQL.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// InsertMovementHeader persiste la cabecera.
func (r *MovementRepo) InsertMovementHeader(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, type, reference, customer_name, notes, performed_by, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		m.ID, string(m.Type), m.Reference, m.CustomerName, m.Notes, m.PerformedBy, string(m.Status), m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert movement header: %w", err)
	}
	return nil
}

// DeleteMovementHeader borra la cabecera; si no existe no es error.
func (r *MovementRepo) DeleteMovementHeader(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM movements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete movement header: %w", err)
	}
	return nil
}

// InsertMovementLine persiste una línea. La FK sobre movements/products hace fallar líneas huérfanas.
func (r *MovementRepo) InsertMovementLine(ctx context.Context, l *entity.MovementLine) error {
	query := `
		INSERT INTO movement_lines (id, movement_id, sku, quantity, unit_price, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.MovementID, l.SKU, l.Quantity, l.UnitPrice, l.Total, l.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			if violatedConstraint(err) == "movement_lines_product_fk" {
				return &domain.NotFoundError{Resource: "producto", Key: l.SKU}
			}
			return &domain.NotFoundError{Resource: "movimiento", Key: l.MovementID}
		}
		return fmt.Errorf("insert movement line: %w", err)
	}
	return nil
}

// DeleteMovementLinesForMovement borra todas las líneas del movimiento.
func (r *MovementRepo) DeleteMovementLinesForMovement(ctx context.Context, movementID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM movement_lines WHERE movement_id = $1`, movementID); err != nil {
		return fmt.Errorf("delete movement lines: %w", err)
	}
	return nil
}

// UpdateMovementStatus cambia el estado de la cabecera si sigue en from.
func (r *MovementRepo) UpdateMovementStatus(ctx context.Context, id string, from, to entity.MovementStatus) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE movements SET status = $3 WHERE id = $1 AND status = $2`, id, string(from), string(to))
	if err != nil {
		return fmt.Errorf("update movement status: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	var current string
	err = r.q.QueryRow(ctx, `SELECT status FROM movements WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.NotFoundError{Resource: "movimiento", Key: id}
	}
	if err != nil {
		return fmt.Errorf("read movement status: %w", err)
	}
	return domain.StatusMismatch(current, string(from))
}

// GetMovement devuelve la cabecera con sus líneas en orden de inserción.
func (r *MovementRepo) GetMovement(ctx context.Context, id string) (*entity.Movement, error) {
	query := `
		SELECT id, type, reference, customer_name, notes, performed_by, status, created_at
		FROM movements WHERE id = $1`
	var m entity.Movement
	var typ, status string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&m.ID, &typ, &m.Reference, &m.CustomerName, &m.Notes, &m.PerformedBy, &status, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Resource: "movimiento", Key: id}
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	m.Type = entity.MovementType(typ)
	m.Status = entity.MovementStatus(status)

	rows, err := r.q.Query(ctx, `
		SELECT id, movement_id, sku, quantity, unit_price, total, created_at
		FROM movement_lines WHERE movement_id = $1 ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("list movement lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.MovementLine
		if err := rows.Scan(&l.ID, &l.MovementID, &l.SKU, &l.Quantity, &l.UnitPrice, &l.Total, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement line: %w", err)
		}
		m.Lines = append(m.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list movement lines: %w", err)
	}
	return &m, nil
}
