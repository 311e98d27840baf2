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

var _ repository.LabelCounterRepository = (*LabelCounterRepo)(nil)

// LabelCounterRepo contador de unidades etiquetadas por SKU.
type LabelCounterRepo struct {
	q Querier
}

// NewLabelCounterRepository construye el adaptador.
func NewLabelCounterRepository(q Querier) *LabelCounterRepo {
	return &LabelCounterRepo{q: q}
}

// GetLabeledCount devuelve 0 si el SKU nunca se etiquetó.
func (r *LabelCounterRepo) GetLabeledCount(ctx context.Context, sku string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT labeled_count FROM label_counters WHERE sku = $1`, entity.NormalizeSKU(sku)).Scan(&n)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get labeled count: %w", err)
	}
	return n, nil
}

// SetLabeledCount reemplaza el conteo.
func (r *LabelCounterRepo) SetLabeledCount(ctx context.Context, sku string, count int) error {
	if count < 0 {
		return domain.Invalid("count", "no puede ser negativo")
	}
	query := `
		INSERT INTO label_counters (sku, labeled_count, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (sku) DO UPDATE SET labeled_count = EXCLUDED.labeled_count, updated_at = NOW()`
	sku = entity.NormalizeSKU(sku)
	if _, err := r.q.Exec(ctx, query, sku, count); err != nil {
		if isForeignKeyViolation(err) {
			return &domain.NotFoundError{Resource: "producto", Key: sku}
		}
		return fmt.Errorf("set labeled count: %w", err)
	}
	return nil
}
