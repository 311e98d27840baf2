package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo proyección de stock actual calculada en SQL sobre el log de movimientos.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// QueryCurrentStock suma las líneas de movimientos no cancelados por producto.
// Valor y bajo stock los completa el proyector.
func (r *StockRepo) QueryCurrentStock(ctx context.Context, filter repository.StockFilter) ([]entity.CurrentStock, error) {
	query := `
		SELECT p.sku, p.name, p.price, p.min_stock, p.barcode_attribute,
		       COALESCE(SUM(l.quantity) FILTER (WHERE m.status <> 'cancelled'), 0)::BIGINT AS on_hand
		FROM products p
		LEFT JOIN movement_lines l ON l.sku = p.sku
		LEFT JOIN movements m ON m.id = l.movement_id
		WHERE ($1 = '' OR p.sku = $1)
		GROUP BY p.sku, p.name, p.price, p.min_stock, p.barcode_attribute
		ORDER BY p.name, p.sku`
	rows, err := r.q.Query(ctx, query, entity.NormalizeSKU(filter.SKU))
	if err != nil {
		return nil, fmt.Errorf("query current stock: %w", err)
	}
	defer rows.Close()

	var out []entity.CurrentStock
	for rows.Next() {
		var s entity.CurrentStock
		if err := rows.Scan(&s.SKU, &s.Name, &s.Price, &s.MinStock, &s.BarcodeAttribute, &s.OnHand); err != nil {
			return nil, fmt.Errorf("scan current stock: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query current stock: %w", err)
	}
	return out, nil
}
