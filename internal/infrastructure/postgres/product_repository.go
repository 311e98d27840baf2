package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.PriceLookup = (*ProductRepo)(nil)

// ProductRepo lectura de precios y alta de catálogo sobre PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetProductPrice precio vigente del SKU.
func (r *ProductRepo) GetProductPrice(ctx context.Context, sku string) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT price FROM products WHERE sku = $1`, entity.NormalizeSKU(sku)).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, &domain.NotFoundError{Resource: "producto", Key: sku}
		}
		return decimal.Zero, fmt.Errorf("get product price: %w", err)
	}
	return price, nil
}

// UpsertProduct crea o actualiza un producto del catálogo (seed y tests de integración).
func (r *ProductRepo) UpsertProduct(ctx context.Context, p entity.Product) error {
	p.SKU = entity.NormalizeSKU(p.SKU)
	if p.SKU == "" {
		return domain.Invalid("sku", "obligatorio")
	}
	if p.Price.IsNegative() {
		return domain.Invalid("price", "no puede ser negativo")
	}
	now := time.Now().UTC()
	query := `
		INSERT INTO products (sku, name, price, min_stock, barcode_attribute, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (sku) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			min_stock = EXCLUDED.min_stock,
			barcode_attribute = EXCLUDED.barcode_attribute,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, p.SKU, p.Name, p.Price, p.MinStock, p.BarcodeAttribute, now); err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}
