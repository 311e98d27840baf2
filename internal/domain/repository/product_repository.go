package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceLookup devuelve el precio unitario vigente de un SKU.
// Si el SKU no tiene precio registrado devuelve *domain.NotFoundError.
type PriceLookup interface {
	GetProductPrice(ctx context.Context, sku string) (decimal.Decimal, error)
}
