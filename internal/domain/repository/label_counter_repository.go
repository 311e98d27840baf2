package repository

import "context"

// LabelCounterRepository guarda cuántas unidades de cada SKU ya recibieron etiqueta.
// Un SKU sin registro tiene conteo 0.
type LabelCounterRepository interface {
	GetLabeledCount(ctx context.Context, sku string) (int, error)
	SetLabeledCount(ctx context.Context, sku string, count int) error
}
