package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockFilter filtro opcional de la consulta de stock. SKU vacío = todos los productos.
type StockFilter struct {
	SKU string
}

// StockRepository consulta el stock derivado: suma de cantidades de líneas cuyo movimiento no está cancelado,
// unida a los campos vivos del producto. Los productos sin movimientos aparecen con OnHand 0.
//
// Las líneas de un movimiento pending también cuentan: un lector concurrente puede ver las líneas de una
// escritura en curso que luego se revierte (lectura sucia acotada a la duración de RecordMovement).
// Un pending que sobrevive es residuo de una CompensationFailure y se concilia a mano.
type StockRepository interface {
	QueryCurrentStock(ctx context.Context, filter StockFilter) ([]entity.CurrentStock, error)
}
