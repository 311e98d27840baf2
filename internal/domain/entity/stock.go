package entity

import "github.com/shopspring/decimal"

// CurrentStock stock derivado de un producto: suma de las líneas de movimientos no cancelados.
// Es un modelo de lectura; no admite escrituras directas.
type CurrentStock struct {
	SKU              string
	Name             string
	Price            decimal.Decimal // precio vigente del producto
	MinStock         int
	BarcodeAttribute string
	OnHand           int64
	TotalValue       decimal.Decimal // OnHand * Price vigente
	LowStock         bool            // OnHand <= MinStock
}
