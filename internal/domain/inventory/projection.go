package inventory

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Project deriva el stock actual a partir del log de movimientos (función pura).
// OnHand = suma de cantidades con signo de las líneas cuyo movimiento no está cancelado.
// Las líneas de SKUs sin producto en el catálogo se ignoran: no hay precio vivo con qué valorarlas.
func Project(products []entity.Product, movements []entity.Movement) []entity.CurrentStock {
	onHand := make(map[string]int64, len(products))
	for _, m := range movements {
		if m.Status == entity.MovementStatusCancelled {
			continue
		}
		for _, l := range m.Lines {
			onHand[l.SKU] += l.Quantity
		}
	}

	rows := make([]entity.CurrentStock, 0, len(products))
	for _, p := range products {
		rows = append(rows, entity.CurrentStock{
			SKU:              p.SKU,
			Name:             p.Name,
			Price:            p.Price,
			MinStock:         p.MinStock,
			BarcodeAttribute: p.BarcodeAttribute,
			OnHand:           onHand[p.SKU],
		})
	}
	Finalize(rows)
	return rows
}

// Finalize calcula los campos derivados (valor con precio vivo, bajo stock) y ordena por nombre.
// Los adaptadores SQL entregan solo la agregación y delegan aquí el resto.
func Finalize(rows []entity.CurrentStock) {
	for i := range rows {
		rows[i].TotalValue = Value(rows[i].OnHand, rows[i].Price)
		rows[i].LowStock = rows[i].OnHand <= int64(rows[i].MinStock)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].SKU < rows[j].SKU
	})
}

// Value valor del inventario: cantidad por precio vigente.
func Value(onHand int64, price decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(onHand).Mul(price)
}
