package dto

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MovementLineRequest línea del body de POST /api/inventory/movements.
type MovementLineRequest struct {
	SKU      string `json:"sku"`
	Quantity int64  `json:"quantity"`
}

// RecordMovementRequest body para POST /api/inventory/movements. El usuario sale del token.
type RecordMovementRequest struct {
	Type         string                `json:"type"`
	Lines        []MovementLineRequest `json:"lines"`
	Reference    string                `json:"reference,omitempty"`
	Notes        string                `json:"notes,omitempty"`
	CustomerName string                `json:"customer_name,omitempty"`
}

// MovementLineDTO línea persistida.
type MovementLineDTO struct {
	ID        string          `json:"id"`
	SKU       string          `json:"sku"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// MovementDTO cabecera con sus líneas.
type MovementDTO struct {
	ID           string            `json:"id"`
	Type         string            `json:"type"`
	Status       string            `json:"status"`
	Reference    string            `json:"reference,omitempty"`
	CustomerName string            `json:"customer_name,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	PerformedBy  string            `json:"performed_by"`
	CreatedAt    time.Time         `json:"created_at"`
	Total        decimal.Decimal   `json:"total"`
	Lines        []MovementLineDTO `json:"lines"`
}

// NewMovementDTO construye la respuesta desde la entidad.
func NewMovementDTO(m *entity.Movement) MovementDTO {
	out := MovementDTO{
		ID:           m.ID,
		Type:         string(m.Type),
		Status:       string(m.Status),
		Reference:    m.Reference,
		CustomerName: m.CustomerName,
		Notes:        m.Notes,
		PerformedBy:  m.PerformedBy,
		CreatedAt:    m.CreatedAt,
		Total:        decimal.Zero,
		Lines:        make([]MovementLineDTO, 0, len(m.Lines)),
	}
	for _, l := range m.Lines {
		out.Total = out.Total.Add(l.Total)
		out.Lines = append(out.Lines, MovementLineDTO{
			ID:        l.ID,
			SKU:       l.SKU,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Total:     l.Total,
		})
	}
	return out
}

// CurrentStockDTO fila del stock actual.
type CurrentStockDTO struct {
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Price            decimal.Decimal `json:"price"`
	MinStock         int             `json:"min_stock"`
	BarcodeAttribute string          `json:"barcode_attribute,omitempty"`
	OnHand           int64           `json:"on_hand"`
	TotalValue       decimal.Decimal `json:"total_value"`
	LowStock         bool            `json:"low_stock"`
}

// NewCurrentStockDTOs convierte las filas del proyector.
func NewCurrentStockDTOs(rows []entity.CurrentStock) []CurrentStockDTO {
	out := make([]CurrentStockDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, CurrentStockDTO{
			SKU:              r.SKU,
			Name:             r.Name,
			Price:            r.Price,
			MinStock:         r.MinStock,
			BarcodeAttribute: r.BarcodeAttribute,
			OnHand:           r.OnHand,
			TotalValue:       r.TotalValue,
			LowStock:         r.LowStock,
		})
	}
	return out
}
