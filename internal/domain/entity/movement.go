package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de inventario.
type MovementType string

const (
	MovementTypeInbound    MovementType = "INBOUND"    // entrada
	MovementTypeOutbound   MovementType = "OUTBOUND"   // salida
	MovementTypeAdjustment MovementType = "ADJUSTMENT" // ajuste, conserva el signo
	MovementTypeSale       MovementType = "SALE"       // venta
	MovementTypeTransfer   MovementType = "TRANSFER"   // traslado, conserva el signo
)

// Valid indica si el tipo pertenece al conjunto cerrado.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeInbound, MovementTypeOutbound, MovementTypeAdjustment, MovementTypeSale, MovementTypeTransfer:
		return true
	}
	return false
}

// Normalize aplica la regla de signo del tipo a una cantidad capturada.
func (t MovementType) Normalize(qty int64) int64 {
	abs := qty
	if abs < 0 {
		abs = -abs
	}
	switch t {
	case MovementTypeInbound:
		return abs
	case MovementTypeOutbound, MovementTypeSale:
		return -abs
	}
	return qty
}

// MovementStatus estado de la cabecera.
type MovementStatus string

const (
	MovementStatusPending   MovementStatus = "pending"
	MovementStatusCompleted MovementStatus = "completed"
	MovementStatusCancelled MovementStatus = "cancelled"
)

// Movement cabecera de un movimiento. Inmutable una vez confirmadas sus líneas;
// la cancelación es un cambio de estado, no un borrado.
type Movement struct {
	ID           string
	Type         MovementType
	Reference    string
	CustomerName string
	Notes        string
	PerformedBy  string // UserID de quien registra
	Status       MovementStatus
	CreatedAt    time.Time
	Lines        []MovementLine
}

// MovementLine línea de un movimiento. UnitPrice es la foto del precio al momento de escribir.
type MovementLine struct {
	ID         string
	MovementID string
	SKU        string
	Quantity   int64           // con signo ya normalizado
	UnitPrice  decimal.Decimal
	Total      decimal.Decimal // Quantity * UnitPrice
	CreatedAt  time.Time
}

// LineTotal calcula el total de una línea.
func LineTotal(qty int64, unitPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(qty).Mul(unitPrice)
}

// ParseMovementType acepta el nombre canónico y los alias usados en captura (IN, STOCK_IN, OUT, STOCK_OUT...).
// Devuelve un tipo no válido si no reconoce el texto.
func ParseMovementType(s string) MovementType {
	switch strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(s))) {
	case "INBOUND", "IN", "STOCK_IN":
		return MovementTypeInbound
	case "OUTBOUND", "OUT", "STOCK_OUT":
		return MovementTypeOutbound
	case "ADJUSTMENT", "ADJUST":
		return MovementTypeAdjustment
	case "SALE":
		return MovementTypeSale
	case "TRANSFER":
		return MovementTypeTransfer
	}
	return MovementType(s)
}
