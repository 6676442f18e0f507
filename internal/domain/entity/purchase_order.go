package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado de un pedido de compra.
type OrderStatus string

// Estados del pedido. RECEBIDO y CANCELADO son terminales.
const (
	OrderPendente  OrderStatus = "PENDENTE"
	OrderRecebido  OrderStatus = "RECEBIDO"
	OrderCancelado OrderStatus = "CANCELADO"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPendente: {OrderRecebido, OrderCancelado},
}

// IsValid indica si el estado pertenece a la enumeración.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPendente, OrderRecebido, OrderCancelado:
		return true
	}
	return false
}

// CanTransitionTo reporta si la transición s -> next está permitida.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal true si no admite más transiciones.
func (s OrderStatus) IsTerminal() bool { return len(orderTransitions[s]) == 0 }

// OrderLine línea de un pedido; única por (pedido, material).
type OrderLine struct {
	OrderID            int64
	MaterialID         int64
	Quantity           int64
	EstimatedUnitPrice decimal.Decimal
}

// Subtotal cantidad por precio estimado.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.EstimatedUnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// PurchaseOrder pedido de compra a un fornecedor.
type PurchaseOrder struct {
	ID             int64
	SupplierID     *int64
	Status         OrderStatus
	CreatedAt      time.Time
	EstimatedTotal decimal.Decimal
	Lines          []OrderLine
}

// CalculateTotal suma los subtotales de las líneas.
func (o *PurchaseOrder) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Line devuelve la línea del material indicado, si existe.
func (o *PurchaseOrder) Line(materialID int64) (OrderLine, bool) {
	for _, l := range o.Lines {
		if l.MaterialID == materialID {
			return l, true
		}
	}
	return OrderLine{}, false
}
