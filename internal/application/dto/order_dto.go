package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// OrderLineRequest línea de pedido en la entrada.
type OrderLineRequest struct {
	MaterialID         int64           `json:"material_id" validate:"required,min=1"`
	Quantity           int64           `json:"quantity" validate:"required,min=1"`
	EstimatedUnitPrice decimal.Decimal `json:"estimated_unit_price"`
}

// CreateOrderRequest entrada para crear un pedido PENDENTE.
type CreateOrderRequest struct {
	SupplierID *int64             `json:"supplier_id" validate:"omitempty,min=1"`
	Lines      []OrderLineRequest `json:"lines" validate:"omitempty,dive"`
}

// OrderListQuery filtros de GET /orders.
type OrderListQuery struct {
	PageRequest
	SupplierID int64  `query:"supplier_id" validate:"omitempty,min=1"`
	Year       int    `query:"year" validate:"omitempty,min=2000,max=9999"`
	Month      int    `query:"month" validate:"omitempty,min=1,max=12"`
	Status     string `query:"status" validate:"omitempty,oneof=PENDENTE RECEBIDO CANCELADO"`
}

// OrderLineResponse salida de una línea.
type OrderLineResponse struct {
	MaterialID         int64           `json:"material_id"`
	Quantity           int64           `json:"quantity"`
	EstimatedUnitPrice decimal.Decimal `json:"estimated_unit_price"`
	Subtotal           decimal.Decimal `json:"subtotal"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID             int64               `json:"id"`
	SupplierID     *int64              `json:"supplier_id,omitempty"`
	Status         string              `json:"status"`
	CreatedAt      time.Time           `json:"created_at"`
	EstimatedTotal decimal.Decimal     `json:"estimated_total"`
	Lines          []OrderLineResponse `json:"lines,omitempty"`
}

// NewOrderResponse mapea la entidad a la salida HTTP.
func NewOrderResponse(o *entity.PurchaseOrder) *OrderResponse {
	if o == nil {
		return nil
	}
	out := &OrderResponse{
		ID:             o.ID,
		SupplierID:     o.SupplierID,
		Status:         string(o.Status),
		CreatedAt:      o.CreatedAt,
		EstimatedTotal: o.EstimatedTotal,
	}
	for _, l := range o.Lines {
		out.Lines = append(out.Lines, OrderLineResponse{
			MaterialID:         l.MaterialID,
			Quantity:           l.Quantity,
			EstimatedUnitPrice: l.EstimatedUnitPrice,
			Subtotal:           l.Subtotal(),
		})
	}
	return out
}

// OrderTotalResponse salida de POST /orders/:id/total.
type OrderTotalResponse struct {
	OrderID        int64           `json:"order_id"`
	EstimatedTotal decimal.Decimal `json:"estimated_total"`
}
