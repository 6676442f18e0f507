package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// OrderFilter filtros del listado de pedidos.
type OrderFilter struct {
	SupplierID *int64
	Year       int // 0 = sin filtro
	Month      int // 1-12, 0 = sin filtro; requiere Year
	Status     entity.OrderStatus
	Limit      int
	Offset     int
}

// OrderMonth mes/año en que existe al menos un pedido.
type OrderMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// PurchaseOrderRepository define el puerto de persistencia para pedidos y sus líneas.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, o *entity.PurchaseOrder) error
	// GetByID carga el pedido con sus líneas; (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.PurchaseOrder, error)
	// GetForUpdate igual que GetByID pero bloqueando la fila del pedido.
	GetForUpdate(ctx context.Context, id int64) (*entity.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) error
	UpdateTotal(ctx context.Context, id int64, total decimal.Decimal) error
	// AddLine devuelve domain.ErrDuplicate si el material ya está en el pedido.
	AddLine(ctx context.Context, line entity.OrderLine) error
	// RemoveLine devuelve domain.ErrNotFound si la línea no existe.
	RemoveLine(ctx context.Context, orderID, materialID int64) error
	// List no carga líneas.
	List(ctx context.Context, f OrderFilter) ([]*entity.PurchaseOrder, error)
	ListMonths(ctx context.Context) ([]OrderMonth, error)
}
