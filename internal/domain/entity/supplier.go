package entity

import "time"

// Supplier representa un fornecedor al que se emiten pedidos de compra.
type Supplier struct {
	ID        int64
	Name      string
	Contact   string // opcional
	Phone     string // opcional
	CreatedAt time.Time
}
