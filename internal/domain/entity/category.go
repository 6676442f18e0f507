package entity

import "time"

// Category agrupa materiales (ej. ELÉTRICA, HIDRÁULICA).
type Category struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// UnitOfMeasure unidad en la que se cuenta un material (UN, M, KG...).
type UnitOfMeasure struct {
	ID        int64
	Name      string // máximo 10 caracteres
	CreatedAt time.Time
}
