package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUnitRequest entrada para crear una unidad de medida.
type CreateUnitRequest struct {
	Name string `json:"name" validate:"required,min=1,max=10"`
}

// UnitResponse salida de una unidad de medida.
type UnitResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSupplierRequest entrada para crear un fornecedor.
type CreateSupplierRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Contact string `json:"contact" validate:"omitempty,max=100"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
}

// SupplierResponse salida de un fornecedor.
type SupplierResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
