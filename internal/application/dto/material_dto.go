package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// CreateMaterialRequest entrada para crear un material. El stock inicial siempre es 0;
// se carga con movimientos de ENTRADA.
type CreateMaterialRequest struct {
	Name       string          `json:"name" validate:"required,min=1,max=100"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	CategoryID *int64          `json:"category_id" validate:"omitempty,min=1"`
	UnitID     *int64          `json:"unit_id" validate:"omitempty,min=1"`
}

// UpdateMaterialRequest campos opcionales; el stock no es editable.
type UpdateMaterialRequest struct {
	Name       *string          `json:"name" validate:"omitempty,min=1,max=100"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
	CategoryID *int64           `json:"category_id" validate:"omitempty,min=1"`
	UnitID     *int64           `json:"unit_id" validate:"omitempty,min=1"`
}

// MaterialListQuery filtros de GET /materials.
type MaterialListQuery struct {
	PageRequest
	Search     string `query:"search" validate:"omitempty,max=100"`
	CategoryID int64  `query:"category_id" validate:"omitempty,min=1"`
}

// MaterialResponse salida de un material.
type MaterialResponse struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Stock      int64           `json:"stock"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	CategoryID *int64          `json:"category_id,omitempty"`
	UnitID     *int64          `json:"unit_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// NewMaterialResponse mapea la entidad a la salida HTTP.
func NewMaterialResponse(m *entity.Material) *MaterialResponse {
	if m == nil {
		return nil
	}
	return &MaterialResponse{
		ID:         m.ID,
		Name:       m.Name,
		Stock:      m.Stock,
		UnitPrice:  m.UnitPrice,
		CategoryID: m.CategoryID,
		UnitID:     m.UnitID,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// ReconciliationResponse comparación entre stock persistido y suma del libro.
type ReconciliationResponse struct {
	MaterialID    int64 `json:"material_id"`
	Stock         int64 `json:"stock"`
	LedgerBalance int64 `json:"ledger_balance"`
	Inbound       int64 `json:"inbound"`
	Outbound      int64 `json:"outbound"`
	Movements     int   `json:"movements"`
	Drift         int64 `json:"drift"`
	Consistent    bool  `json:"consistent"`
}
