package dto

import (
	"time"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// RegisterMovementRequest movimiento manual sobre un material (fuera de pedidos y servicios).
type RegisterMovementRequest struct {
	MaterialID int64  `json:"material_id" validate:"required,min=1"`
	Kind       string `json:"kind" validate:"required,oneof=ENTRADA SAIDA_MANUAL"`
	Quantity   int64  `json:"quantity" validate:"required,min=1"`
	Reference  string `json:"reference" validate:"omitempty,max=100"`
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID            int64     `json:"id"`
	TransactionID string    `json:"transaction_id"`
	MaterialID    int64     `json:"material_id"`
	Kind          string    `json:"kind"`
	Quantity      int64     `json:"quantity"`
	Reference     string    `json:"reference"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewMovementResponse mapea la entidad a la salida HTTP.
func NewMovementResponse(m *entity.MovementRecord) *MovementResponse {
	if m == nil {
		return nil
	}
	return &MovementResponse{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		MaterialID:    m.MaterialID,
		Kind:          string(m.Kind),
		Quantity:      m.Quantity,
		Reference:     m.Reference,
		CreatedAt:     m.CreatedAt,
	}
}

// MovementListQuery filtros de GET /movements.
type MovementListQuery struct {
	PageRequest
	Search     string `query:"search" validate:"omitempty,max=100"`
	CategoryID int64  `query:"category_id" validate:"omitempty,min=1"`
	Kind       string `query:"kind" validate:"omitempty,oneof=ENTRADA SAIDA SAIDA_MANUAL CONSUMO"`
}

// MovementHistoryItem fila del histórico con la referencia ya resuelta para mostrar.
type MovementHistoryItem struct {
	ID                int64     `json:"id"`
	MaterialID        int64     `json:"material_id"`
	MaterialName      string    `json:"material_name"`
	UnitName          string    `json:"unit_name,omitempty"`
	Kind              string    `json:"kind"`
	Quantity          int64     `json:"quantity"`
	Reference         string    `json:"reference"`
	ResolvedReference string    `json:"resolved_reference"`
	CreatedAt         time.Time `json:"created_at"`
}
