package dto

import (
	"time"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// RequiredItemRequest material requerido por un servicio.
type RequiredItemRequest struct {
	MaterialID int64 `json:"material_id" validate:"required,min=1"`
	Quantity   int64 `json:"quantity" validate:"required,min=1"`
}

// CreateServiceRequest entrada para crear un servicio PLANEJADO.
type CreateServiceRequest struct {
	Name        string                `json:"name" validate:"required,min=1,max=100"`
	Description string                `json:"description" validate:"omitempty,max=2000"`
	Items       []RequiredItemRequest `json:"items" validate:"omitempty,dive"`
}

// ServiceListQuery filtros de GET /services.
type ServiceListQuery struct {
	PageRequest
	Search string `query:"search" validate:"omitempty,max=100"`
	Status string `query:"status" validate:"omitempty,oneof=PLANEJADO EXECUCAO CONCLUIDO"`
}

// RequiredItemResponse salida de un ítem requerido.
type RequiredItemResponse struct {
	MaterialID int64 `json:"material_id"`
	Quantity   int64 `json:"quantity"`
}

// ServiceResponse salida de un servicio.
type ServiceResponse struct {
	ID          int64                  `json:"id"`
	Name        string                 `json:"name"`
	Status      string                 `json:"status"`
	Description string                 `json:"description,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	Items       []RequiredItemResponse `json:"items,omitempty"`
}

// NewServiceResponse mapea la entidad a la salida HTTP.
func NewServiceResponse(s *entity.Service) *ServiceResponse {
	if s == nil {
		return nil
	}
	out := &ServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Status:      string(s.Status),
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, RequiredItemResponse{MaterialID: it.MaterialID, Quantity: it.Quantity})
	}
	return out
}

// ShortfallEntry material cuyo stock no cubre lo requerido por el servicio.
type ShortfallEntry struct {
	MaterialID   int64  `json:"material_id"`
	MaterialName string `json:"material_name"`
	Required     int64  `json:"required"`
	Available    int64  `json:"available"`
	Shortfall    int64  `json:"shortfall"`
}

// ConsumptionResponse registro de consumo de un servicio.
type ConsumptionResponse struct {
	ID         int64     `json:"id"`
	ServiceID  int64     `json:"service_id"`
	MaterialID int64     `json:"material_id"`
	Quantity   int64     `json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
}
