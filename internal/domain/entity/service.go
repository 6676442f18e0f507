package entity

import "time"

// ServiceStatus estado de un servicio/obra.
type ServiceStatus string

// Estados del servicio: PLANEJADO -> EXECUCAO -> CONCLUIDO.
const (
	ServicePlanejado ServiceStatus = "PLANEJADO"
	ServiceExecucao  ServiceStatus = "EXECUCAO"
	ServiceConcluido ServiceStatus = "CONCLUIDO"
)

var serviceTransitions = map[ServiceStatus]ServiceStatus{
	ServicePlanejado: ServiceExecucao,
	ServiceExecucao:  ServiceConcluido,
}

// IsValid indica si el estado pertenece a la enumeración.
func (s ServiceStatus) IsValid() bool {
	switch s {
	case ServicePlanejado, ServiceExecucao, ServiceConcluido:
		return true
	}
	return false
}

// CanTransitionTo solo permite avanzar un paso; nunca retroceder.
func (s ServiceStatus) CanTransitionTo(next ServiceStatus) bool {
	to, ok := serviceTransitions[s]
	return ok && to == next
}

// RequiredItem material y cantidad que un servicio necesita; único por (servicio, material).
type RequiredItem struct {
	ServiceID  int64
	MaterialID int64
	Quantity   int64
}

// Service obra o servicio que consume materiales.
type Service struct {
	ID          int64
	Name        string
	Status      ServiceStatus
	Description string
	CreatedAt   time.Time
	Items       []RequiredItem
}

// Item devuelve el ítem requerido del material indicado, si existe.
func (s *Service) Item(materialID int64) (RequiredItem, bool) {
	for _, it := range s.Items {
		if it.MaterialID == materialID {
			return it, true
		}
	}
	return RequiredItem{}, false
}

// ConsumptionRecord registro inmutable de material consumido por un servicio.
type ConsumptionRecord struct {
	ID         int64
	ServiceID  int64
	MaterialID int64
	Quantity   int64
	CreatedAt  time.Time
}
