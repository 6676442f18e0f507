package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardResponse respuesta de GET /api/dashboard.
type DashboardResponse struct {
	StockValue          decimal.Decimal       `json:"stock_value"` // Σ stock × precio unitario
	ServicesInExecution int                   `json:"services_in_execution"`
	CriticalMaterials   []CriticalMaterialDTO `json:"critical_materials"` // stock < 5, ascendente
	RecentMovements     []MovementHistoryItem `json:"recent_movements"`   // últimos 5
	GeneratedAt         time.Time             `json:"generated_at"`
}

// CriticalMaterialDTO material con stock bajo.
type CriticalMaterialDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Stock    int64  `json:"stock"`
	UnitName string `json:"unit_name,omitempty"`
}
