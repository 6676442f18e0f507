// Package reporting contiene las consultas de solo lectura: dashboard, histórico de
// movimientos y resolución de referencias para mostrar.
package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

const (
	criticalStockThreshold = 5 // materiales con stock < 5 son críticos
	dashboardRecentMoves   = 5
)

// DashboardCache caché del resumen del dashboard. Get devuelve false si no hay entrada válida.
type DashboardCache interface {
	Get(ctx context.Context) (*dto.DashboardResponse, bool)
	Set(ctx context.Context, summary *dto.DashboardResponse)
	Invalidate(ctx context.Context)
}

// DashboardUseCase genera el resumen del almoxarifado.
//
// Fuente de datos: ReportRepository (consultas read-only). La referencia de cada movimiento
// reciente se resuelve con MovementHistory.
type DashboardUseCase struct {
	reportRepo repository.ReportRepository
	history    *MovementHistory
	cache      DashboardCache
	log        *logger.Logger
	now        func() time.Time
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil.
func NewDashboardUseCase(reportRepo repository.ReportRepository, history *MovementHistory, cache DashboardCache, log *logger.Logger) *DashboardUseCase {
	return &DashboardUseCase{reportRepo: reportRepo, history: history, cache: cache, log: log, now: time.Now}
}

// GetSummary devuelve el resumen desde caché o lo recalcula.
//
// Cuatro consultas en paralelo:
//  1. StockValue                    → Σ stock × precio
//  2. CountServicesByStatus(EXEC)   → servicios en ejecución
//  3. CriticalMaterials(5)          → stock crítico ascendente
//  4. Movements(limit 5)            → últimos movimientos
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardResponse, error) {
	if uc.cache != nil {
		if cached, ok := uc.cache.Get(ctx); ok {
			return cached, nil
		}
	}

	type valueResult struct {
		v   decimal.Decimal
		err error
	}
	type countResult struct {
		n   int
		err error
	}
	type criticalResult struct {
		items []repository.CriticalMaterial
		err   error
	}
	type movesResult struct {
		items []dto.MovementHistoryItem
		err   error
	}

	valueCh := make(chan valueResult, 1)
	countCh := make(chan countResult, 1)
	criticalCh := make(chan criticalResult, 1)
	movesCh := make(chan movesResult, 1)

	go func() {
		v, err := uc.reportRepo.StockValue(ctx)
		valueCh <- valueResult{v, err}
	}()
	go func() {
		n, err := uc.reportRepo.CountServicesByStatus(ctx, entity.ServiceExecucao)
		countCh <- countResult{n, err}
	}()
	go func() {
		items, err := uc.reportRepo.CriticalMaterials(ctx, criticalStockThreshold)
		criticalCh <- criticalResult{items, err}
	}()
	go func() {
		items, err := uc.history.List(ctx, dto.MovementListQuery{PageRequest: dto.PageRequest{Limit: dashboardRecentMoves}})
		movesCh <- movesResult{items, err}
	}()

	value := <-valueCh
	count := <-countCh
	critical := <-criticalCh
	moves := <-movesCh

	if value.err != nil {
		return nil, fmt.Errorf("dashboard: valor de stock: %w", value.err)
	}
	if count.err != nil {
		return nil, fmt.Errorf("dashboard: servicios en ejecución: %w", count.err)
	}
	if critical.err != nil {
		return nil, fmt.Errorf("dashboard: materiales críticos: %w", critical.err)
	}
	if moves.err != nil {
		return nil, fmt.Errorf("dashboard: últimos movimientos: %w", moves.err)
	}

	out := &dto.DashboardResponse{
		StockValue:          value.v.Round(2),
		ServicesInExecution: count.n,
		CriticalMaterials:   make([]dto.CriticalMaterialDTO, 0, len(critical.items)),
		RecentMovements:     moves.items,
		GeneratedAt:         uc.now(),
	}
	for _, c := range critical.items {
		out.CriticalMaterials = append(out.CriticalMaterials, dto.CriticalMaterialDTO{
			ID:       c.ID,
			Name:     c.Name,
			Stock:    c.Stock,
			UnitName: deref(c.UnitName),
		})
	}

	// Cache-aside sin versión: si un commit invalida mientras se calcula, este Set puede
	// dejar un resumen previo a ese commit hasta que venza el TTL.
	if uc.cache != nil {
		uc.cache.Set(ctx, out)
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
