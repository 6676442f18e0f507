package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

func TestOrderStatus_Transiciones(t *testing.T) {
	assert.True(t, entity.OrderPendente.CanTransitionTo(entity.OrderRecebido))
	assert.True(t, entity.OrderPendente.CanTransitionTo(entity.OrderCancelado))
	assert.False(t, entity.OrderRecebido.CanTransitionTo(entity.OrderCancelado))
	assert.False(t, entity.OrderCancelado.CanTransitionTo(entity.OrderRecebido))
	assert.False(t, entity.OrderRecebido.CanTransitionTo(entity.OrderPendente))
	assert.True(t, entity.OrderRecebido.IsTerminal())
	assert.True(t, entity.OrderCancelado.IsTerminal())
	assert.False(t, entity.OrderPendente.IsTerminal())
}

// Tabla completa: solo dos transiciones son válidas.
func TestServiceStatus_Totalidad(t *testing.T) {
	all := []entity.ServiceStatus{entity.ServicePlanejado, entity.ServiceExecucao, entity.ServiceConcluido}
	allowed := map[[2]entity.ServiceStatus]bool{
		{entity.ServicePlanejado, entity.ServiceExecucao}: true,
		{entity.ServiceExecucao, entity.ServiceConcluido}: true,
	}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]entity.ServiceStatus{from, to}], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestPurchaseOrder_CalculateTotal_IndependienteDelOrden(t *testing.T) {
	lines := []entity.OrderLine{
		{MaterialID: 1, Quantity: 3, EstimatedUnitPrice: decimal.RequireFromString("0.10")},
		{MaterialID: 2, Quantity: 7, EstimatedUnitPrice: decimal.RequireFromString("12.35")},
		{MaterialID: 3, Quantity: 1, EstimatedUnitPrice: decimal.RequireFromString("999.99")},
	}
	a := &entity.PurchaseOrder{Lines: lines}
	b := &entity.PurchaseOrder{Lines: []entity.OrderLine{lines[2], lines[0], lines[1]}}
	assert.True(t, a.CalculateTotal().Equal(b.CalculateTotal()))
	assert.Equal(t, "1086.74", a.CalculateTotal().StringFixed(2))
}

func TestMaterial_Normalize(t *testing.T) {
	m := &entity.Material{Name: "  parafuso sextavado ç ", UnitPrice: decimal.RequireFromString("1.005")}
	m.Normalize()
	assert.Equal(t, "PARAFUSO SEXTAVADO Ç", m.Name)
	assert.Equal(t, "1.01", m.UnitPrice.StringFixed(2))
}

func TestMovementRecord_Signed(t *testing.T) {
	assert.Equal(t, int64(5), entity.MovementRecord{Kind: entity.MovementEntrada, Quantity: 5}.Signed())
	assert.Equal(t, int64(-5), entity.MovementRecord{Kind: entity.MovementSaida, Quantity: 5}.Signed())
}
