package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/procurement"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

func TestFormatBRL(t *testing.T) {
	cases := map[string]string{
		"0":       "R$ 0,00",
		"12.5":    "R$ 12,50",
		"1234.56": "R$ 1.234,56",
		"1000000": "R$ 1.000.000,00",
		"-950.1":  "R$ -950,10",
		"0.005":   "R$ 0,01",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatBRL(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateOrderPDF(t *testing.T) {
	order := &entity.PurchaseOrder{
		ID:             7,
		Status:         entity.OrderPendente,
		CreatedAt:      time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		EstimatedTotal: decimal.RequireFromString("15.00"),
	}
	lines := []procurement.OrderLineForPDF{{
		MaterialName:       "PARAFUSO",
		UnitName:           "UN",
		Quantity:           50,
		EstimatedUnitPrice: decimal.RequireFromString("0.30"),
		Subtotal:           decimal.RequireFromString("15.00"),
	}}

	out, err := NewMarotoPDFGenerator("").GenerateOrderPDF(context.Background(), order, nil, lines)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewMarotoPDFGenerator("Obra").GenerateOrderPDF(context.Background(), nil, nil, nil)
	assert.Error(t, err)
}
