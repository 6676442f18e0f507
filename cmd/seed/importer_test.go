package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

func newTestImporter(t *testing.T) (*importer, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	led := inventory.NewLedgerUseCase(memory.NewTxRunner(store), nil, logger.Nop())
	return newImporter(
		usecase.NewCatalogUseCase(store.Categories(), store.Units()),
		usecase.NewMaterialUseCase(store.Materials(), store.Categories(), store.Units(), nil),
		led,
	), store
}

func TestImport_CargaMaterialesYSaldoInicial(t *testing.T) {
	im, store := newTestImporter(t)
	csvData := "nome;categoria;unidade;preco;estoque\n" +
		"parafuso 6mm;Fixação;un;0,10;100\n" +
		"bucha 6mm;fixação;un;0.05;\n" +
		";Fixação;un;1;1\n" +
		"cimento;Alvenaria;sc;\"1.032,90\";-3\n" +
		"cal;Alvenaria;sc;R$ 12,50;4\n"

	res, err := im.Import(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Materials)
	assert.Equal(t, 2, res.Categories)
	assert.Equal(t, 2, res.Units)
	assert.Len(t, res.Skipped, 2)

	mats, err := store.Materials().List(context.Background(), repository.MaterialFilter{})
	require.NoError(t, err)
	byName := map[string]int64{}
	for _, m := range mats {
		byName[m.Name] = m.Stock
	}
	assert.Equal(t, map[string]int64{"PARAFUSO 6MM": 100, "BUCHA 6MM": 0, "CAL": 4}, byName)

	// Solo los materiales con estoque > 0 generan movimiento.
	moves, err := store.Reports().Movements(context.Background(), repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, moves, 2)
	for _, mv := range moves {
		assert.Equal(t, initialStockReference, mv.Reference)
	}
}

func TestImport_ReusaCatalogoExistente(t *testing.T) {
	im, _ := newTestImporter(t)
	_, err := im.catalog.CreateCategory(context.Background(), dto.CreateCategoryRequest{Name: "Elétrica"})
	require.NoError(t, err)

	res, err := im.Import(context.Background(), strings.NewReader("disjuntor 20A;ELÉTRICA;;25;2\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Materials)
	assert.Equal(t, 0, res.Categories)
	assert.Equal(t, 0, res.Units)
}

func TestDecodeInput_Latin1(t *testing.T) {
	raw, err := charmap.ISO8859_1.NewEncoder().String("conexão;Hidráulica;pç;3,20;5\n")
	require.NoError(t, err)
	buf := bytes.NewBufferString(raw)

	im, _ := newTestImporter(t)
	res, err := im.Import(context.Background(), decodeInput(buf, true))
	require.NoError(t, err)
	require.Equal(t, 1, res.Materials)

	cats, err := im.catalog.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Hidráulica", cats[0].Name)
}

func TestParsePrice(t *testing.T) {
	cases := map[string]string{
		"":         "0",
		"12.5":     "12.5",
		"1.234,56": "1234.56",
		"R$ 0,10":  "0.1",
		"3,333":    "3.33",
	}
	for in, want := range cases {
		got, err := parsePrice(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.String(), in)
	}
	_, err := parsePrice("abc")
	assert.Error(t, err)
	_, err = parsePrice("-1")
	assert.Error(t, err)
}
