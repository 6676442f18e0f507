package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/infrastructure/storage"
	"github.com/jhoicas/estoque-api/pkg/config"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

func TestOpen_Memoria(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.StorageMemory}}
	b, err := storage.Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, config.StorageMemory, b.Driver)

	// Repos fuera de tx y TxRunner comparten el mismo almacén.
	m := &entity.Material{Name: "TUBO PVC"}
	require.NoError(t, b.Materials.Create(context.Background(), m))
	got, err := b.Materials.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "TUBO PVC", got.Name)
}

func TestOpen_DriverDesconocido(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "sqlite"}}
	_, err := storage.Open(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
