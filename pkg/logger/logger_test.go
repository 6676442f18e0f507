package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/pkg/logger"
)

func TestNew_JSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Out: &buf})

	log.Named("postgres").Info().Int64("order_id", 7).Msg("pedido recibido")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "postgres", entry["component"])
	assert.Equal(t, float64(7), entry["order_id"])
	assert.Equal(t, "pedido recibido", entry["message"])
}

func TestNew_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "WARN", Out: &buf})

	log.Info().Msg("descartado")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNew_NivelInvalidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "verbose", Out: &buf})

	log.Debug().Msg("descartado")
	log.Info().Msg("visible")
	assert.NotContains(t, buf.String(), "descartado")
	assert.Contains(t, buf.String(), "visible")
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { logger.Nop().Named("x").Error().Msg("nada") })
}
