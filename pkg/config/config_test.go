package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.DB.TxMaxRetries)
	assert.Equal(t, 5*time.Second, cfg.DB.StatementTimeout)
	assert.Equal(t, int32(25), cfg.DB.MaxConns)
	assert.False(t, cfg.Redis.Enabled())
	assert.Empty(t, cfg.Admin.Email)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "MEMORY")
	v.Set("DB_TX_MAX_RETRIES", "5")
	v.Set("DB_STATEMENT_TIMEOUT", "250ms")
	v.Set("REDIS_URL", "redis://localhost:6379")
	v.Set("REDIS_DASHBOARD_TTL", "60")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 5, cfg.DB.TxMaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.DB.StatementTimeout)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, time.Minute, cfg.Redis.DashboardTTL)
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "sqlite")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_Admin(t *testing.T) {
	v := viper.New()
	v.Set("ADMIN_EMAIL", "admin@obra.com")
	v.Set("ADMIN_PASSWORD", "curta")
	_, err := fromViper(v)
	assert.Error(t, err)

	v.Set("ADMIN_PASSWORD", "segredo123")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "admin@obra.com", cfg.Admin.Email)
}

func TestDSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "estoque", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/estoque?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
