// Package cache caché del resumen del dashboard en Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/reporting"
	"github.com/jhoicas/estoque-api/pkg/config"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

const dashboardKey = "estoque:dashboard:summary"

var (
	_ reporting.DashboardCache = (*DashboardCache)(nil)
	_ inventory.Invalidator    = (*DashboardCache)(nil)
)

// NewRedisClient abre el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	if cfg.Password != "" {
		opt.Password = cfg.Password
	}
	opt.DB = cfg.DB

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// DashboardCache guarda el resumen como JSON con TTL. Cualquier fallo de Redis se trata
// como miss: el dashboard se recalcula desde la base.
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewDashboardCache construye la caché. ttl <= 0 usa 30s.
func NewDashboardCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *DashboardCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardCache{client: client, ttl: ttl, log: log}
}

func (c *DashboardCache) Get(ctx context.Context) (*dto.DashboardResponse, bool) {
	data, err := c.client.Get(ctx, dashboardKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("redis: leer dashboard")
		}
		return nil, false
	}
	var out dto.DashboardResponse
	if err := json.Unmarshal(data, &out); err != nil {
		c.log.Warn().Err(err).Msg("redis: entrada de dashboard corrupta")
		return nil, false
	}
	return &out, true
}

func (c *DashboardCache) Set(ctx context.Context, summary *dto.DashboardResponse) {
	data, err := json.Marshal(summary)
	if err != nil {
		c.log.Warn().Err(err).Msg("redis: serializar dashboard")
		return
	}
	if err := c.client.Set(ctx, dashboardKey, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("redis: guardar dashboard")
	}
}

// Invalidate se llama tras cada escritura que cambia stock, pedidos o servicios.
func (c *DashboardCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, dashboardKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("redis: invalidar dashboard")
	}
}
