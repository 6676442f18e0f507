package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/estoque-api/internal/application/auth"
	"github.com/jhoicas/estoque-api/internal/application/consumption"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/procurement"
	"github.com/jhoicas/estoque-api/internal/application/reporting"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/estoque-api/internal/infrastructure/pdf"
	"github.com/jhoicas/estoque-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/estoque-api/internal/interfaces/http"
	"github.com/jhoicas/estoque-api/pkg/config"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer backend.Close()

	// Caché del dashboard: opcional. Sin Redis los casos de uso reciben nil.
	var (
		dashboardCache reporting.DashboardCache
		invalidator    inventory.Invalidator
	)
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, dashboard sin caché")
		} else {
			defer client.Close()
			dc := cache.NewDashboardCache(client, cfg.Redis.DashboardTTL, log.Named("cache"))
			dashboardCache = dc
			invalidator = dc
		}
	}

	ledgerUC := inventory.NewLedgerUseCase(backend.TxRunner, invalidator, log)
	orderUC := procurement.NewOrderUseCase(backend.TxRunner, ledgerUC, backend.Orders, backend.Suppliers, invalidator, log)
	serviceUC := consumption.NewServiceUseCase(
		backend.TxRunner, ledgerUC, backend.Services, backend.Materials, backend.Consumption, invalidator, log,
	)
	history := reporting.NewMovementHistory(backend.Reports, backend.Orders, backend.Suppliers, log)
	dashboardUC := reporting.NewDashboardUseCase(backend.Reports, history, dashboardCache, log)

	// PDF del pedido para enviar al fornecedor
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	orderPDFUC := procurement.NewPDFUseCase(backend.Orders, backend.Suppliers, backend.Materials, backend.Units, pdfGenerator)

	authUC := auth.NewAuthUseCase(backend.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if cfg.Admin.Email != "" {
		admin, err := authUC.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			log.Fatal().Err(err).Msg("administrador inicial")
		}
		log.Info().Str("user_id", admin.ID).Str("email", admin.Email).Msg("administrador inicial listo")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Estoque API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": backend.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		MaterialUC:  usecase.NewMaterialUseCase(backend.Materials, backend.Categories, backend.Units, invalidator),
		CatalogUC:   usecase.NewCatalogUseCase(backend.Categories, backend.Units),
		SupplierUC:  usecase.NewSupplierUseCase(backend.Suppliers),
		LedgerUC:    ledgerUC,
		OrderUC:     orderUC,
		OrderPDFUC:  orderPDFUC,
		ServiceUC:   serviceUC,
		History:     history,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
