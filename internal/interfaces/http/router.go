package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/auth"
	"github.com/jhoicas/estoque-api/internal/application/consumption"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/procurement"
	"github.com/jhoicas/estoque-api/internal/application/reporting"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	MaterialUC  *usecase.MaterialUseCase
	CatalogUC   *usecase.CatalogUseCase
	SupplierUC  *usecase.SupplierUseCase
	LedgerUC    *inventory.LedgerUseCase
	OrderUC     *procurement.OrderUseCase
	OrderPDFUC  *procurement.PDFUseCase
	ServiceUC   *consumption.ServiceUseCase
	History     *reporting.MovementHistory
	DashboardUC *reporting.DashboardUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
// Lectura: cualquier usuario autenticado. Escritura: comprador para compras y catálogo,
// almoxarife para servicios y movimientos; admin siempre.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authMW := AuthMiddleware(deps.JWTSecret)
	buyer := RequireRole(entity.RoleAdmin, entity.RoleComprador)
	keeper := RequireRole(entity.RoleAdmin, entity.RoleAlmoxarife)
	admin := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Usuarios (solo admin asigna roles)
	users := api.Group("/users", authMW, admin)
	users.Put("/:id/role", authHandler.SetRole)

	// Materiales
	materials := api.Group("/materials", authMW)
	materialHandler := NewMaterialHandler(deps.MaterialUC, deps.LedgerUC)
	materials.Get("/", materialHandler.List)
	materials.Post("/", buyer, materialHandler.Create)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Put("/:id", buyer, materialHandler.Update)
	materials.Delete("/:id", admin, materialHandler.Delete)
	materials.Get("/:id/reconciliation", materialHandler.Reconcile)

	// Catálogo
	catalogHandler := NewCatalogHandler(deps.CatalogUC, deps.SupplierUC)
	categories := api.Group("/categories", authMW)
	categories.Get("/", catalogHandler.ListCategories)
	categories.Post("/", buyer, catalogHandler.CreateCategory)
	units := api.Group("/units", authMW)
	units.Get("/", catalogHandler.ListUnits)
	units.Post("/", buyer, catalogHandler.CreateUnit)
	suppliers := api.Group("/suppliers", authMW)
	suppliers.Get("/", catalogHandler.ListSuppliers)
	suppliers.Post("/", buyer, catalogHandler.CreateSupplier)
	suppliers.Get("/:id", catalogHandler.GetSupplier)
	suppliers.Delete("/:id", admin, catalogHandler.DeleteSupplier)

	// Pedidos de compra (/months antes de /:id)
	orders := api.Group("/orders", authMW)
	orderHandler := NewOrderHandler(deps.OrderUC, deps.OrderPDFUC)
	orders.Get("/", orderHandler.List)
	orders.Post("/", buyer, orderHandler.Create)
	orders.Get("/months", orderHandler.Months)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/lines", buyer, orderHandler.AddLine)
	orders.Delete("/:id/lines/:materialId", buyer, orderHandler.RemoveLine)
	orders.Post("/:id/receive", keeper, orderHandler.Receive)
	orders.Post("/:id/cancel", buyer, orderHandler.Cancel)
	orders.Post("/:id/total", buyer, orderHandler.Total)
	orders.Get("/:id/pdf", orderHandler.PDF)

	// Servicios
	services := api.Group("/services", authMW)
	serviceHandler := NewServiceHandler(deps.ServiceUC)
	services.Get("/", serviceHandler.List)
	services.Post("/", keeper, serviceHandler.Create)
	services.Get("/:id", serviceHandler.GetByID)
	services.Post("/:id/items", keeper, serviceHandler.AddItem)
	services.Delete("/:id/items/:materialId", keeper, serviceHandler.RemoveItem)
	services.Post("/:id/consumption", keeper, serviceHandler.RegisterConsumption)
	services.Get("/:id/consumption", serviceHandler.ListConsumption)
	services.Post("/:id/complete", keeper, serviceHandler.Complete)
	services.Get("/:id/missing-items", serviceHandler.MissingItems)

	// Movimientos
	movements := api.Group("/movements", authMW)
	movementHandler := NewMovementHandler(deps.LedgerUC, deps.History)
	movements.Get("/", movementHandler.List)
	movements.Post("/", keeper, movementHandler.Register)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard", authMW, dashboardHandler.GetSummary)
}
