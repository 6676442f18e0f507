package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
)

// CatalogHandler categorías, unidades de medida y fornecedores.
type CatalogHandler struct {
	catalog   *usecase.CatalogUseCase
	suppliers *usecase.SupplierUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(catalog *usecase.CatalogUseCase, suppliers *usecase.SupplierUseCase) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, suppliers: suppliers}
}

// CreateCategory godoc
// @Summary      Crear categoría
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.CreateCategoryRequest  true  "categoría"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := parseBody(c, &in); handled(err) {
		return nil
	}
	out, err := h.catalog.CreateCategory(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListCategories godoc
// @Summary      Listar categorías
// @Tags         catalog
// @Produce      json
// @Security     Bearer
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	out, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateUnit godoc
// @Summary      Crear unidad de medida
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.CreateUnitRequest  true  "unidad"
// @Success      201   {object}  dto.UnitResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/units [post]
func (h *CatalogHandler) CreateUnit(c *fiber.Ctx) error {
	var in dto.CreateUnitRequest
	if err := parseBody(c, &in); handled(err) {
		return nil
	}
	out, err := h.catalog.CreateUnit(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListUnits godoc
// @Summary      Listar unidades de medida
// @Tags         catalog
// @Produce      json
// @Security     Bearer
// @Success      200  {array}  dto.UnitResponse
// @Router       /api/units [get]
func (h *CatalogHandler) ListUnits(c *fiber.Ctx) error {
	out, err := h.catalog.ListUnits(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateSupplier godoc
// @Summary      Crear fornecedor
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.CreateSupplierRequest  true  "fornecedor"
// @Success      201   {object}  dto.SupplierResponse
// @Router       /api/suppliers [post]
func (h *CatalogHandler) CreateSupplier(c *fiber.Ctx) error {
	var in dto.CreateSupplierRequest
	if err := parseBody(c, &in); handled(err) {
		return nil
	}
	out, err := h.suppliers.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSuppliers godoc
// @Summary      Listar fornecedores
// @Tags         suppliers
// @Produce      json
// @Security     Bearer
// @Success      200  {array}  dto.SupplierResponse
// @Router       /api/suppliers [get]
func (h *CatalogHandler) ListSuppliers(c *fiber.Ctx) error {
	out, err := h.suppliers.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetSupplier godoc
// @Summary      Obtener fornecedor
// @Tags         suppliers
// @Produce      json
// @Security     Bearer
// @Param        id   path  int  true  "ID del fornecedor"
// @Success      200  {object}  dto.SupplierResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id} [get]
func (h *CatalogHandler) GetSupplier(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if handled(err) {
		return nil
	}
	out, err := h.suppliers.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteSupplier godoc
// @Summary      Eliminar fornecedor
// @Description  Los pedidos del fornecedor quedan sin fornecedor.
// @Tags         suppliers
// @Security     Bearer
// @Param        id   path  int  true  "ID del fornecedor"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id} [delete]
func (h *CatalogHandler) DeleteSupplier(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if handled(err) {
		return nil
	}
	if err := h.suppliers.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
