package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
)

// MaterialHandler maneja el catálogo de materiales.
type MaterialHandler struct {
	uc     *usecase.MaterialUseCase
	ledger *inventory.LedgerUseCase
}

// NewMaterialHandler construye el handler.
func NewMaterialHandler(uc *usecase.MaterialUseCase, ledger *inventory.LedgerUseCase) *MaterialHandler {
	return &MaterialHandler{uc: uc, ledger: ledger}
}

// Create godoc
// @Summary      Crear material
// @Description  El nombre se guarda en mayúsculas. El stock inicial es 0.
// @Tags         materials
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.CreateMaterialRequest  true  "material"
// @Success      201   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/materials [post]
func (h *MaterialHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMaterialRequest
	if err := parseBody(c, &in); handled(err) {
		return nil
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener material
// @Tags         materials
// @Produce      json
// @Security     Bearer
// @Param        id   path  int  true  "ID del material"
// @Success      200  {object}  dto.MaterialResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id} [get]
func (h *MaterialHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if handled(err) {
		return nil
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar material
// @Description  El stock no es editable: solo cambia con movimientos.
// @Tags         materials
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  int                        true  "ID del material"
// @Param        body  body  dto.UpdateMaterialRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.MaterialResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/materials/{id} [put]
func (h *MaterialHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if handled(err) {
		return nil
	}
	var in dto.UpdateMaterialRequest
	if err := parseBody(c, &in); handled(err) {
		return nil
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar materiales
// @Tags         materials
// @Produce      json
// @Security     Bearer
// @Param        search       query  string  false  "nombre contiene"
// @Param        category_id  query  int     false  "categoría"
// @Param        limit        query  int     false  "límite (1-100)"
// @Param        offset       query  int     false  "desplazamiento"
// @Success      200  {array}   dto.MaterialResponse
// @Router       /api/materials [get]
func (h *MaterialHandler) List(c *fiber.Ctx) error {
	var q dto.MaterialListQuery
	if err := parseQuery(c, &q); handled(err) {
		return nil
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar material
// @Description  Rechazado con 409 si el material ya tiene movimientos o consumos.
// @Tags         materials
// @Security     Bearer
// @Param        id   path  int  true  "ID del material"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/materials/{id} [delete]
func (h *MaterialHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if handled(err) {
		return nil
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reconcile godoc
// @Summary      Conciliar stock contra el libro
// @Tags         materials
// @Produce      json
// @Security     Bearer
// @Param        id   path  int  true  "ID del material"
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/reconciliation [get]
func (h *MaterialHandler) Reconcile(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if handled(err) {
		return nil
	}
	out, err := h.ledger.Reconcile(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
