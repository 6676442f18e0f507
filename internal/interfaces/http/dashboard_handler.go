package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/reporting"
)

// DashboardHandler maneja el resumen del almoxarifado.
type DashboardHandler struct {
	uc *reporting.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *reporting.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen del almoxarifado
// @Description  Valor total en stock, servicios en ejecución, materiales críticos (stock < 5) y últimos 5 movimientos.
// @Tags         dashboard
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  dto.DashboardResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
