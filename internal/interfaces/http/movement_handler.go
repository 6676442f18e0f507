package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/reporting"
)

// MovementHandler libro de movimientos: ajustes manuales e histórico.
type MovementHandler struct {
	ledger  *inventory.LedgerUseCase
	history *reporting.MovementHistory
}

// NewMovementHandler construye el handler.
func NewMovementHandler(ledger *inventory.LedgerUseCase, history *reporting.MovementHistory) *MovementHandler {
	return &MovementHandler{ledger: ledger, history: history}
}

// Register godoc
// @Summary      Registrar movimiento manual
// @Description  ENTRADA suma stock. SAIDA_MANUAL resta y falla con 409 si el saldo no alcanza.
// @Tags         movements
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.RegisterMovementRequest  true  "movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/movements [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := parseBody(c, &in); handled(err) {
		return nil
	}
	rec, err := h.ledger.RegisterManualMovement(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(rec))
}

// List godoc
// @Summary      Histórico de movimientos
// @Description  Más reciente primero. Las entradas de pedido muestran el nombre del fornecedor.
// @Tags         movements
// @Produce      json
// @Security     Bearer
// @Param        search       query  string  false  "material o referencia contiene"
// @Param        category_id  query  int     false  "categoría del material"
// @Param        kind         query  string  false  "ENTRADA | SAIDA | SAIDA_MANUAL | CONSUMO"
// @Success      200  {array}  dto.MovementHistoryItem
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if err := parseQuery(c, &q); handled(err) {
		return nil
	}
	out, err := h.history.List(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		out = []dto.MovementHistoryItem{}
	}
	return c.JSON(out)
}
