package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/consumption"
	"github.com/jhoicas/estoque-api/internal/application/dto"
)

// ServiceHandler servicios/obras y su consumo de materiales.
type ServiceHandler struct {
	uc *consumption.ServiceUseCase
}

// NewServiceHandler construye el handler.
func NewServiceHandler(uc *consumption.ServiceUseCase) *ServiceHandler {
	return &ServiceHandler{uc: uc}
}

// Create godoc
// @Summary      Crear servicio
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.CreateServiceRequest  true  "servicio e ítems requeridos"
// @Success      201   {object}  dto.ServiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/services [post]
func (h *ServiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateServiceRequest
	if err := parseBody(c, &in); handled(err) {
		return nil
	}
	svc, err := h.uc.CreateService(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewServiceResponse(svc))
}

// GetByID godoc
// @Summary      Obtener servicio
// @Tags         services
// @Produce      json
// @Security     Bearer
// @Param        id   path  int  true  "ID del servicio"
// @Success      200  {object}  dto.ServiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/services/{id} [get]
func (h *ServiceHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if handled(err) {
		return nil
	}
	svc, err := h.uc.GetService(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewServiceResponse(svc))
}

// List godoc
// @Summary      Listar servicios
// @Tags         services
// @Produce      json
// @Security     Bearer
// @Param        search  query  string  false  "nombre contiene"
// @Param        status  query  string  false  "PLANEJADO | EXECUCAO | CONCLUIDO"
// @Success      200  {array}  dto.ServiceResponse
// @Router       /api/services [get]
func (h *ServiceHandler) List(c *fiber.Ctx) error {
	var q dto.ServiceListQuery
	if err := parseQuery(c, &q); handled(err) {
		return nil
	}
	services, err := h.uc.ListServices(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]*dto.ServiceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, dto.NewServiceResponse(s))
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Agregar ítem requerido (solo PLANEJADO)
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  int                      true  "ID del servicio"
// @Param        body  body  dto.RequiredItemRequest  true  "ítem"
// @Success      200   {object}  dto.ServiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/services/{id}/items [post]
func (h *ServiceHandler) AddItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if handled(err) {
		return nil
	}
	var in dto.RequiredItemRequest
	if err := parseBody(c, &in); handled(err) {
		return nil
	}
	svc, err := h.uc.AddRequiredItem(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewServiceResponse(svc))
}

// RemoveItem godoc
// @Summary      Quitar ítem requerido (solo PLANEJADO)
// @Tags         services
// @Produce      json
// @Security     Bearer
// @Param        id          path  int  true  "ID del servicio"
// @Param        materialId  path  int  true  "ID del material"
// @Success      200  {object}  dto.ServiceResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/services/{id}/items/{materialId} [delete]
func (h *ServiceHandler) RemoveItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if handled(err) {
		return nil
	}
	materialID, err := paramID(c, "materialId")
	if handled(err) {
		return nil
	}
	svc, err := h.uc.RemoveRequiredItem(c.UserContext(), id, materialID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewServiceResponse(svc))
}

// RegisterConsumption godoc
// @Summary      Registrar consumo
// @Description  Descuenta del stock todos los ítems requeridos y pasa el servicio a EXECUCAO. Sin efecto si ya está en EXECUCAO.
// @Tags         services
// @Produce      json
// @Security     Bearer
// @Param        id   path  int  true  "ID del servicio"
// @Success      200  {object}  dto.ServiceResponse
// @Failure      409  {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK o INVALID_TRANSITION"
// @Router       /api/services/{id}/consumption [post]
func (h *ServiceHandler) RegisterConsumption(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if handled(err) {
		return nil
	}
	svc, err := h.uc.RegisterConsumption(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewServiceResponse(svc))
}

// Complete godoc
// @Summary      Concluir servicio
// @Tags         services
// @Produce      json
// @Security     Bearer
// @Param        id   path  int  true  "ID del servicio"
// @Success      200  {object}  dto.ServiceResponse
// @Failure      409  {object}  dto.ErrorResponse  "INVALID_TRANSITION"
// @Router       /api/services/{id}/complete [post]
func (h *ServiceHandler) Complete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if handled(err) {
		return nil
	}
	svc, err := h.uc.CompleteService(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewServiceResponse(svc))
}

// MissingItems godoc
// @Summary      Ítems sin stock suficiente
// @Tags         services
// @Produce      json
// @Security     Bearer
// @Param        id   path  int  true  "ID del servicio"
// @Success      200  {array}  dto.ShortfallEntry
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/services/{id}/missing-items [get]
func (h *ServiceHandler) MissingItems(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if handled(err) {
		return nil
	}
	out, err := h.uc.MissingItems(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		out = []dto.ShortfallEntry{}
	}
	return c.JSON(out)
}

// ListConsumption godoc
// @Summary      Consumos registrados del servicio
// @Tags         services
// @Produce      json
// @Security     Bearer
// @Param        id   path  int  true  "ID del servicio"
// @Success      200  {array}  dto.ConsumptionResponse
// @Router       /api/services/{id}/consumption [get]
func (h *ServiceHandler) ListConsumption(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if handled(err) {
		return nil
	}
	out, err := h.uc.ListConsumption(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		out = []dto.ConsumptionResponse{}
	}
	return c.JSON(out)
}
