package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/procurement"
)

// OrderHandler pedidos de compra: alta, líneas, recepción y cancelación.
type OrderHandler struct {
	uc  *procurement.OrderUseCase
	pdf *procurement.PDFUseCase
}

// NewOrderHandler construye el handler. pdf puede ser nil (endpoint responde 404).
func NewOrderHandler(uc *procurement.OrderUseCase, pdf *procurement.PDFUseCase) *OrderHandler {
	return &OrderHandler{uc: uc, pdf: pdf}
}

// Create godoc
// @Summary      Crear pedido de compra
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.CreateOrderRequest  true  "fornecedor y líneas"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := parseBody(c, &in); handled(err) {
		return nil
	}
	order, err := h.uc.CreateOrder(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewOrderResponse(order))
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Produce      json
// @Security     Bearer
// @Param        id   path  int  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if handled(err) {
		return nil
	}
	order, err := h.uc.GetOrder(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewOrderResponse(order))
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Produce      json
// @Security     Bearer
// @Param        supplier_id  query  int     false  "fornecedor"
// @Param        year         query  int     false  "año de creación"
// @Param        month        query  int     false  "mes de creación (1-12)"
// @Param        status       query  string  false  "PENDENTE | RECEBIDO | CANCELADO"
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var q dto.OrderListQuery
	if err := parseQuery(c, &q); handled(err) {
		return nil
	}
	orders, err := h.uc.ListOrders(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]*dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.NewOrderResponse(o))
	}
	return c.JSON(out)
}

// Months godoc
// @Summary      Meses con pedidos
// @Tags         orders
// @Produce      json
// @Security     Bearer
// @Success      200  {array}  repository.OrderMonth
// @Router       /api/orders/months [get]
func (h *OrderHandler) Months(c *fiber.Ctx) error {
	months, err := h.uc.AvailableMonths(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(months)
}

// AddLine godoc
// @Summary      Agregar línea a un pedido PENDENTE
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  int                   true  "ID del pedido"
// @Param        body  body  dto.OrderLineRequest  true  "línea"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/lines [post]
func (h *OrderHandler) AddLine(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if handled(err) {
		return nil
	}
	var in dto.OrderLineRequest
	if err := parseBody(c, &in); handled(err) {
		return nil
	}
	order, err := h.uc.AddLine(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewOrderResponse(order))
}

// RemoveLine godoc
// @Summary      Quitar línea de un pedido PENDENTE
// @Tags         orders
// @Produce      json
// @Security     Bearer
// @Param        id          path  int  true  "ID del pedido"
// @Param        materialId  path  int  true  "ID del material"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/lines/{materialId} [delete]
func (h *OrderHandler) RemoveLine(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if handled(err) {
		return nil
	}
	materialID, err := paramID(c, "materialId")
	if handled(err) {
		return nil
	}
	order, err := h.uc.RemoveLine(c.UserContext(), id, materialID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewOrderResponse(order))
}

// Receive godoc
// @Summary      Recibir pedido
// @Description  Suma al stock la cantidad de cada línea y registra una ENTRADA "Pedido #id" por línea. Solo desde PENDENTE.
// @Tags         orders
// @Produce      json
// @Security     Bearer
// @Param        id   path  int  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse  "INVALID_TRANSITION"
// @Router       /api/orders/{id}/receive [post]
func (h *OrderHandler) Receive(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if handled(err) {
		return nil
	}
	order, err := h.uc.ReceiveOrder(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewOrderResponse(order))
}

// Cancel godoc
// @Summary      Cancelar pedido
// @Tags         orders
// @Produce      json
// @Security     Bearer
// @Param        id   path  int  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse  "INVALID_TRANSITION"
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if handled(err) {
		return nil
	}
	order, err := h.uc.CancelOrder(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewOrderResponse(order))
}

// Total godoc
// @Summary      Recalcular total estimado
// @Tags         orders
// @Produce      json
// @Security     Bearer
// @Param        id   path  int  true  "ID del pedido"
// @Success      200  {object}  dto.OrderTotalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/total [post]
func (h *OrderHandler) Total(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if handled(err) {
		return nil
	}
	total, err := h.uc.CalculateTotal(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OrderTotalResponse{OrderID: id, EstimatedTotal: total})
}

// PDF godoc
// @Summary      Descargar PDF del pedido
// @Tags         orders
// @Produce      application/pdf
// @Security     Bearer
// @Param        id   path  int  true  "ID del pedido"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/pdf [get]
func (h *OrderHandler) PDF(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if handled(err) {
		return nil
	}
	if h.pdf == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "generación de PDF no disponible"})
	}
	body, filename, err := h.pdf.DownloadOrderPDF(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(body)
}
