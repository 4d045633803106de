package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"
)

// OrderHandler handles order endpoints.
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// OrderItemRequest is one requested line of a new order.
type OrderItemRequest struct {
	ProductID uint `json:"product_id" validate:"required,gt=0"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`
}

// PlaceOrderRequest represents an order placement request.
type PlaceOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// StatusRequest represents an order status transition request.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Place godoc
// @Summary Place an order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PlaceOrderRequest true "Order items"
// @Success 200 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) Place(c echo.Context) error {
	var req PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	user := middleware.CurrentUser(c)
	order, err := h.orderService.PlaceOrder(c.Request().Context(), user.ID, items)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, order)
}

// Get godoc
// @Summary Get an order (owner or admin)
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} model.Order
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.Get(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, order)
}

// List godoc
// @Summary List own orders; admins see all
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Order
// @Failure 401 {object} errors.ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.orderService.List(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, orders)
}

// SetStatus godoc
// @Summary Transition an order's status
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param request body StatusRequest true "New status"
// @Success 200 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id}/status [put]
func (h *OrderHandler) SetStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	order, err := h.orderService.SetStatus(c.Request().Context(), id, model.OrderStatus(req.Status))
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, order)
}
