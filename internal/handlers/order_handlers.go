package handlers

import (
	"net/http"

	"storehouse/internal/models"
	"storehouse/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OrderHandlers handles order-related HTTP requests, including the
// aggregated line view and report export of a single order.
type OrderHandlers struct {
	orderService  services.OrderService
	aggregation   services.AggregationService
	reportService services.ReportService
}

func NewOrderHandlers(orderService services.OrderService, aggregation services.AggregationService, reportService services.ReportService) *OrderHandlers {
	return &OrderHandlers{
		orderService:  orderService,
		aggregation:   aggregation,
		reportService: reportService,
	}
}

// CreateOrderRequest represents the order creation request payload
type CreateOrderRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// GetOrders godoc
// @Summary  List active orders, newest first
// @Tags     orders
// @Param    limit   query  int  false  "page size"
// @Param    offset  query  int  false  "rows to skip"
// @Success  200  {object}  Envelope
// @Router   /orders [get]
func (h *OrderHandlers) GetOrders(c echo.Context) error {
	var req ListRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	orders, err := h.orderService.List(c.Request().Context(), req.Limit, req.Offset)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, orders)
}

// GetOrder godoc
// @Summary  Get an active order
// @Tags     orders
// @Param    id  path  string  true  "order id"
// @Success  200  {object}  Envelope
// @Failure  404  {object}  Envelope
// @Router   /orders/{id} [get]
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	order, err := h.orderService.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, order)
}

// CreateOrder godoc
// @Summary  Create an order
// @Tags     orders
// @Param    body  body  CreateOrderRequest  true  "order"
// @Success  201  {object}  Envelope
// @Failure  409  {object}  Envelope
// @Router   /orders [post]
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	order := &models.Order{Name: req.Name, Description: req.Description}
	if err := h.orderService.Create(c.Request().Context(), order); err != nil {
		return err
	}
	return respond(c, http.StatusCreated, order)
}

// UpdateOrder godoc
// @Summary  Partially update an order
// @Tags     orders
// @Param    id    path  string             true  "order id"
// @Param    body  body  models.OrderPatch  true  "fields to change"
// @Success  200  {object}  Envelope
// @Router   /orders/{id} [put]
func (h *OrderHandlers) UpdateOrder(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var patch models.OrderPatch
	if err := bindAndValidate(c, &patch); err != nil {
		return err
	}
	order, err := h.orderService.Update(c.Request().Context(), id, &patch)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, order)
}

// DeleteOrder godoc
// @Summary  Soft-delete an order with no active lines
// @Tags     orders
// @Param    id  path  string  true  "order id"
// @Success  200  {object}  Envelope
// @Failure  409  {object}  Envelope
// @Router   /orders/{id} [delete]
func (h *OrderHandlers) DeleteOrder(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.orderService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]uuid.UUID{"id": id})
}

// DeleteOrders godoc
// @Summary  Soft-delete several orders, stopping at the first failure
// @Tags     orders
// @Param    body  body  models.BulkDeleteRequest  true  "ids"
// @Success  200  {object}  Envelope
// @Router   /orders [delete]
func (h *OrderHandlers) DeleteOrders(c echo.Context) error {
	return bulkDelete(c, func(c echo.Context, ids []uuid.UUID) (*models.BulkDeleteResult, error) {
		return h.orderService.DeleteMany(c.Request().Context(), ids)
	})
}

// GetOrderLines godoc
// @Summary  Aggregated lines of an order with line, category and order totals
// @Description  An unknown order yields an empty list.
// @Tags     orders
// @Param    id  path  string  true  "order id"
// @Success  200  {object}  Envelope
// @Router   /orders/{id}/commodities [get]
func (h *OrderHandlers) GetOrderLines(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	lines, err := h.aggregation.AggregateOrderLines(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, lines)
}

// ExportOrderReport godoc
// @Summary  Export the aggregated lines of an order as CSV to object storage
// @Tags     orders
// @Param    id  path  string  true  "order id"
// @Success  201  {object}  Envelope
// @Failure  404  {object}  Envelope
// @Router   /orders/{id}/report [post]
func (h *OrderHandlers) ExportOrderReport(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	report, err := h.reportService.ExportOrder(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, report)
}
