package handlers

import (
	"net/http"

	"storehouse/internal/common"
	"storehouse/internal/models"
	"storehouse/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OrderCommodityHandlers handles order line HTTP requests
type OrderCommodityHandlers struct {
	lineService services.OrderCommodityService
}

func NewOrderCommodityHandlers(lineService services.OrderCommodityService) *OrderCommodityHandlers {
	return &OrderCommodityHandlers{lineService: lineService}
}

type ListOrderCommoditiesRequest struct {
	ListRequest
	OrderID     string `query:"order_id"`
	CommodityID string `query:"commodity_id"`
}

// CreateOrderCommodityRequest carries a new line. Price is the line's own
// unit price and is never copied from the commodity.
type CreateOrderCommodityRequest struct {
	OrderID     string  `json:"order_id" validate:"required,uuid"`
	CommodityID string  `json:"commodity_id" validate:"required,uuid"`
	Count       float64 `json:"count" validate:"gte=0"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
}

// @Summary  List active order lines
// @Tags     order-commodities
// @Param    order_id      query  string  false  "filter by order"
// @Param    commodity_id  query  string  false  "filter by commodity"
// @Success  200  {object}  Envelope
// @Router   /order-commodities [get]
func (h *OrderCommodityHandlers) ListOrderCommodities(c echo.Context) error {
	var req ListOrderCommoditiesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	orderID, err := parseOptionalID(req.OrderID, "order_id")
	if err != nil {
		return err
	}
	commodityID, err := parseOptionalID(req.CommodityID, "commodity_id")
	if err != nil {
		return err
	}

	lines, err := h.lineService.List(c.Request().Context(), &models.OrderCommodityFilter{
		OrderID:     orderID,
		CommodityID: commodityID,
		Limit:       req.Limit,
		Offset:      req.Offset,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, lines)
}

// @Summary  Get an active order line
// @Tags     order-commodities
// @Router   /order-commodities/{id} [get]
func (h *OrderCommodityHandlers) GetOrderCommodity(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	line, err := h.lineService.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, line)
}

// @Summary  Add a commodity line to an active order
// @Tags     order-commodities
// @Param    body  body  CreateOrderCommodityRequest  true  "line"
// @Success  201  {object}  Envelope
// @Failure  409  {object}  Envelope
// @Router   /order-commodities [post]
func (h *OrderCommodityHandlers) CreateOrderCommodity(c echo.Context) error {
	var req CreateOrderCommodityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	orderID, err := common.ValidateUUID(req.OrderID, "order_id")
	if err != nil {
		return err
	}
	commodityID, err := common.ValidateUUID(req.CommodityID, "commodity_id")
	if err != nil {
		return err
	}

	line := &models.OrderCommodity{
		OrderID:     orderID,
		CommodityID: commodityID,
		Count:       req.Count,
		Price:       req.Price,
		Description: req.Description,
	}
	if err := h.lineService.Create(c.Request().Context(), line); err != nil {
		return err
	}
	return respond(c, http.StatusCreated, line)
}

// @Summary  Partially update an order line; provided zero values are written
// @Tags     order-commodities
// @Param    body  body  models.OrderCommodityPatch  true  "fields to change"
// @Router   /order-commodities/{id} [put]
func (h *OrderCommodityHandlers) UpdateOrderCommodity(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var patch models.OrderCommodityPatch
	if err := bindAndValidate(c, &patch); err != nil {
		return err
	}
	line, err := h.lineService.Update(c.Request().Context(), id, &patch)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, line)
}

// @Summary  Soft-delete an order line
// @Tags     order-commodities
// @Router   /order-commodities/{id} [delete]
func (h *OrderCommodityHandlers) DeleteOrderCommodity(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.lineService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]uuid.UUID{"id": id})
}

// @Summary  Soft-delete several order lines, stopping at the first failure
// @Tags     order-commodities
// @Router   /order-commodities [delete]
func (h *OrderCommodityHandlers) DeleteOrderCommodities(c echo.Context) error {
	return bulkDelete(c, func(c echo.Context, ids []uuid.UUID) (*models.BulkDeleteResult, error) {
		return h.lineService.DeleteMany(c.Request().Context(), ids)
	})
}
