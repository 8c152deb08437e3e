package handlers

import (
	"net/http"

	"storehouse/internal/common"
	"storehouse/internal/models"
	"storehouse/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CommodityHandlers handles commodity-related HTTP requests
type CommodityHandlers struct {
	commodityService services.CommodityService
}

func NewCommodityHandlers(commodityService services.CommodityService) *CommodityHandlers {
	return &CommodityHandlers{commodityService: commodityService}
}

// ListCommoditiesRequest represents query parameters for listing commodities
type ListCommoditiesRequest struct {
	ListRequest
	CategoryID string `query:"category_id"`
	UnitID     string `query:"unit_id"`
	Name       string `query:"name"`
}

// CreateCommodityRequest represents the commodity creation request payload
type CreateCommodityRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	CategoryID  string  `json:"category_id" validate:"required,uuid"`
	UnitID      string  `json:"unit_id" validate:"required,uuid"`
}

// ListCommodities godoc
// @Summary  List active commodities
// @Tags     commodities
// @Produce  json
// @Param    category_id  query  string  false  "filter by category"
// @Param    unit_id      query  string  false  "filter by unit"
// @Param    name         query  string  false  "case-insensitive name substring"
// @Param    limit        query  int     false  "page size"
// @Param    offset       query  int     false  "rows to skip"
// @Success  200  {object}  Envelope
// @Router   /commodities [get]
func (h *CommodityHandlers) ListCommodities(c echo.Context) error {
	var req ListCommoditiesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	categoryID, err := parseOptionalID(req.CategoryID, "category_id")
	if err != nil {
		return err
	}
	unitID, err := parseOptionalID(req.UnitID, "unit_id")
	if err != nil {
		return err
	}

	commodities, err := h.commodityService.List(c.Request().Context(), &models.CommodityFilter{
		CategoryID: categoryID,
		UnitID:     unitID,
		Name:       req.Name,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, commodities)
}

// GetCommodity godoc
// @Summary  Get an active commodity
// @Tags     commodities
// @Param    id  path  string  true  "commodity id"
// @Success  200  {object}  Envelope
// @Failure  404  {object}  Envelope
// @Router   /commodities/{id} [get]
func (h *CommodityHandlers) GetCommodity(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	commodity, err := h.commodityService.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, commodity)
}

// CreateCommodity godoc
// @Summary  Create a commodity under an active category and unit
// @Tags     commodities
// @Accept   json
// @Param    body  body  CreateCommodityRequest  true  "commodity"
// @Success  201  {object}  Envelope
// @Failure  400  {object}  Envelope
// @Failure  409  {object}  Envelope
// @Router   /commodities [post]
func (h *CommodityHandlers) CreateCommodity(c echo.Context) error {
	var req CreateCommodityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	categoryID, err := common.ValidateUUID(req.CategoryID, "category_id")
	if err != nil {
		return err
	}
	unitID, err := common.ValidateUUID(req.UnitID, "unit_id")
	if err != nil {
		return err
	}

	commodity := &models.Commodity{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  categoryID,
		UnitID:      unitID,
	}
	if err := h.commodityService.Create(c.Request().Context(), commodity); err != nil {
		return err
	}
	return respond(c, http.StatusCreated, commodity)
}

// UpdateCommodity godoc
// @Summary  Partially update a commodity
// @Tags     commodities
// @Param    id    path  string                 true  "commodity id"
// @Param    body  body  models.CommodityPatch  true  "fields to change"
// @Success  200  {object}  Envelope
// @Router   /commodities/{id} [put]
func (h *CommodityHandlers) UpdateCommodity(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var patch models.CommodityPatch
	if err := bindAndValidate(c, &patch); err != nil {
		return err
	}
	commodity, err := h.commodityService.Update(c.Request().Context(), id, &patch)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, commodity)
}

// DeleteCommodity godoc
// @Summary  Soft-delete a commodity no active order line references
// @Tags     commodities
// @Param    id  path  string  true  "commodity id"
// @Success  200  {object}  Envelope
// @Failure  409  {object}  Envelope
// @Router   /commodities/{id} [delete]
func (h *CommodityHandlers) DeleteCommodity(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.commodityService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]uuid.UUID{"id": id})
}

// DeleteCommodities godoc
// @Summary  Soft-delete several commodities, stopping at the first failure
// @Tags     commodities
// @Param    body  body  models.BulkDeleteRequest  true  "ids"
// @Success  200  {object}  Envelope
// @Router   /commodities [delete]
func (h *CommodityHandlers) DeleteCommodities(c echo.Context) error {
	return bulkDelete(c, func(c echo.Context, ids []uuid.UUID) (*models.BulkDeleteResult, error) {
		return h.commodityService.DeleteMany(c.Request().Context(), ids)
	})
}
