package handlers

import (
	"net/http"

	"storehouse/internal/models"
	"storehouse/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type UnitHandlers struct {
	unitService services.UnitService
}

func NewUnitHandlers(unitService services.UnitService) *UnitHandlers {
	return &UnitHandlers{unitService: unitService}
}

type CreateUnitRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// @Summary  List active units
// @Tags     units
// @Success  200  {object}  Envelope
// @Router   /units [get]
func (h *UnitHandlers) ListUnits(c echo.Context) error {
	var req ListRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	units, err := h.unitService.List(c.Request().Context(), req.Limit, req.Offset)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, units)
}

// @Summary  Get an active unit
// @Tags     units
// @Router   /units/{id} [get]
func (h *UnitHandlers) GetUnit(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	unit, err := h.unitService.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, unit)
}

// @Summary  Create a unit
// @Tags     units
// @Router   /units [post]
func (h *UnitHandlers) CreateUnit(c echo.Context) error {
	var req CreateUnitRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	unit := &models.Unit{Name: req.Name, Description: req.Description}
	if err := h.unitService.Create(c.Request().Context(), unit); err != nil {
		return err
	}
	return respond(c, http.StatusCreated, unit)
}

// @Summary  Partially update a unit
// @Tags     units
// @Router   /units/{id} [put]
func (h *UnitHandlers) UpdateUnit(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var patch models.UnitPatch
	if err := bindAndValidate(c, &patch); err != nil {
		return err
	}
	unit, err := h.unitService.Update(c.Request().Context(), id, &patch)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, unit)
}

// @Summary  Soft-delete a unit no active commodity references
// @Tags     units
// @Router   /units/{id} [delete]
func (h *UnitHandlers) DeleteUnit(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.unitService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]uuid.UUID{"id": id})
}

// @Summary  Soft-delete several units, stopping at the first failure
// @Tags     units
// @Router   /units [delete]
func (h *UnitHandlers) DeleteUnits(c echo.Context) error {
	return bulkDelete(c, func(c echo.Context, ids []uuid.UUID) (*models.BulkDeleteResult, error) {
		return h.unitService.DeleteMany(c.Request().Context(), ids)
	})
}
