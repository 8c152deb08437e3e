package handlers

import (
	"net/http"

	"storehouse/internal/models"
	"storehouse/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CategoryHandlers handles category-related HTTP requests
type CategoryHandlers struct {
	categoryService services.CategoryService
}

func NewCategoryHandlers(categoryService services.CategoryService) *CategoryHandlers {
	return &CategoryHandlers{categoryService: categoryService}
}

// CreateCategoryRequest represents the category creation request payload
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// ListCategories godoc
// @Summary  List active categories
// @Tags     categories
// @Produce  json
// @Param    limit   query  int  false  "page size"
// @Param    offset  query  int  false  "rows to skip"
// @Success  200  {object}  Envelope
// @Router   /categories [get]
func (h *CategoryHandlers) ListCategories(c echo.Context) error {
	var req ListRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	categories, err := h.categoryService.List(c.Request().Context(), req.Limit, req.Offset)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, categories)
}

// GetCategory godoc
// @Summary  Get an active category
// @Tags     categories
// @Produce  json
// @Param    id  path  string  true  "category id"
// @Success  200  {object}  Envelope
// @Failure  404  {object}  Envelope
// @Router   /categories/{id} [get]
func (h *CategoryHandlers) GetCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	category, err := h.categoryService.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, category)
}

// CreateCategory godoc
// @Summary  Create a category
// @Tags     categories
// @Accept   json
// @Produce  json
// @Param    body  body  CreateCategoryRequest  true  "category"
// @Success  201  {object}  Envelope
// @Failure  409  {object}  Envelope
// @Router   /categories [post]
func (h *CategoryHandlers) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category := &models.Category{Name: req.Name, Description: req.Description}
	if err := h.categoryService.Create(c.Request().Context(), category); err != nil {
		return err
	}
	return respond(c, http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary  Partially update a category
// @Tags     categories
// @Accept   json
// @Produce  json
// @Param    id    path  string                true  "category id"
// @Param    body  body  models.CategoryPatch  true  "fields to change"
// @Success  200  {object}  Envelope
// @Router   /categories/{id} [put]
func (h *CategoryHandlers) UpdateCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var patch models.CategoryPatch
	if err := bindAndValidate(c, &patch); err != nil {
		return err
	}

	category, err := h.categoryService.Update(c.Request().Context(), id, &patch)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary  Soft-delete a category no active commodity references
// @Tags     categories
// @Param    id  path  string  true  "category id"
// @Success  200  {object}  Envelope
// @Failure  409  {object}  Envelope
// @Router   /categories/{id} [delete]
func (h *CategoryHandlers) DeleteCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.categoryService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]uuid.UUID{"id": id})
}

// DeleteCategories godoc
// @Summary  Soft-delete several categories, stopping at the first failure
// @Tags     categories
// @Accept   json
// @Param    body  body  models.BulkDeleteRequest  true  "ids"
// @Success  200  {object}  Envelope
// @Router   /categories [delete]
func (h *CategoryHandlers) DeleteCategories(c echo.Context) error {
	return bulkDelete(c, func(c echo.Context, ids []uuid.UUID) (*models.BulkDeleteResult, error) {
		return h.categoryService.DeleteMany(c.Request().Context(), ids)
	})
}
