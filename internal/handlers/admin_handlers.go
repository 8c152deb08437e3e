package handlers

import (
	"net/http"

	"storehouse/internal/services"

	"github.com/labstack/echo/v4"
)

type AdminHandlers struct {
	audit services.ReferenceAuditService
}

func NewAdminHandlers(audit services.ReferenceAuditService) *AdminHandlers {
	return &AdminHandlers{audit: audit}
}

// ReferenceAudit godoc
// @Summary  Count active rows that reference soft-deleted rows
// @Tags     admin
// @Success  200  {object}  Envelope
// @Router   /admin/reference-audit [get]
func (h *AdminHandlers) ReferenceAudit(c echo.Context) error {
	audit, err := h.audit.Audit(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, audit)
}
