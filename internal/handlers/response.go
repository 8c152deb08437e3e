package handlers

import (
	"errors"
	"net/http"

	"storehouse/internal/common"
	"storehouse/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Envelope is the body of every API response
type Envelope struct {
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

func respond(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Envelope{Code: status, Data: data, Message: http.StatusText(status)})
}

// StatusFor maps a domain error kind to its HTTP status
func StatusFor(err error) int {
	switch common.KindOf(err) {
	case common.KindNotFound:
		return http.StatusNotFound
	case common.KindValidation:
		return http.StatusBadRequest
	case common.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NewHTTPErrorHandler renders domain and echo errors as envelopes. Storage
// causes are logged and replaced by their client-safe message.
func NewHTTPErrorHandler(log *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			status  int
			message string
		)
		var domainErr *common.Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &domainErr):
			status = StatusFor(err)
			message = domainErr.Message()
		case errors.As(err, &httpErr):
			status = httpErr.Code
			message = http.StatusText(status)
			if m, ok := httpErr.Message.(string); ok {
				message = m
			}
		default:
			status = http.StatusInternalServerError
			message = "internal error"
		}

		if status >= http.StatusInternalServerError {
			log.WithError(err).WithFields(logrus.Fields{
				"path":       c.Request().URL.Path,
				"request_id": common.GetRequestIDFromContext(c.Request().Context()),
			}).Error("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, Envelope{Code: status, Data: nil, Message: message})
		}
		if writeErr != nil {
			log.WithError(writeErr).Warn("failed to write error response")
		}
	}
}

// RequestValidator plugs go-playground/validator into echo's c.Validate
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate reports the first failing field as a validation error
func (v *RequestValidator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return common.ValidationError("%s failed on the '%s' rule", fe.Field(), fe.Tag())
	}
	return common.ValidationError("invalid request body")
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return common.ValidationError("invalid request body")
	}
	return c.Validate(req)
}

func parseID(c echo.Context) (uuid.UUID, error) {
	return common.ValidateUUID(c.Param("id"), "id")
}

func parseOptionalID(raw, field string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := common.ValidateUUID(raw, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ListRequest holds the pagination query parameters shared by list routes
type ListRequest struct {
	Limit  int `query:"limit" validate:"gte=0"`
	Offset int `query:"offset" validate:"gte=0"`
}

type bulkDeleter func(c echo.Context, ids []uuid.UUID) (*models.BulkDeleteResult, error)

// bulkDelete answers a fail-fast bulk delete. On failure the status follows
// the failing id and the partial result is still returned as data.
func bulkDelete(c echo.Context, deleter bulkDeleter) error {
	var req models.BulkDeleteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ids, err := common.ValidateUUIDs(req.IDs, "ids")
	if err != nil {
		return err
	}

	result, err := deleter(c, ids)
	if err != nil {
		if result == nil {
			return err
		}
		status := StatusFor(err)
		message := http.StatusText(status)
		if result.Failed != nil {
			message = result.Failed.Message
		}
		return c.JSON(status, Envelope{Code: status, Data: result, Message: message})
	}
	return respond(c, http.StatusOK, result)
}
