package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/pkg/logger"
)

// errorMapper turns use case errors into status codes and ErrorResponse bodies.
type errorMapper struct {
	log *logger.Logger
}

func newErrorMapper(log *logger.Logger) errorMapper {
	if log == nil {
		log = logger.Nop()
	}
	return errorMapper{log: log.Component("http")}
}

func (m errorMapper) write(c *fiber.Ctx, err error) error {
	status, body := m.classify(err)
	if status == fiber.StatusInternalServerError {
		m.log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(status).JSON(body)
}

func (m errorMapper) classify(err error) (int, dto.ErrorResponse) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "invoice not found"}
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "email already registered"}
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid credentials"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "account inactive"}
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "internal error"}
	}
}
