package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"weatherops/internal/http/middleware"
	"weatherops/internal/service"
)

// errorPayload is the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response. code is a
// machine-readable short code; message must be safe to show a client.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	})
}

// writeServiceError maps service sentinel errors onto HTTP responses.
// Input errors carry their message through; anything unrecognized becomes
// an opaque 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "plan not found")
	case errors.Is(err, service.ErrArtifactNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "artifact not found")
	case errors.Is(err, service.ErrNoActivities):
		return writeError(c, fiber.StatusConflict, "NO_ACTIVITIES", "plan has no activities")
	case errors.Is(err, service.ErrNoSchedule):
		return writeError(c, fiber.StatusConflict, "NO_SCHEDULE", "plan has no computed schedule")
	case errors.Is(err, service.ErrInvalidInput):
		return writeError(c, fiber.StatusUnprocessableEntity, "INVALID_INPUT", err.Error())
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes
// responses for errors that escape the route handlers.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
