package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"onboardapi/internal/http/middleware"
	"onboardapi/internal/service"
	"onboardapi/internal/storage"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	Success   bool          `json:"success"`
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Field   string         `json:"field,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return writeEnvelope(c, status, errorEnvelope{Code: code, Message: message})
}

func writeEnvelope(c *fiber.Ctx, status int, env errorEnvelope) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.GetRequestID(c),
		Error:     env,
	})
}

// writeServiceError maps service and storage errors to status codes.
// Validation and storage messages are returned to the caller so the form can
// show them. Anything else is reported as an opaque 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	var (
		fileErr  *service.FileValidationError
		fieldErr *service.ValidationError
	)
	switch {
	case errors.As(err, &fileErr):
		return writeEnvelope(c, fiber.StatusBadRequest, errorEnvelope{
			Code:    "INVALID_FILE",
			Message: fileErr.Message,
			Field:   fileErr.Field,
			Details: withReason(fileErr.Details, fileErr.Code),
		})
	case errors.As(err, &fieldErr):
		return writeEnvelope(c, fiber.StatusBadRequest, errorEnvelope{
			Code:    "VALIDATION_FAILED",
			Message: fieldErr.Error(),
			Field:   fieldErr.Field,
		})
	case errors.Is(err, service.ErrIDRequired), errors.Is(err, service.ErrReaderNil):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "submission not found")
	case errors.Is(err, storage.ErrUnavailable):
		return writeError(c, fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", err.Error())
	case errors.Is(err, storage.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, storage.ErrOperationFailed):
		return writeError(c, fiber.StatusBadGateway, "STORAGE_OPERATION_FAILED", err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func withReason(details map[string]any, reason string) map[string]any {
	out := make(map[string]any, len(details)+1)
	for k, v := range details {
		out[k] = v
	}
	out["reason"] = reason
	return out
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
