package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"contentgw/internal/http/middleware"
	"contentgw/internal/service"
)

const cacheNoStore = "no-store"

// errorPayload is the body of every error response.
type errorPayload struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// hookFailurePayload reports a deploy hook that answered non-2xx.
type hookFailurePayload struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error"`
	Status int    `json:"status,omitempty"`
}

func requestIDFromCtx(c *fiber.Ctx) string {
	if s, ok := c.Locals(middleware.RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}

// writeError writes a JSON error that is never cached. message must be safe to
// show to clients.
func writeError(c *fiber.Ctx, status int, message string) error {
	c.Set(fiber.HeaderCacheControl, cacheNoStore)
	return c.Status(status).JSON(errorPayload{
		Error:     message,
		RequestID: requestIDFromCtx(c),
	})
}

// respondError maps a service error onto its status. notFound names the kind
// of resource in the 404 message.
func respondError(c *fiber.Ctx, err error, notFound string) error {
	var hookErr *service.HookError
	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, notFound)
	case errors.Is(err, service.ErrUnprocessable):
		return writeError(c, fiber.StatusUnprocessableEntity, "Post has invalid frontmatter")
	case errors.Is(err, service.ErrUnauthorized):
		return writeError(c, fiber.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, service.ErrInvalidTransform):
		return writeError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &hookErr):
		c.Set(fiber.HeaderCacheControl, cacheNoStore)
		return c.Status(fiber.StatusBadGateway).JSON(hookFailurePayload{
			OK:     false,
			Error:  "Deploy hook failed",
			Status: hookErr.Status,
		})
	default:
		return writeError(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

// ErrorHandler is the global fiber error handler for errors that escape the
// handlers, such as unknown routes and method mismatches.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "Bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "Not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "Method not allowed")
		default:
			return writeError(c, status, "Internal server error")
		}
	}
}
