package handler

import (
	"github.com/gofiber/fiber/v2"

	"recipeinbox/internal/http/middleware"
)

// errorPayload defines the standardized error response body:
// {ok:false, error:<message>}. The request id is included for log correlation.
type errorPayload struct {
	OK        bool   `json:"ok"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes the JSON error envelope. The message is the
// application-level error text; internal details (stack traces, driver
// identifiers) must not reach it.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorPayload{
		Error:     message,
		RequestID: requestIDFromCtx(c),
	})
}

// ErrorHandler returns a Fiber global error handler. Unknown routes get a
// plain-text 404; everything else gets the JSON envelope, defaulting to 500
// with the error's message text.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := err.Error()
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
			message = e.Message
		}

		switch status {
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			// The API has no route-shaped 405 semantics: anything unmapped is
			// simply not found.
			return c.Status(fiber.StatusNotFound).SendString("Not Found")
		default:
			return writeError(c, status, message)
		}
	}
}
