package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// RequireSecret guards a route group with a shared static secret carried in
// the given request header. The comparison is constant time. An empty
// configured secret fails every request, so an unconfigured surface stays
// closed rather than open.
func RequireSecret(header, secret, failMessage string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get(header)
		if secret == "" || got == "" ||
			subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			return fiber.NewError(fiber.StatusUnauthorized, failMessage)
		}
		return c.Next()
	}
}
