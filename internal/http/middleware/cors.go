package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS returns the cross-origin middleware for the configured allow list.
// An empty list keeps the surface closed: no Access-Control-Allow-Origin
// header is ever emitted, the same way an unconfigured secret rejects every
// request. Registering fiber's cors middleware with an empty AllowOrigins
// would instead fall back to "*". Vary: Origin is always set so caches key
// responses on the requesting origin.
func CORS(origins []string) fiber.Handler {
	if len(origins) == 0 {
		return func(c *fiber.Ctx) error {
			c.Vary(fiber.HeaderOrigin)
			return c.Next()
		}
	}
	return cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type,X-Recipe-Password,X-Admin-Token,X-Request-ID",
	})
}
