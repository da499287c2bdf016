package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func newCORSApp(origins []string) *fiber.App {
	app := fiber.New()
	app.Use(CORS(origins))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func TestCORS_EmptyListStaysClosed(t *testing.T) {
	app := newCORSApp(nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://evil.example")

	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Contains(t, resp.Header.Get(fiber.HeaderVary), "Origin")
}

func TestCORS_ListedOriginEchoed(t *testing.T) {
	app := newCORSApp([]string{"https://recipes.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://recipes.example.com")

	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://recipes.example.com",
		resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Contains(t, resp.Header.Get(fiber.HeaderVary), "Origin")
}

func TestCORS_UnlistedOriginGetsNoAllowHeader(t *testing.T) {
	app := newCORSApp([]string{"https://recipes.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://evil.example")

	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Contains(t, resp.Header.Get(fiber.HeaderVary), "Origin")
}

func TestCORS_PreflightForListedOrigin(t *testing.T) {
	app := newCORSApp([]string{"https://recipes.example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/api/add", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://recipes.example.com")
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, http.MethodPost)

	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://recipes.example.com",
		resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Contains(t, resp.Header.Get(fiber.HeaderAccessControlAllowHeaders), "X-Recipe-Password")
}
