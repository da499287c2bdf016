package handler

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"recipeinbox/internal/config"
	"recipeinbox/internal/http/middleware"
	"recipeinbox/internal/model"
	"recipeinbox/internal/service"
)

// openapiSpec is compiled into the binary so /openapi.yaml does not depend on
// the process working directory.
//
//go:embed openapi.yaml
var openapiSpec []byte

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin: decode, delegate to the service, encode.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.IntakeService, auth config.AuthConfig) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		return c.Type("yaml").Send(openapiSpec)
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Untrusted-client reachability probe: plain {ok:true}
	app.Get("/", Root())
	// Health endpoint additionally checks DB connectivity
	app.Get("/health", HealthCheck(db))
	// Simple liveness probe
	app.Get("/healthz", LivenessProbe())

	// Bare OPTIONS (non-preflight) gets an empty 204. Registered before the
	// guarded groups so it wins route matching and skips their auth
	// middleware; preflights are answered by the CORS middleware earlier
	// still.
	app.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	// Family-facing submission surface
	api := app.Group("/api", middleware.RequireSecret("X-Recipe-Password", auth.RecipePassword, "Invalid recipe password"))
	api.Post("/add", AddRecipe(svc))
	api.Post("/list", ListSubmissions(svc))

	// Privileged review surface
	admin := app.Group("/admin", middleware.RequireSecret("X-Admin-Token", auth.AdminToken, "Invalid admin token"))
	admin.Post("/export", ListSubmissions(svc))
	admin.Post("/export-archive", ExportArchive(svc))
	admin.Post("/mark-imported", MarkImported(svc))
	admin.Post("/purge-imported", PurgeImported(svc))
	admin.Post("/wipe", Wipe(svc))
}

// Root reports the service as reachable.
func Root() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	}
}

// HealthCheck reports {ok:true} when the database answers a ping.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db == nil {
			return writeError(c, fiber.StatusServiceUnavailable, "dependency unavailable")
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "dependency unavailable")
		}
		return c.JSON(fiber.Map{"ok": true})
	}
}

// LivenessProbe always answers 200.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// AddRecipe runs the intake pipeline over the posted envelope.
func AddRecipe(svc service.IntakeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body map[string]any
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "Invalid JSON body")
		}

		res, err := svc.Submit(c.UserContext(), body)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, err.Error())
		}
		if res.Duplicate {
			return c.JSON(fiber.Map{"ok": true, "id": res.Slug, "status": "duplicate"})
		}
		return c.JSON(fiber.Map{"ok": true, "id": res.Slug, "content_hash": res.ContentHash})
	}
}

// listRequest is the optional filter body shared by list and export.
type listRequest struct {
	Status         string `json:"status"`
	IncludePayload bool   `json:"include_payload"`
}

// ListSubmissions returns stored submissions, newest first. An absent or
// empty body lists pending submissions without payloads.
func ListSubmissions(svc service.IntakeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req listRequest
		if len(c.Body()) > 0 {
			if err := json.Unmarshal(c.Body(), &req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "Invalid JSON body")
			}
		}

		items, err := svc.List(c.UserContext(), model.Status(req.Status), req.IncludePayload)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"ok": true, "pending": items})
	}
}

// ExportArchive writes an export snapshot to object storage.
func ExportArchive(svc service.IntakeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req listRequest
		if len(c.Body()) > 0 {
			if err := json.Unmarshal(c.Body(), &req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "Invalid JSON body")
			}
		}

		res, err := svc.ExportArchive(c.UserContext(), model.Status(req.Status))
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"ok": true, "key": res.Key, "url": res.URL})
	}
}

// idsRequest carries the slug list for batch admin operations.
type idsRequest struct {
	IDs []string `json:"ids"`
}

// MarkImported transitions the listed slugs to imported.
func MarkImported(svc service.IntakeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req idsRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "Invalid JSON body")
		}

		updated, err := svc.MarkImported(c.UserContext(), req.IDs)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"ok": true, "updated": updated})
	}
}

// PurgeImported removes the listed slugs from the store.
func PurgeImported(svc service.IntakeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req idsRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "Invalid JSON body")
		}

		removed, err := svc.Purge(c.UserContext(), req.IDs)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"ok": true, "removed": removed})
	}
}

// Wipe removes every submission.
func Wipe(svc service.IntakeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		removed, err := svc.Wipe(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"ok": true, "removed": removed})
	}
}
