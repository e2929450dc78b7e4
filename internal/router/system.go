package router

import (
	"github.com/deppfellow/handyman-api/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the endpoints outside /api.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/", h.Root.Welcome)

	// Used by load balancers and the healthcheck command.
	r.GET("/status", h.Health.CheckHealth)
}
