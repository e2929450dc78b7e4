// Package router builds the Echo instance: global middleware in order, the
// error handler and every route group.
package router

import (
	"github.com/deppfellow/handyman-api/internal/handler"
	"github.com/deppfellow/handyman-api/internal/middleware"
	"github.com/deppfellow/handyman-api/internal/server"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.BodyLimit(),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api")
	registerAuthRoutes(api, h, middlewares)
	registerServiceRoutes(api, h, middlewares)

	return router
}
