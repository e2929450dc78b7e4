package router

import (
	"net/http"

	"github.com/deppfellow/handyman-api/internal/handler"
	"github.com/deppfellow/handyman-api/internal/middleware"
	"github.com/labstack/echo/v4"
)

func registerServiceRoutes(api *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	services := api.Group("/services")

	services.GET("", handler.Handle(h.Catalog.List, http.StatusOK))
	services.GET("/search", handler.Handle(h.Catalog.Search, http.StatusOK))
	services.GET("/:id", handler.Handle(h.Catalog.GetByID, http.StatusOK))

	services.POST("", handler.Handle(h.Catalog.Create, http.StatusCreated), m.Auth.RequireAuth)
	services.PUT("/:id", handler.Handle(h.Catalog.Update, http.StatusOK), m.Auth.RequireAuth)
	services.DELETE("/:id", handler.Handle(h.Catalog.Delete, http.StatusOK), m.Auth.RequireAuth)
}
