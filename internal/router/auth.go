package router

import (
	"net/http"

	"github.com/deppfellow/handyman-api/internal/handler"
	"github.com/deppfellow/handyman-api/internal/middleware"
	"github.com/labstack/echo/v4"
)

// registerAuthRoutes attaches middleware per route rather than per group:
// a group with middleware also captures unknown paths under its prefix.
func registerAuthRoutes(api *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	auth := api.Group("/auth")

	// Public endpoints that accept credentials or send email are throttled
	// per client IP.
	limit := m.RateLimit.Limit()
	auth.POST("/register", handler.Handle(h.Auth.Register, http.StatusCreated), limit)
	auth.POST("/login", handler.Handle(h.Auth.Login, http.StatusOK), limit)
	auth.POST("/forgot-password", handler.Handle(h.Auth.ForgotPassword, http.StatusOK), limit)

	requireAuth := m.Auth.RequireAuth
	auth.POST("/reset-password", handler.Handle(h.Auth.ResetPassword, http.StatusOK), requireAuth)
	auth.POST("/logout", handler.Handle(h.Auth.Logout, http.StatusOK), requireAuth)
	auth.GET("/me", handler.Handle(h.Auth.Me, http.StatusOK), requireAuth)
	auth.PUT("/profile", handler.Handle(h.Auth.UpdateProfile, http.StatusOK), requireAuth)
}
