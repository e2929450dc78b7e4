package handler

import (
	"net/http"

	"github.com/deppfellow/handyman-api/internal/server"
	"github.com/labstack/echo/v4"
)

const welcomeMessage = "Welcome to the Handyman API"

type RootHandler struct {
	Handler
}

func NewRootHandler(s *server.Server) *RootHandler {
	return &RootHandler{
		Handler: NewHandler(s),
	}
}

func (h *RootHandler) Welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": welcomeMessage})
}
