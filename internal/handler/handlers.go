package handler

import (
	"github.com/deppfellow/handyman-api/internal/server"
	"github.com/deppfellow/handyman-api/internal/service"
)

// Handlers groups all HTTP handlers so the router receives a single value.
type Handlers struct {
	Root    *RootHandler
	Health  *HealthHandler
	Auth    *AuthHandler
	Catalog *CatalogHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Root:    NewRootHandler(s),
		Health:  NewHealthHandler(s),
		Auth:    NewAuthHandler(s, services.Auth),
		Catalog: NewCatalogHandler(s, services.Catalog),
	}
}
