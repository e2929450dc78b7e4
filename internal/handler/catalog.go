package handler

import (
	"github.com/deppfellow/handyman-api/internal/middleware"
	"github.com/deppfellow/handyman-api/internal/server"
	"github.com/deppfellow/handyman-api/internal/service"
	"github.com/labstack/echo/v4"
)

// CatalogHandler serves /api/services.
type CatalogHandler struct {
	Handler
	catalogService *service.CatalogService
}

func NewCatalogHandler(s *server.Server, catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		Handler:        NewHandler(s),
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) List(c echo.Context, req *ListServicesRequest) (*ServiceListResponse, error) {
	q := req.Query()

	page, err := h.catalogService.List(c.Request().Context(), q)
	if err != nil {
		return nil, err
	}

	return &ServiceListResponse{
		Success:    true,
		Count:      page.TotalCount,
		Data:       page.Services,
		Page:       q.Pagination.Page,
		Limit:      q.Pagination.Limit,
		TotalPages: q.Pagination.TotalPages(page.TotalCount),
	}, nil
}

func (h *CatalogHandler) GetByID(c echo.Context, req *ServiceIDRequest) (*ServiceResponse, error) {
	svc, err := h.catalogService.GetByID(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}

	return &ServiceResponse{Success: true, Data: svc}, nil
}

func (h *CatalogHandler) Search(c echo.Context, req *SearchServicesRequest) (*SearchResponse, error) {
	services, err := h.catalogService.Search(c.Request().Context(), req.Keyword)
	if err != nil {
		return nil, err
	}

	return &SearchResponse{
		Success: true,
		Count:   len(services),
		Data:    services,
	}, nil
}

func (h *CatalogHandler) Create(c echo.Context, req *CreateServiceRequest) (*ServiceResponse, error) {
	svc, err := h.catalogService.Create(c.Request().Context(), middleware.GetUserID(c), req.NewService())
	if err != nil {
		return nil, err
	}

	return &ServiceResponse{Success: true, Data: svc}, nil
}

func (h *CatalogHandler) Update(c echo.Context, req *UpdateServiceRequest) (*ServiceResponse, error) {
	svc, err := h.catalogService.Update(c.Request().Context(), middleware.GetUserID(c), req.ID, req.Patch())
	if err != nil {
		return nil, err
	}

	return &ServiceResponse{Success: true, Data: svc}, nil
}

func (h *CatalogHandler) Delete(c echo.Context, req *ServiceIDRequest) (*MessageResponse, error) {
	if err := h.catalogService.Delete(c.Request().Context(), middleware.GetUserID(c), req.ID); err != nil {
		return nil, err
	}

	return &MessageResponse{
		Success: true,
		Message: "Service deleted successfully",
	}, nil
}
