package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/handyman-api/internal/errs"
	"github.com/deppfellow/handyman-api/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ServiceStore is the persistence contract for marketplace listings.
// Implemented by repository.ServiceRepository.
type ServiceStore interface {
	Find(ctx context.Context, q model.ServiceListQuery) (*model.ServicePage, error)
	FindByID(ctx context.Context, id string) (*model.Service, error)
	Insert(ctx context.Context, s model.NewService) (*model.Service, error)
	Update(ctx context.Context, id, providerID string, patch model.ServicePatch) (*model.Service, error)
	Delete(ctx context.Context, id, providerID string) (bool, error)
	TextSearch(ctx context.Context, keyword string) ([]model.Service, error)
}

// CatalogService implements the listing operations and enforces ownership.
type CatalogService struct {
	store ServiceStore
}

func NewCatalogService(store ServiceStore) *CatalogService {
	return &CatalogService{store: store}
}

// List returns one page of listings matching the query.
func (s *CatalogService) List(ctx context.Context, q model.ServiceListQuery) (*model.ServicePage, error) {
	page, err := s.store.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	if page.Services == nil {
		page.Services = []model.Service{}
	}
	return page, nil
}

// GetByID returns the listing or a 404. An id that cannot be a UUID never
// matches a row and is reported the same way.
func (s *CatalogService) GetByID(ctx context.Context, id string) (*model.Service, error) {
	if !isUUID(id) {
		return nil, serviceNotFound(id)
	}

	service, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, serviceNotFound(id)
	}
	return service, nil
}

// Create stores a listing owned by the caller.
func (s *CatalogService) Create(ctx context.Context, callerID string, in model.NewService) (*model.Service, error) {
	in.ProviderID = callerID

	service, err := s.store.Insert(ctx, in)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("service_id", service.ID).
		Str("provider_id", callerID).
		Msg("service created")

	return service, nil
}

// Update applies patch to a listing the caller owns.
//
// The existence and ownership check gives the 404/403 answers; the write
// itself is guarded by both id and owner, so a listing that changes hands or
// disappears in between is never modified and reports 404.
func (s *CatalogService) Update(ctx context.Context, callerID, id string, patch model.ServicePatch) (*model.Service, error) {
	if err := s.authorize(ctx, callerID, id, "update"); err != nil {
		return nil, err
	}

	service, err := s.store.Update(ctx, id, callerID, patch)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, serviceNotFound(id)
	}
	return service, nil
}

// Delete permanently removes a listing the caller owns.
func (s *CatalogService) Delete(ctx context.Context, callerID, id string) error {
	if err := s.authorize(ctx, callerID, id, "delete"); err != nil {
		return err
	}

	deleted, err := s.store.Delete(ctx, id, callerID)
	if err != nil {
		return err
	}
	if !deleted {
		return serviceNotFound(id)
	}

	zerolog.Ctx(ctx).Info().
		Str("service_id", id).
		Str("provider_id", callerID).
		Msg("service deleted")

	return nil
}

// Search returns listings whose name or description contains keyword.
func (s *CatalogService) Search(ctx context.Context, keyword string) ([]model.Service, error) {
	services, err := s.store.TextSearch(ctx, keyword)
	if err != nil {
		return nil, err
	}
	if services == nil {
		services = []model.Service{}
	}
	return services, nil
}

func (s *CatalogService) authorize(ctx context.Context, callerID, id, action string) error {
	service, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !sameID(service.ProviderID, callerID) {
		zerolog.Ctx(ctx).Warn().
			Str("service_id", id).
			Str("provider_id", service.ProviderID).
			Str("caller_id", callerID).
			Str("action", action).
			Msg("ownership check failed")
		return errs.NewForbiddenError(fmt.Sprintf("Not authorized to %s this service", action))
	}
	return nil
}

func serviceNotFound(id string) error {
	return errs.NewNotFoundError(fmt.Sprintf("Service with ID %s not found", id), nil)
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// sameID compares two identifiers, as UUIDs when both parse.
func sameID(a, b string) bool {
	ua, errA := uuid.Parse(a)
	ub, errB := uuid.Parse(b)
	if errA == nil && errB == nil {
		return ua == ub
	}
	return a == b
}
