package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/handyman-api/internal/model"
	"github.com/shopspring/decimal"
)

const (
	ownerID    = "5b1c9c6e-7a43-4b5e-9a55-2f3f5c2a1a10"
	strangerID = "9d0f4a8e-1c2b-4e3d-8f7a-6b5c4d3e2f10"
	serviceID  = "0c8a7b6e-5d4c-4b3a-9f8e-7d6c5b4a3f21"
)

// fakeStore implements ServiceStore. It keeps the last arguments it saw so
// tests can assert what reached persistence.
type fakeStore struct {
	find       func(ctx context.Context, q model.ServiceListQuery) (*model.ServicePage, error)
	findByID   func(ctx context.Context, id string) (*model.Service, error)
	insert     func(ctx context.Context, s model.NewService) (*model.Service, error)
	update     func(ctx context.Context, id, providerID string, patch model.ServicePatch) (*model.Service, error)
	delete     func(ctx context.Context, id, providerID string) (bool, error)
	textSearch func(ctx context.Context, keyword string) ([]model.Service, error)

	updates int
	deletes int
}

func (f *fakeStore) Find(ctx context.Context, q model.ServiceListQuery) (*model.ServicePage, error) {
	return f.find(ctx, q)
}

func (f *fakeStore) FindByID(ctx context.Context, id string) (*model.Service, error) {
	return f.findByID(ctx, id)
}

func (f *fakeStore) Insert(ctx context.Context, s model.NewService) (*model.Service, error) {
	return f.insert(ctx, s)
}

func (f *fakeStore) Update(ctx context.Context, id, providerID string, patch model.ServicePatch) (*model.Service, error) {
	f.updates++
	return f.update(ctx, id, providerID, patch)
}

func (f *fakeStore) Delete(ctx context.Context, id, providerID string) (bool, error) {
	f.deletes++
	return f.delete(ctx, id, providerID)
}

func (f *fakeStore) TextSearch(ctx context.Context, keyword string) ([]model.Service, error) {
	return f.textSearch(ctx, keyword)
}

func ownedListing() *model.Service {
	return &model.Service{
		ID:          serviceID,
		Name:        "Leak repair",
		Description: "Fix dripping taps",
		Price:       decimal.RequireFromString("45"),
		IsAvailable: true,
		ProviderID:  ownerID,
	}
}

func findsOwnedListing(_ context.Context, id string) (*model.Service, error) {
	if id == serviceID {
		return ownedListing(), nil
	}
	return nil, nil
}

func TestGetByIDNotFound(t *testing.T) {
	store := &fakeStore{findByID: findsOwnedListing}
	svc := NewCatalogService(store)

	missing := "11111111-2222-4333-8444-555555555555"
	_, err := svc.GetByID(context.Background(), missing)
	assertHTTPError(t, err, http.StatusNotFound, "Service with ID "+missing+" not found")
}

func TestGetByIDMalformedIsNotFound(t *testing.T) {
	store := &fakeStore{findByID: func(context.Context, string) (*model.Service, error) {
		t.Fatal("store must not be queried with a malformed id")
		return nil, nil
	}}

	_, err := NewCatalogService(store).GetByID(context.Background(), "not-a-uuid")
	assertHTTPError(t, err, http.StatusNotFound, "Service with ID not-a-uuid not found")
}

func TestCreateForcesCallerAsProvider(t *testing.T) {
	var got model.NewService
	store := &fakeStore{insert: func(_ context.Context, s model.NewService) (*model.Service, error) {
		got = s
		return &model.Service{ID: serviceID, ProviderID: s.ProviderID, Name: s.Name}, nil
	}}

	in := model.NewService{
		Name:        "Leak repair",
		Description: "Fix dripping taps",
		Price:       decimal.RequireFromString("45"),
		IsAvailable: true,
		ProviderID:  strangerID,
	}

	created, err := NewCatalogService(store).Create(context.Background(), ownerID, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ProviderID != ownerID || created.ProviderID != ownerID {
		t.Fatalf("provider_id = %q / %q, want caller %q", got.ProviderID, created.ProviderID, ownerID)
	}
}

func TestUpdateOwnership(t *testing.T) {
	name := "Emergency leak repair"
	patch := model.ServicePatch{Name: &name}

	t.Run("stranger is forbidden and nothing is written", func(t *testing.T) {
		store := &fakeStore{findByID: findsOwnedListing}

		_, err := NewCatalogService(store).Update(context.Background(), strangerID, serviceID, patch)
		assertHTTPError(t, err, http.StatusForbidden, "Not authorized to update this service")
		if store.updates != 0 {
			t.Fatal("update must not reach the store")
		}
	})

	t.Run("owner update is guarded by owner id", func(t *testing.T) {
		store := &fakeStore{
			findByID: findsOwnedListing,
			update: func(_ context.Context, id, providerID string, p model.ServicePatch) (*model.Service, error) {
				if id != serviceID || providerID != ownerID {
					t.Fatalf("update(%q, %q)", id, providerID)
				}
				s := ownedListing()
				s.Name = *p.Name
				return s, nil
			},
		}

		updated, err := NewCatalogService(store).Update(context.Background(), ownerID, serviceID, patch)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if updated.Name != name || updated.ProviderID != ownerID {
			t.Fatalf("unexpected listing %+v", updated)
		}
	})

	t.Run("owner id compares case-insensitively as a UUID", func(t *testing.T) {
		store := &fakeStore{
			findByID: findsOwnedListing,
			update: func(context.Context, string, string, model.ServicePatch) (*model.Service, error) {
				return ownedListing(), nil
			},
		}

		upper := "5B1C9C6E-7A43-4B5E-9A55-2F3F5C2A1A10"
		if _, err := NewCatalogService(store).Update(context.Background(), upper, serviceID, patch); err != nil {
			t.Fatalf("Update: %v", err)
		}
	})

	t.Run("row vanishing before the write is not found", func(t *testing.T) {
		store := &fakeStore{
			findByID: findsOwnedListing,
			update: func(context.Context, string, string, model.ServicePatch) (*model.Service, error) {
				return nil, nil
			},
		}

		_, err := NewCatalogService(store).Update(context.Background(), ownerID, serviceID, patch)
		assertHTTPError(t, err, http.StatusNotFound, "")
	})

	t.Run("missing listing is not found", func(t *testing.T) {
		store := &fakeStore{findByID: func(context.Context, string) (*model.Service, error) { return nil, nil }}

		_, err := NewCatalogService(store).Update(context.Background(), ownerID, serviceID, patch)
		assertHTTPError(t, err, http.StatusNotFound, "Service with ID "+serviceID+" not found")
	})
}

func TestDeleteOwnership(t *testing.T) {
	t.Run("stranger is forbidden", func(t *testing.T) {
		store := &fakeStore{findByID: findsOwnedListing}

		err := NewCatalogService(store).Delete(context.Background(), strangerID, serviceID)
		assertHTTPError(t, err, http.StatusForbidden, "Not authorized to delete this service")
		if store.deletes != 0 {
			t.Fatal("delete must not reach the store")
		}
	})

	t.Run("owner deletes", func(t *testing.T) {
		store := &fakeStore{
			findByID: findsOwnedListing,
			delete:   func(context.Context, string, string) (bool, error) { return true, nil },
		}

		if err := NewCatalogService(store).Delete(context.Background(), ownerID, serviceID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
	})

	t.Run("store failure propagates", func(t *testing.T) {
		boom := errors.New("connection reset")
		store := &fakeStore{
			findByID: findsOwnedListing,
			delete:   func(context.Context, string, string) (bool, error) { return false, boom },
		}

		if err := NewCatalogService(store).Delete(context.Background(), ownerID, serviceID); !errors.Is(err, boom) {
			t.Fatalf("err = %v, want %v", err, boom)
		}
	})
}

func TestListAndSearchNeverReturnNil(t *testing.T) {
	store := &fakeStore{
		find: func(context.Context, model.ServiceListQuery) (*model.ServicePage, error) {
			return &model.ServicePage{}, nil
		},
		textSearch: func(context.Context, string) ([]model.Service, error) { return nil, nil },
	}
	svc := NewCatalogService(store)

	page, err := svc.List(context.Background(), model.ServiceListQuery{})
	if err != nil || page.Services == nil {
		t.Fatalf("List = %+v, %v", page, err)
	}

	found, err := svc.Search(context.Background(), "pipe")
	if err != nil || found == nil {
		t.Fatalf("Search = %v, %v", found, err)
	}
}
