package repository

import (
	"context"

	"github.com/deppfellow/handyman-api/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// DBTX is the subset of *pgxpool.Pool the repositories use.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// ServiceRepository persists marketplace listings in the services table.
type ServiceRepository struct {
	db DBTX
}

func NewServiceRepository(db DBTX) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// Find returns one page of listings plus the number of rows matching the
// filters. Both queries travel in one batch.
func (r *ServiceRepository) Find(ctx context.Context, q model.ServiceListQuery) (*model.ServicePage, error) {
	countStmt, listStmt := buildListStatements(q)

	batch := &pgx.Batch{}
	batch.Queue(countStmt.sql, countStmt.args...)
	batch.Queue(listStmt.sql, listStmt.args...)

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	var total int
	if err := results.QueryRow().Scan(&total); err != nil {
		return nil, errors.Wrap(err, "counting services")
	}

	rows, err := results.Query()
	if err != nil {
		return nil, errors.Wrap(err, "listing services")
	}

	services, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Service])
	if err != nil {
		return nil, errors.Wrap(err, "scanning services")
	}

	return &model.ServicePage{Services: services, TotalCount: total}, nil
}

// FindByID returns (nil, nil) when no listing has the id.
func (r *ServiceRepository) FindByID(ctx context.Context, id string) (*model.Service, error) {
	rows, err := r.db.Query(ctx, "SELECT "+serviceColumns+" FROM services WHERE id = $1", id)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching service %s", id)
	}

	service, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Service])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "scanning service %s", id)
	}

	return service, nil
}

// Insert stores a new listing and returns it with its generated columns.
func (r *ServiceRepository) Insert(ctx context.Context, s model.NewService) (*model.Service, error) {
	rows, err := r.db.Query(ctx,
		`INSERT INTO services (name, description, price, category, is_available, provider_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+serviceColumns,
		s.Name, s.Description, s.Price.String(), s.Category, s.IsAvailable, s.ProviderID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "inserting service")
	}

	service, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Service])
	if err != nil {
		return nil, errors.Wrap(err, "inserting service")
	}

	return service, nil
}

// Update applies the patch to the listing owned by providerID. It returns
// (nil, nil) when no row matches both id and owner.
func (r *ServiceRepository) Update(ctx context.Context, id, providerID string, patch model.ServicePatch) (*model.Service, error) {
	if patch.IsEmpty() {
		return r.findOwned(ctx, id, providerID)
	}

	stmt := buildUpdateStatement(id, providerID, patch)

	rows, err := r.db.Query(ctx, stmt.sql, stmt.args...)
	if err != nil {
		return nil, errors.Wrapf(err, "updating service %s", id)
	}

	service, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Service])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "updating service %s", id)
	}

	return service, nil
}

func (r *ServiceRepository) findOwned(ctx context.Context, id, providerID string) (*model.Service, error) {
	service, err := r.FindByID(ctx, id)
	if err != nil || service == nil || service.ProviderID != providerID {
		return nil, err
	}
	return service, nil
}

// Delete removes the listing owned by providerID and reports whether a row
// was deleted.
func (r *ServiceRepository) Delete(ctx context.Context, id, providerID string) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM services WHERE id = $1 AND provider_id = $2", id, providerID)
	if err != nil {
		return false, errors.Wrapf(err, "deleting service %s", id)
	}
	return tag.RowsAffected() > 0, nil
}

// TextSearch returns every listing whose name or description contains the
// keyword, case-insensitively.
func (r *ServiceRepository) TextSearch(ctx context.Context, keyword string) ([]model.Service, error) {
	stmt := buildSearchStatement(keyword)

	rows, err := r.db.Query(ctx, stmt.sql, stmt.args...)
	if err != nil {
		return nil, errors.Wrap(err, "searching services")
	}

	services, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Service])
	if err != nil {
		return nil, errors.Wrap(err, "scanning search results")
	}

	return services, nil
}
