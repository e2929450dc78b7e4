package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Service is a marketplace listing offered by a provider.
type Service struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Category    *string         `json:"category" db:"category"`
	IsAvailable bool            `json:"is_available" db:"is_available"`
	ProviderID  string          `json:"provider_id" db:"provider_id"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// NewService is the data required to insert a listing. ProviderID always
// comes from the authenticated caller.
type NewService struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    *string
	IsAvailable bool
	ProviderID  string
}

// ServicePatch is a partial update. Nil fields keep their stored value.
// Identity and ownership columns are deliberately absent.
type ServicePatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	IsAvailable *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p ServicePatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Category == nil && p.IsAvailable == nil
}

// ServiceFilter holds the optional list predicates; nil means "not filtered".
type ServiceFilter struct {
	Category   *string
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	ProviderID *string
	Available  *bool
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultSortField = "created_at"
	DefaultSortOrder = SortDesc
	DefaultPage      = 1
	DefaultLimit     = 10
)

// SortableServiceFields are the columns a list may be ordered by.
var SortableServiceFields = []string{
	"id", "name", "description", "price", "category", "is_available", "provider_id", "created_at",
}

// IsSortableServiceField reports whether field is a valid sort column.
func IsSortableServiceField(field string) bool {
	for _, f := range SortableServiceFields {
		if f == field {
			return true
		}
	}
	return false
}

type ServiceSort struct {
	Field string
	Order SortOrder
}

// Pagination is 1-indexed.
type Pagination struct {
	Page  int
	Limit int
}

// Offset is (Page-1)*Limit. A page too far out to be represented saturates
// at math.MaxInt64, which selects no rows.
func (p Pagination) Offset() int64 {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	skipped := int64(p.Page - 1)
	if skipped > math.MaxInt64/int64(p.Limit) {
		return math.MaxInt64
	}
	return skipped * int64(p.Limit)
}

// TotalPages is ceil(count/limit), never less than one.
func (p Pagination) TotalPages(count int) int {
	if p.Limit <= 0 || count <= 0 {
		return 1
	}
	return (count + p.Limit - 1) / p.Limit
}

// ServiceListQuery combines filters, ordering and the requested page.
type ServiceListQuery struct {
	Filter     ServiceFilter
	Sort       ServiceSort
	Pagination Pagination
}

// ServicePage is one page of a list together with the number of rows that
// matched the filters before pagination.
type ServicePage struct {
	Services   []Service
	TotalCount int
}
