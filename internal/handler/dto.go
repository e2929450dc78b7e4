package handler

import (
	"strconv"

	"github.com/deppfellow/handyman-api/internal/errs"
	"github.com/deppfellow/handyman-api/internal/model"
	"github.com/deppfellow/handyman-api/internal/validation"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Auth requests

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (r *RegisterRequest) Validate() error {
	return validation.Require("Email and password are required",
		validation.Field{Name: "email", Value: r.Email},
		validation.Field{Name: "password", Value: r.Password},
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	return validation.Require("Email and password are required",
		validation.Field{Name: "email", Value: r.Email},
		validation.Field{Name: "password", Value: r.Password},
	)
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	return validation.Require("Email is required",
		validation.Field{Name: "email", Value: r.Email},
	)
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

func (r *ResetPasswordRequest) Validate() error {
	return validation.Require("New password is required",
		validation.Field{Name: "password", Value: r.Password},
	)
}

// UpdateProfileRequest leaves absent fields nil so they are not sent to the
// identity provider.
type UpdateProfileRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=255"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

func (r *UpdateProfileRequest) Validate() error {
	return validation.Struct(r)
}

func (r *UpdateProfileRequest) ProfileUpdate() model.ProfileUpdate {
	return model.ProfileUpdate{
		Name:    r.Name,
		Phone:   r.Phone,
		Address: r.Address,
	}
}

// EmptyRequest is bound by routes that read nothing from the request.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error {
	return nil
}

// ---------------------------------------------------------------------------
// Catalog requests

var errNegativePrice = errs.NewBadRequestError("Price must be a non-negative number", nil,
	[]errs.FieldError{{Field: "price", Error: "must be a non-negative number"}})

// presentParam remembers whether a query parameter was sent at all, so an
// empty value can be told apart from an absent one.
type presentParam struct {
	Value string
	Set   bool
}

// UnmarshalParam implements echo.BindUnmarshaler.
func (p *presentParam) UnmarshalParam(param string) error {
	p.Value = param
	p.Set = true
	return nil
}

// ListServicesRequest carries the list query string. Numeric parameters are
// bound as text and parsed in Validate so every malformed value gets the
// same 400 answer.
type ListServicesRequest struct {
	Category   string       `query:"category"`
	PriceMin   string       `query:"price_min"`
	PriceMax   string       `query:"price_max"`
	ProviderID string       `query:"provider_id" validate:"omitempty,uuid"`
	Available  presentParam `query:"available"`
	SortBy     string       `query:"sort_by" validate:"omitempty,oneof=id name description price category is_available provider_id created_at"`
	SortOrder  string       `query:"sort_order" validate:"omitempty,oneof=asc desc"`
	Page       string       `query:"page"`
	Limit      string       `query:"limit"`

	query model.ServiceListQuery
}

func (r *ListServicesRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	var problems validation.CustomValidationErrors

	q := model.ServiceListQuery{
		Sort: model.ServiceSort{
			Field: model.DefaultSortField,
			Order: model.DefaultSortOrder,
		},
		Pagination: model.Pagination{
			Page:  model.DefaultPage,
			Limit: model.DefaultLimit,
		},
	}

	if r.Category != "" {
		q.Filter.Category = &r.Category
	}
	if r.ProviderID != "" {
		q.Filter.ProviderID = &r.ProviderID
	}
	if r.Available.Set {
		available := r.Available.Value == "true"
		q.Filter.Available = &available
	}

	for _, bound := range []struct {
		name  string
		value string
		dst   **decimal.Decimal
	}{
		{"price_min", r.PriceMin, &q.Filter.PriceMin},
		{"price_max", r.PriceMax, &q.Filter.PriceMax},
	} {
		if bound.value == "" {
			continue
		}
		d, err := decimal.NewFromString(bound.value)
		if err != nil {
			problems = append(problems, validation.CustomValidationError{Field: bound.name, Message: "must be a number"})
			continue
		}
		*bound.dst = &d
	}

	if r.SortBy != "" {
		q.Sort.Field = r.SortBy
	}
	if r.SortOrder != "" {
		q.Sort.Order = model.SortOrder(r.SortOrder)
	}

	if r.Page != "" {
		page, err := strconv.Atoi(r.Page)
		if err != nil || page < 1 {
			problems = append(problems, validation.CustomValidationError{Field: "page", Message: "must be a positive integer"})
		} else {
			q.Pagination.Page = page
		}
	}

	if r.Limit != "" {
		limit, err := strconv.Atoi(r.Limit)
		if err != nil || limit < 1 {
			problems = append(problems, validation.CustomValidationError{Field: "limit", Message: "must be a positive integer"})
		} else {
			q.Pagination.Limit = limit
		}
	}

	if len(problems) > 0 {
		return problems
	}

	r.query = q
	return nil
}

// Query returns the parsed query. Only valid after Validate succeeded.
func (r *ListServicesRequest) Query() model.ServiceListQuery {
	return r.query
}

type ServiceIDRequest struct {
	ID string `param:"id"`
}

func (r *ServiceIDRequest) Validate() error {
	return nil
}

type SearchServicesRequest struct {
	Keyword string `query:"keyword"`
}

func (r *SearchServicesRequest) Validate() error {
	return validation.Require("Search keyword is required",
		validation.Field{Name: "keyword", Value: r.Keyword},
	)
}

// CreateServiceRequest accepts price as a JSON number or a numeric string.
// A provider_id in the body is not bound: ownership comes from the caller.
type CreateServiceRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	IsAvailable *bool            `json:"is_available"`
}

func (r *CreateServiceRequest) Validate() error {
	price := ""
	if r.Price != nil {
		price = r.Price.String()
	}

	if err := validation.Require("Name, description, and price are required",
		validation.Field{Name: "name", Value: r.Name},
		validation.Field{Name: "description", Value: r.Description},
		validation.Field{Name: "price", Value: price},
	); err != nil {
		return err
	}

	if r.Price.IsNegative() {
		return errNegativePrice
	}
	return nil
}

// NewService converts the request; is_available defaults to true.
func (r *CreateServiceRequest) NewService() model.NewService {
	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}

	return model.NewService{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price.Round(2),
		Category:    r.Category,
		IsAvailable: available,
	}
}

// UpdateServiceRequest is a partial update. The path id is bound from the
// URL only; id and provider_id in the body are ignored.
type UpdateServiceRequest struct {
	ID          string           `param:"id" json:"-"`
	Name        *string          `json:"name" validate:"omitempty,min=1"`
	Description *string          `json:"description" validate:"omitempty,min=1"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	IsAvailable *bool            `json:"is_available"`
}

func (r *UpdateServiceRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	if r.Price != nil && r.Price.IsNegative() {
		return errNegativePrice
	}
	return nil
}

func (r *UpdateServiceRequest) Patch() model.ServicePatch {
	patch := model.ServicePatch{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		IsAvailable: r.IsAvailable,
	}
	if r.Price != nil {
		price := r.Price.Round(2)
		patch.Price = &price
	}
	return patch
}

// ---------------------------------------------------------------------------
// Responses

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type UserResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	User    *model.User `json:"user"`
}

type LoginResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	User    *model.User    `json:"user"`
	Session *model.Session `json:"session"`
}

type ServiceResponse struct {
	Success bool           `json:"success"`
	Data    *model.Service `json:"data"`
}

type ServiceListResponse struct {
	Success    bool            `json:"success"`
	Count      int             `json:"count"`
	Data       []model.Service `json:"data"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

type SearchResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Data    []model.Service `json:"data"`
}
