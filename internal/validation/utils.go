package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/deppfellow/handyman-api/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Validate may return an *errs.HTTPError (used as is), validator.ValidationErrors
// or CustomValidationErrors.
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific field.
// This is used for validation errors that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name := strings.Split(fld.Tag.Get(tag), ",")[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	return v
}

// Struct runs the validator tags of s.
func Struct(s any) error {
	return validate.Struct(s)
}

// Field is a named value checked by Require.
type Field struct {
	Name  string
	Value string
}

// Require fails with message when any field is empty. Each empty field is
// listed in the error details.
func Require(message string, fields ...Field) error {
	var missing []errs.FieldError
	for _, f := range fields {
		if f.Value == "" {
			missing = append(missing, errs.FieldError{Field: f.Name, Error: "is required"})
		}
	}

	if missing == nil {
		return nil
	}
	return errs.NewBadRequestError(message, nil, missing)
}

// BindAndValidate binds request data (path params, query string, body) into
// payload, which must be a pointer, and validates it.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return bindError(c, err)
	}

	if err := payload.Validate(); err != nil {
		var httpErr *errs.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr
		}

		msg, fieldErrors := extractValidationError(err)
		return errs.NewBadRequestError(msg, nil, fieldErrors)
	}

	return nil
}

// bindError turns an Echo binding failure into a 400 without leaking the
// decoder's internals. Echo wraps every failure in an *echo.HTTPError whose
// internal error is the decoder's own.
func bindError(c echo.Context, err error) *errs.HTTPError {
	// Path and query values that do not parse into their field type. The
	// parse error only carries the offending value, so the parameter is
	// found by looking that value up in the request.
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		if name := paramWithValue(c, numErr.Num); name != "" {
			return invalidField(name)
		}
		return errs.NewBadRequestError("Invalid request parameters", nil, nil)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return invalidField(typeErr.Field)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errs.NewBadRequestError("Malformed JSON body", nil, nil)
	}

	return errs.NewBadRequestError("Invalid request body", nil, nil)
}

// paramWithValue returns the first path or query parameter, in name order,
// holding value.
func paramWithValue(c echo.Context, value string) string {
	values := c.ParamValues()
	for i, name := range c.ParamNames() {
		if i < len(values) && values[i] == value {
			return name
		}
	}

	query := c.QueryParams()
	names := make([]string, 0, len(query))
	for name := range query {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, v := range query[name] {
			if v == value {
				return name
			}
		}
	}
	return ""
}

func invalidField(field string) *errs.HTTPError {
	return errs.NewBadRequestError(
		fmt.Sprintf("Invalid value for %s", field),
		nil,
		[]errs.FieldError{{Field: field, Error: "has an invalid value"}},
	)
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var customValidationErrors CustomValidationErrors
	if errors.As(err, &customValidationErrors) {
		for _, e := range customValidationErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: e.Field,
				Error: e.Message,
			})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation failed: " + err.Error(), nil
	}

	for _, err := range validationErrors {
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		case "max":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", err.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", err.Param())

		case "email":
			msg = "must be a valid email address"

		case "uuid":
			msg = "must be a valid UUID"

		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", err.Field(), err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", err.Field(), err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: err.Field(),
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}
