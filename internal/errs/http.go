package errs

import (
	"net/http"
)

// NewBadRequestError creates a 400 error. code overrides the default
// "BAD_REQUEST" when not nil; errors carries optional field-level detail.
func NewBadRequestError(message string, code *string, errors []FieldError) *HTTPError {
	formattedCode := codeFor(http.StatusBadRequest)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusBadRequest,
		Errors:  errors,
	}
}

// ValidationError wraps a plain validation failure into a 400 error.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), nil, nil)
}

// NewUnauthorizedError creates a 401 error: the credential is missing,
// malformed, invalid or expired.
func NewUnauthorizedError(message string) *HTTPError {
	return &HTTPError{
		Code:    codeFor(http.StatusUnauthorized),
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// NewForbiddenError creates a 403 error: authenticated, but not the owner.
func NewForbiddenError(message string) *HTTPError {
	return &HTTPError{
		Code:    codeFor(http.StatusForbidden),
		Message: message,
		Status:  http.StatusForbidden,
	}
}

// NewNotFoundError creates a 404 error, with an optional custom code.
func NewNotFoundError(message string, code *string) *HTTPError {
	formattedCode := codeFor(http.StatusNotFound)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// RouteNotFoundCode marks the 404 produced for an undefined route or method.
const RouteNotFoundCode = "ROUTE_NOT_FOUND"

// NewRouteNotFoundError is the NotFoundRoute outcome of the error normalizer.
func NewRouteNotFoundError() *HTTPError {
	code := RouteNotFoundCode
	return NewNotFoundError("Route not found", &code)
}

// NewConflictError creates a 409 error, used when a collaborator reports a
// duplicate (an already registered email, a unique constraint).
func NewConflictError(message string, code *string) *HTTPError {
	formattedCode := codeFor(http.StatusConflict)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusConflict,
	}
}

// NewTooManyRequestsError creates a 429 error.
func NewTooManyRequestsError(message string) *HTTPError {
	return &HTTPError{
		Code:    codeFor(http.StatusTooManyRequests),
		Message: message,
		Status:  http.StatusTooManyRequests,
	}
}

// NewExternalServiceError creates a 502 error for a collaborator failure that
// has no more specific classification. message must be safe to show.
func NewExternalServiceError(message string) *HTTPError {
	return &HTTPError{
		Code:    codeFor(http.StatusBadGateway),
		Message: message,
		Status:  http.StatusBadGateway,
	}
}

// NewInternalServerError creates a generic 500. The message is the status
// text only; the real cause is logged, never returned.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    codeFor(http.StatusInternalServerError),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
	}
}

// NewInternalServerErrorWithMessage creates a 500 with a fixed, non-sensitive
// message (e.g. "Server error during authentication").
func NewInternalServerErrorWithMessage(message string) *HTTPError {
	return NewInternalServerError().WithMessage(message)
}
