package errs

import (
	"net/http"
	"strings"
)

// FieldError is a field-level validation failure.
//
//	{ "field": "email", "error": "is required" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the error type every layer returns when the failure has a
// client-facing meaning. The Error Normalizer (middleware.GlobalErrorHandler)
// turns it into the response envelope.
//
//   - Code: machine-friendly code (e.g. "BAD_REQUEST").
//   - Message: human-friendly message, sent verbatim to the client.
//   - Status: HTTP status code.
//   - Errors: optional per-field validation failures.
type HTTPError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Status  int          `json:"status"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// Error returns the client-facing message.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, &HTTPError{}) match any *HTTPError. When the target
// carries a status, only errors with the same status match.
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	if !ok {
		return false
	}
	return t.Status == 0 || t.Status == e.Status
}

// WithMessage returns a copy of the error with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
		Errors:  e.Errors,
	}
}

// Response is the failure envelope written by the Error Normalizer.
//
//	{ "success": false, "message": "...", "code": "NOT_FOUND", "status": 404 }
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Code    string       `json:"code"`
	Status  int          `json:"status"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// ToResponse converts the error into the failure envelope.
func (e *HTTPError) ToResponse() Response {
	return Response{
		Success: false,
		Message: e.Message,
		Code:    e.Code,
		Status:  e.Status,
		Errors:  e.Errors,
	}
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}

func codeFor(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}
