package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *HTTPError
		status int
		code   string
	}{
		{"bad request", NewBadRequestError("bad", nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"unauthorized", NewUnauthorizedError("no"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", NewForbiddenError("no"), http.StatusForbidden, "FORBIDDEN"},
		{"not found", NewNotFoundError("gone", nil), http.StatusNotFound, "NOT_FOUND"},
		{"route not found", NewRouteNotFoundError(), http.StatusNotFound, RouteNotFoundCode},
		{"conflict", NewConflictError("dup", nil), http.StatusConflict, "CONFLICT"},
		{"too many", NewTooManyRequestsError("slow down"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"external", NewExternalServiceError("down"), http.StatusBadGateway, "BAD_GATEWAY"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Status != tt.status {
				t.Fatalf("status = %d, want %d", tt.err.Status, tt.status)
			}
			if tt.err.Code != tt.code {
				t.Fatalf("code = %q, want %q", tt.err.Code, tt.code)
			}
		})
	}
}

func TestCustomCode(t *testing.T) {
	code := "SERVICE_ALREADY_EXISTS"
	err := NewConflictError("dup", &code)
	if err.Code != code {
		t.Fatalf("code = %q, want %q", err.Code, code)
	}
}

func TestInternalServerErrorHidesDetail(t *testing.T) {
	err := NewInternalServerError()
	if err.Message != "Internal Server Error" {
		t.Fatalf("message = %q", err.Message)
	}

	err = NewInternalServerErrorWithMessage("Server error during authentication")
	if err.Status != http.StatusInternalServerError || err.Message != "Server error during authentication" {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestIsMatchesByStatus(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", NewNotFoundError("gone", nil))

	if !errors.Is(wrapped, &HTTPError{}) {
		t.Fatal("expected any *HTTPError to match")
	}
	if !errors.Is(wrapped, &HTTPError{Status: http.StatusNotFound}) {
		t.Fatal("expected a 404 target to match")
	}
	if errors.Is(wrapped, &HTTPError{Status: http.StatusForbidden}) {
		t.Fatal("a 403 target must not match a 404")
	}

	var httpErr *HTTPError
	if !errors.As(wrapped, &httpErr) || httpErr.Message != "gone" {
		t.Fatalf("errors.As failed: %v", httpErr)
	}
}

func TestToResponse(t *testing.T) {
	err := NewBadRequestError("Email and password are required", nil, []FieldError{{Field: "email", Error: "is required"}})
	resp := err.ToResponse()

	if resp.Success {
		t.Fatal("failure envelope must have success=false")
	}
	if resp.Message != err.Message || resp.Status != err.Status || resp.Code != err.Code {
		t.Fatalf("envelope mismatch: %+v", resp)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Field != "email" {
		t.Fatalf("field errors lost: %+v", resp.Errors)
	}
}

func TestWithMessageCopies(t *testing.T) {
	base := NewForbiddenError("a")
	copied := base.WithMessage("b")

	if base.Message != "a" || copied.Message != "b" || copied.Status != base.Status {
		t.Fatalf("unexpected copy: base=%+v copy=%+v", base, copied)
	}
}
