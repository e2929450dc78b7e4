// Package identity talks to the external identity provider.
//
// The provider issues and verifies credentials and stores user profile
// metadata. Client implements Provider with the GoTrue (Supabase Auth) SDK.
package identity

import (
	"context"
	"fmt"
	"net/http"

	"github.com/deppfellow/handyman-api/internal/model"
)

// Provider is the contract the API needs from an identity provider.
//
// accessToken is always the caller's own bearer credential, so every call
// acts on behalf of the authenticated user.
type Provider interface {
	// ResolveUser returns the user owning the access token.
	ResolveUser(ctx context.Context, accessToken string) (*model.User, error)

	// SignUp creates a user; metadata becomes user_metadata. The returned
	// session is nil when email confirmation is required.
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*model.User, *model.Session, error)

	// SignIn exchanges an email and password for a session.
	SignIn(ctx context.Context, email, password string) (*model.Session, error)

	// SignOut revokes the session behind the access token.
	SignOut(ctx context.Context, accessToken string) error

	// SendResetEmail asks the provider to mail a password reset link that
	// redirects to redirectURL.
	SendResetEmail(ctx context.Context, email, redirectURL string) error

	// UpdatePassword sets a new password for the token's user.
	UpdatePassword(ctx context.Context, accessToken, password string) (*model.User, error)

	// UpdateUserMetadata merges data into the token's user_metadata.
	UpdateUserMetadata(ctx context.Context, accessToken string, data map[string]any) (*model.User, error)
}

// Error is a rejection returned by the provider: it answered, but with a
// non-2xx status. Transport failures are never an *Error.
type Error struct {
	Status    int
	ErrorCode string
	Message   string
}

func (e *Error) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("identity provider: %d %s: %s", e.Status, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("identity provider: %d: %s", e.Status, e.Message)
}

// IsClientError reports whether the provider rejected the request itself
// (bad credential, duplicate user, invalid input) rather than failing.
func (e *Error) IsClientError() bool {
	return e.Status >= http.StatusBadRequest && e.Status < http.StatusInternalServerError
}

// Error codes GoTrue reports in error_code (or error for the OAuth style
// token endpoint).
const (
	CodeUserAlreadyExists  = "user_already_exists"
	CodeEmailExists        = "email_exists"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidGrant       = "invalid_grant"
	CodeEmailNotConfirmed  = "email_not_confirmed"
	CodeWeakPassword       = "weak_password"
	CodeSamePassword       = "same_password"
	CodeBadJWT             = "bad_jwt"
	CodeSessionNotFound    = "session_not_found"
	CodeOverRequestLimit   = "over_request_rate_limit"
	CodeOverEmailSendLimit = "over_email_send_rate_limit"
)
