package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/deppfellow/handyman-api/internal/errs"
	"github.com/deppfellow/handyman-api/internal/lib/identity"
	"github.com/deppfellow/handyman-api/internal/model"
	"github.com/rs/zerolog"
)

// WelcomeMailer schedules the welcome email sent after a registration.
type WelcomeMailer interface {
	EnqueueWelcomeEmail(ctx context.Context, to, name string) error
}

// AuthService forwards account operations to the identity provider and
// translates its rejections into HTTP errors.
type AuthService struct {
	provider identity.Provider
	mailer   WelcomeMailer
	resetURL string
}

// NewAuthService builds the service. mailer may be nil, in which case no
// welcome email is scheduled.
func NewAuthService(provider identity.Provider, mailer WelcomeMailer, resetURL string) *AuthService {
	return &AuthService{
		provider: provider,
		mailer:   mailer,
		resetURL: resetURL,
	}
}

// Register creates the account. The provider withholds the session until the
// email address is confirmed, so only the user is returned.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	var metadata map[string]any
	if name != "" {
		metadata = map[string]any{"name": name}
	}

	user, _, err := s.provider.SignUp(ctx, email, password, metadata)
	if err != nil {
		return nil, providerError(ctx, "register", err)
	}

	if s.mailer != nil {
		if err := s.mailer.EnqueueWelcomeEmail(ctx, email, name); err != nil {
			zerolog.Ctx(ctx).Error().
				Err(err).
				Str("function", "AuthService.Register").
				Msg("failed to enqueue welcome email")
		}
	}

	return user, nil
}

// Login exchanges credentials for a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.Session, error) {
	session, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, providerError(ctx, "login", err)
	}
	return session, nil
}

// Logout revokes the caller's session.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	if err := s.provider.SignOut(ctx, accessToken); err != nil {
		return providerError(ctx, "logout", err)
	}
	return nil
}

// UpdateProfile writes the supplied profile fields into user_metadata.
// Absent fields keep their stored values.
func (s *AuthService) UpdateProfile(ctx context.Context, accessToken string, update model.ProfileUpdate) (*model.User, error) {
	user, err := s.provider.UpdateUserMetadata(ctx, accessToken, update.Metadata())
	if err != nil {
		return nil, providerError(ctx, "update_profile", err)
	}
	return user, nil
}

// ForgotPassword asks the provider to send the reset email. The outcome is
// the same whether or not the address belongs to an account.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if err := s.provider.SendResetEmail(ctx, email, s.resetURL); err != nil {
		return providerError(ctx, "forgot_password", err)
	}
	return nil
}

// ResetPassword sets a new password for the holder of the reset session.
func (s *AuthService) ResetPassword(ctx context.Context, accessToken, password string) error {
	if _, err := s.provider.UpdatePassword(ctx, accessToken, password); err != nil {
		return providerError(ctx, "reset_password", err)
	}
	return nil
}

// providerError maps a provider failure onto the error taxonomy. Anything
// not recognised is an external service error carrying the provider message.
func providerError(ctx context.Context, operation string, err error) error {
	var perr *identity.Error
	if !errors.As(err, &perr) {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Str("operation", operation).
			Msg("identity provider unreachable")
		return errs.NewExternalServiceError("Identity provider unavailable")
	}

	zerolog.Ctx(ctx).Warn().
		Str("operation", operation).
		Int("provider_status", perr.Status).
		Str("provider_code", perr.ErrorCode).
		Msg(perr.Message)

	switch perr.ErrorCode {
	case identity.CodeUserAlreadyExists, identity.CodeEmailExists:
		return errs.NewConflictError(perr.Message, nil)
	case identity.CodeInvalidCredentials, identity.CodeInvalidGrant:
		return errs.NewUnauthorizedError("Invalid login credentials")
	case identity.CodeEmailNotConfirmed:
		return errs.NewUnauthorizedError(perr.Message)
	case identity.CodeBadJWT, identity.CodeSessionNotFound:
		return errs.NewUnauthorizedError("Invalid or expired token")
	case identity.CodeOverRequestLimit, identity.CodeOverEmailSendLimit:
		return errs.NewTooManyRequestsError(perr.Message)
	}

	// Older provider versions only say it in prose.
	if strings.Contains(strings.ToLower(perr.Message), "already registered") {
		return errs.NewConflictError(perr.Message, nil)
	}
	if perr.Status == http.StatusTooManyRequests {
		return errs.NewTooManyRequestsError(perr.Message)
	}

	return errs.NewExternalServiceError(perr.Message)
}
