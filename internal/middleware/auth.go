package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/deppfellow/handyman-api/internal/errs"
	"github.com/deppfellow/handyman-api/internal/lib/identity"
	"github.com/deppfellow/handyman-api/internal/model"
	"github.com/deppfellow/handyman-api/internal/server"
	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// UserResolver verifies an access token. Satisfied by identity.Provider.
type UserResolver interface {
	ResolveUser(ctx context.Context, accessToken string) (*model.User, error)
}

// AuthMiddleware is the gate in front of protected routes.
type AuthMiddleware struct {
	resolver UserResolver
}

func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	return &AuthMiddleware{
		resolver: s.Identity,
	}
}

// RequireAuth rejects requests without a valid bearer token before the
// handler runs. On success the user, its id and the raw token are stored in
// the Echo context (see GetUser, GetUserID, GetAccessToken).
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		logger := GetLogger(c)

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return errs.NewUnauthorizedError("No token provided or invalid format")
		}

		token, _, _ := strings.Cut(strings.TrimPrefix(header, bearerPrefix), " ")
		if token == "" {
			return errs.NewUnauthorizedError("Authentication token is required")
		}

		user, err := auth.resolver.ResolveUser(c.Request().Context(), token)
		if err != nil {
			var providerErr *identity.Error
			if errors.As(err, &providerErr) && providerErr.IsClientError() {
				logger.Warn().
					Str("function", "RequireAuth").
					Str("provider_code", providerErr.ErrorCode).
					Dur("duration", time.Since(start)).
					Msg("token rejected by identity provider")
				return errs.NewUnauthorizedError("Invalid or expired token")
			}

			logger.Error().
				Err(err).
				Str("function", "RequireAuth").
				Dur("duration", time.Since(start)).
				Msg("could not verify token")
			return errs.NewInternalServerErrorWithMessage("Server error during authentication")
		}

		if user == nil || user.ID == "" {
			return errs.NewUnauthorizedError("Invalid or expired token")
		}

		setIdentity(c, user, token)

		GetLogger(c).Debug().
			Str("function", "RequireAuth").
			Dur("duration", time.Since(start)).
			Msg("user authenticated successfully")

		return next(c)
	}
}
