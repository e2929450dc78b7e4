package middleware

import (
	"github.com/deppfellow/handyman-api/internal/logger"
	"github.com/deppfellow/handyman-api/internal/model"
	"github.com/deppfellow/handyman-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// Echo context keys.
const (
	UserKey        = "user"
	UserIDKey      = "user_id"
	AccessTokenKey = "access_token"
	LoggerKey      = "logger"
)

// ContextEnhancer builds the request-scoped logger.
type ContextEnhancer struct {
	server *server.Server
}

func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext derives a logger carrying request_id, method, path, ip and
// the New Relic trace ids, and stores it both in the Echo context and in the
// request's context.Context, where zerolog.Ctx finds it.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			setLogger(c, contextLogger)

			return next(c)
		}
	}
}

func setLogger(c echo.Context, l zerolog.Logger) {
	c.Set(LoggerKey, &l)
	c.SetRequest(c.Request().WithContext(l.WithContext(c.Request().Context())))
}

// setIdentity records the authenticated caller and rebinds the request
// logger with its user_id.
func setIdentity(c echo.Context, user *model.User, accessToken string) {
	c.Set(UserKey, user)
	c.Set(UserIDKey, user.ID)
	c.Set(AccessTokenKey, accessToken)

	setLogger(c, GetLogger(c).With().Str("user_id", user.ID).Logger())
}

// GetUser returns the caller resolved by the auth gate, or nil.
func GetUser(c echo.Context) *model.User {
	user, _ := c.Get(UserKey).(*model.User)
	return user
}

// GetUserID returns the caller's id, or "" on unauthenticated routes.
func GetUserID(c echo.Context) string {
	userID, _ := c.Get(UserIDKey).(string)
	return userID
}

// GetAccessToken returns the caller's bearer token, or "".
func GetAccessToken(c echo.Context) string {
	token, _ := c.Get(AccessTokenKey).(string)
	return token
}

// GetLogger retrieves the request-scoped logger. Without EnhanceContext it
// returns a no-op logger.
func GetLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return logger
	}

	logger := zerolog.Nop()
	return &logger
}
