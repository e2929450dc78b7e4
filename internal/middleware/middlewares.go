package middleware

import (
	"github.com/deppfellow/handyman-api/internal/server"
)

// Middlewares groups every middleware component so the router receives a
// single value.
type Middlewares struct {
	// Global holds CORS, request logging, recovery, secure headers and the
	// error normalizer.
	Global *GlobalMiddlewares

	// Auth is the bearer token gate in front of protected routes.
	Auth *AuthMiddleware

	// ContextEnhancer attaches the request-scoped logger.
	ContextEnhancer *ContextEnhancer

	// Tracing wires New Relic transactions and custom attributes.
	Tracing *TracingMiddleware

	// RateLimit throttles the public auth endpoints per client IP.
	RateLimit *RateLimitMiddleware
}

// NewMiddlewares constructs all middleware components. When New Relic is
// not configured the tracing middleware degrades into a pass-through.
func NewMiddlewares(s *server.Server) *Middlewares {
	nrApp := s.LoggerService.GetApplication()

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		Auth:            NewAuthMiddleware(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
