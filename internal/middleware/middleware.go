// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as authentication (the bearer token gate), request logging,
// CORS, rate limiting, panic recovery and error normalization.
package middleware
