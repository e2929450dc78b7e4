// Package handler is the HTTP layer between the router and the services.
//
// Every endpoint is a typed function taking a bound and validated request
// DTO (dto.go) and returning the response envelope. Handle adapts it to an
// echo.HandlerFunc; failures are returned as errors and rendered by the
// global error handler.
package handler
