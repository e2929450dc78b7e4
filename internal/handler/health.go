package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/handyman-api/internal/middleware"
	"github.com/deppfellow/handyman-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthHandler reports whether the API and its dependencies are reachable.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// HealthResponse is the body of GET /status.
type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]CheckResult `json:"checks"`
}

type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

// CheckHealth pings the configured dependencies (observability
// health_checks.checks). Any failing dependency answers 503.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	obs := h.server.Config.Observability

	response := HealthResponse{
		Status:      statusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]CheckResult),
	}

	if obs.ShouldCheck("database") && h.server.DB != nil {
		response.Checks["database"] = h.check(c.Request().Context(), &logger, "database", func(ctx context.Context) error {
			return h.server.DB.Pool.Ping(ctx)
		})
	}

	if obs.ShouldCheck("redis") && h.server.Redis != nil {
		response.Checks["redis"] = h.check(c.Request().Context(), &logger, "redis", func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
	}

	for _, check := range response.Checks {
		if check.Status != statusHealthy {
			response.Status = statusUnhealthy
		}
	}

	if response.Status != statusHealthy {
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthCheckError(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

// check runs ping under the configured health check timeout.
func (h *HealthHandler) check(ctx context.Context, logger *zerolog.Logger, name string, ping func(ctx context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, h.server.Config.Observability.HealthCheckTimeout())
	defer cancel()

	checkStart := time.Now()
	err := ping(ctx)
	elapsed := time.Since(checkStart)

	if err != nil {
		logger.Error().
			Err(err).
			Str("check", name).
			Dur("response_time", elapsed).
			Msg("dependency health check failed")

		h.recordHealthCheckError(map[string]interface{}{
			"check_type":       name,
			"operation":        "health_check",
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return CheckResult{
			Status:       statusUnhealthy,
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	return CheckResult{
		Status:       statusHealthy,
		ResponseTime: elapsed.String(),
	}
}

func (h *HealthHandler) recordHealthCheckError(attributes map[string]interface{}) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", attributes)
	}
}
