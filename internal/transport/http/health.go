package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health godoc
// @Summary Liveness
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (r *Routers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Portfolio API is running",
	})
}

// Ready godoc
// @Summary Readiness
// @Description Проверяет доступность базы данных и хранилища сессий.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health/ready [get]
func (r *Routers) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	result := map[string]string{"status": "ready"}
	status := http.StatusOK

	for name, checker := range r.checks {
		if err := checker.HealthCheck(ctx); err != nil {
			r.log.Warn("readiness check failed", slog.String("dependency", name), slog.String("error", err.Error()))
			result[name] = "unavailable"
			result["status"] = "not ready"
			status = http.StatusServiceUnavailable
			continue
		}
		result[name] = "ok"
	}

	return c.JSON(status, result)
}
