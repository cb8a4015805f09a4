package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"asteca_portfolio/internal/lib/logger/sl"
	"asteca_portfolio/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit ограничивает количество запросов с одного IP.
// formatted задаётся в формате limiter, например "10-M".
func RateLimit(log *slog.Logger, formatted string) (echo.MiddlewareFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("middleware.RateLimit: %w", err)
	}

	instance := limiter.New(memory.NewStore(), rate)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limit, err := instance.Get(c.Request().Context(), c.RealIP())
			if err != nil {
				log.Error("rate limiter failed", sl.Err(err))
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit.Limit))
			h.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", limit.Remaining))
			h.Set("X-RateLimit-Reset", fmt.Sprintf("%d", limit.Reset))

			if limit.Reached {
				return c.JSON(http.StatusTooManyRequests, response.ErrorResponse{
					Error: "too many requests, try again later",
				})
			}

			return next(c)
		}
	}, nil
}
