package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/inkwell/blog-api/internal/api/metrics"
)

// Limiter counts requests per (class, client address) window. Implemented by
// the Redis-backed limiter in infrastructure.
type Limiter interface {
	Allow(ctx context.Context, class, clientAddr string, max int, window time.Duration) (bool, error)
}

// RateLimit rejects requests over max hits per window, keyed by client IP.
// A limiter failure fails open: losing Redis must not take the API down with
// it.
func RateLimit(limiter Limiter, class string, max int, window time.Duration, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, err := limiter.Allow(c.Request().Context(), class, c.RealIP(), max, window)
			if err != nil {
				log.Warn().Err(err).Str("class", class).Msg("rate limiter unavailable, failing open")
				return next(c)
			}
			if !allowed {
				metrics.RateLimitedTotal.WithLabelValues(class).Inc()
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
			}
			return next(c)
		}
	}
}
