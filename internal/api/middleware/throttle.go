package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/atelier/marketplace-api/internal/api/metrics"
)

// Limiter counts attempts per key.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// windowed limiters advertise their window length as Retry-After.
type windowed interface {
	Window() time.Duration
}

// LoginThrottle limits login attempts per client IP. Limiter errors let the
// request through and are logged.
func LoginThrottle(limiter Limiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			ok, err := limiter.Allow(c.Request().Context(), ip)
			if err != nil {
				log.Warn().Err(err).Str("ip", ip).Msg("login limiter unavailable, allowing request")
				return next(c)
			}
			if !ok {
				metrics.LoginsTotal.WithLabelValues("throttled").Inc()
				if w, ok := limiter.(windowed); ok {
					c.Response().Header().Set("Retry-After", strconv.Itoa(int(w.Window().Seconds())))
				}
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
			}
			return next(c)
		}
	}
}
