package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/atelier/marketplace-api/internal/api/metrics"
	"github.com/atelier/marketplace-api/internal/core/domain"
)

// Guard is a single-route role policy.
type Guard interface {
	Name() string
	Check(p *domain.Principal) error
}

// Require enforces guard on the Principal attached by Auth. Routes using it
// must be mounted behind Auth.
func Require(guard Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := guard.Check(Principal(c)); err != nil {
				metrics.GuardDecisionsTotal.WithLabelValues(guard.Name(), "deny").Inc()
				return err
			}
			metrics.GuardDecisionsTotal.WithLabelValues(guard.Name(), "allow").Inc()
			return next(c)
		}
	}
}
