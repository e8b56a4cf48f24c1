package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/atelier/marketplace-api/internal/api/metrics"
	"github.com/atelier/marketplace-api/internal/core/domain"
	"github.com/atelier/marketplace-api/internal/core/ports"
)

// Auth resolves the bearer token into a Principal and attaches it to the
// request. Failures are returned to the central error handler, which logs
// unexpected ones.
func Auth(resolver ports.PrincipalResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.ResolutionsTotal.WithLabelValues("unauthenticated").Inc()
				return domain.ErrUnauthenticated
			}

			p, err := resolver.Resolve(c.Request().Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrUnauthenticated):
					metrics.ResolutionsTotal.WithLabelValues("unauthenticated").Inc()
				case errors.Is(err, domain.ErrInactiveUser):
					metrics.ResolutionsTotal.WithLabelValues("inactive").Inc()
				default:
					metrics.ResolutionsTotal.WithLabelValues("error").Inc()
				}
				return err
			}

			metrics.ResolutionsTotal.WithLabelValues("ok").Inc()
			setPrincipal(c, p)
			return next(c)
		}
	}
}

// bearerToken extracts the credential from an "Authorization: Bearer <token>"
// header value. The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
