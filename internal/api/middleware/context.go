package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/atelier/marketplace-api/internal/core/domain"
)

// principalEchoKey is the echo.Context key holding the resolved Principal.
const principalEchoKey = "principal"

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the Principal stored by the Auth middleware.
func PrincipalFromContext(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*domain.Principal)
	return p, ok && p != nil
}

// Principal returns the Principal attached to c, or nil when the route is not
// behind Auth.
func Principal(c echo.Context) *domain.Principal {
	p, _ := c.Get(principalEchoKey).(*domain.Principal)
	return p
}

func setPrincipal(c echo.Context, p *domain.Principal) {
	c.Set(principalEchoKey, p)
	c.SetRequest(c.Request().WithContext(WithPrincipal(c.Request().Context(), p)))
}
