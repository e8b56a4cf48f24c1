package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/atelier/marketplace-api/internal/api/middleware"
	"github.com/atelier/marketplace-api/internal/core/domain"
)

// ctxPrincipal returns the Principal attached by the Auth middleware. A missing
// principal means the route was mounted without Auth and is treated as
// unauthenticated.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p := middleware.Principal(c)
	if p == nil {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}
