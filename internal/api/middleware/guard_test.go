package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/atelier/marketplace-api/internal/core/domain"
	"github.com/atelier/marketplace-api/internal/core/service"
)

func TestRequire_Allows(t *testing.T) {
	c, rec := newCtx("")
	setPrincipal(c, &domain.Principal{Subject: "d@x.com", Role: domain.RoleDesigner, IsActive: true})

	called := false
	handler := Require(service.IsDesignerOrAdmin)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected next to run, code %d", rec.Code)
	}
}

func TestRequire_Denies(t *testing.T) {
	cases := map[string]struct {
		principal *domain.Principal
		want      error
	}{
		"no principal": {want: domain.ErrUnauthenticated},
		"wrong role":   {principal: &domain.Principal{Role: domain.RoleCustomer, IsActive: true}, want: domain.ErrForbidden},
		"inactive":     {principal: &domain.Principal{Role: domain.RoleAdmin}, want: domain.ErrInactiveUser},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newCtx("")
			if tc.principal != nil {
				setPrincipal(c, tc.principal)
			}
			handler := Require(service.IsAdmin)(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})
			if err := handler(c); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRequire_SuperuserBypass(t *testing.T) {
	c, _ := newCtx("")
	setPrincipal(c, &domain.Principal{Role: domain.RoleCustomer, IsActive: true, IsSuperuser: true})

	handler := Require(service.IsTailor)(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	if err := handler(c); err != nil {
		t.Fatalf("superuser must pass every guard, got %v", err)
	}
}
