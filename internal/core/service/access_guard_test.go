package service

import (
	"errors"
	"testing"

	"github.com/atelier/marketplace-api/internal/core/domain"
)

func TestAccessGuard_Check(t *testing.T) {
	cases := []struct {
		name  string
		guard *AccessGuard
		p     *domain.Principal
		want  error
	}{
		{"admin allowed", IsAdmin, &domain.Principal{Role: domain.RoleAdmin, IsActive: true}, nil},
		{"customer denied admin", IsAdmin, &domain.Principal{Role: domain.RoleCustomer, IsActive: true}, domain.ErrForbidden},
		{"superuser bypass", IsAdmin, &domain.Principal{Role: domain.RoleCustomer, IsActive: true, IsSuperuser: true}, nil},
		{"designer on designer-or-admin", IsDesignerOrAdmin, &domain.Principal{Role: domain.RoleDesigner, IsActive: true}, nil},
		{"tailor on designer-or-admin", IsDesignerOrAdmin, &domain.Principal{Role: domain.RoleTailor, IsActive: true}, domain.ErrForbidden},
		{"tailor on tailor-or-admin", IsTailorOrAdmin, &domain.Principal{Role: domain.RoleTailor, IsActive: true}, nil},
		{"any role authenticated", AnyAuthenticated, &domain.Principal{Role: domain.RoleTailor, IsActive: true}, nil},
		{"inactive superuser", IsAdmin, &domain.Principal{Role: domain.RoleAdmin, IsSuperuser: true}, domain.ErrInactiveUser},
		{"nil principal", AnyAuthenticated, nil, domain.ErrUnauthenticated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.guard.Check(tc.p)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected allow, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAccessGuard_EmptyRoleSetOnlySuperusers(t *testing.T) {
	g := NewAccessGuard("superuser-only")
	if err := g.Check(&domain.Principal{Role: domain.RoleAdmin, IsActive: true}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := g.Check(&domain.Principal{Role: domain.RoleCustomer, IsActive: true, IsSuperuser: true}); err != nil {
		t.Fatalf("expected superuser allowed, got %v", err)
	}
	if g.Name() != "superuser-only" {
		t.Fatalf("unexpected name %q", g.Name())
	}
}
