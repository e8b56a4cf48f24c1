package service

import "github.com/atelier/marketplace-api/internal/core/domain"

// AccessGuard is the role policy declared for a single operation.
// Superusers satisfy every guard. Resource ownership is not checked here.
type AccessGuard struct {
	name    string
	allowed map[domain.Role]struct{}
}

// NewAccessGuard returns a guard admitting the given roles.
func NewAccessGuard(name string, roles ...domain.Role) *AccessGuard {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return &AccessGuard{name: name, allowed: allowed}
}

// Name identifies the policy in logs and metrics.
func (g *AccessGuard) Name() string { return g.name }

// Allows reports whether role is in the guard's role set.
func (g *AccessGuard) Allows(role domain.Role) bool {
	_, ok := g.allowed[role]
	return ok
}

// Check returns nil when p may perform the guarded operation.
func (g *AccessGuard) Check(p *domain.Principal) error {
	if p == nil {
		return domain.ErrUnauthenticated
	}
	if !p.IsActive {
		return domain.ErrInactiveUser
	}
	if p.IsSuperuser {
		return nil
	}
	if g.Allows(p.Role) {
		return nil
	}
	return domain.ErrForbidden
}

// Route policies.
var (
	IsAdmin           = NewAccessGuard("admin", domain.RoleAdmin)
	IsDesigner        = NewAccessGuard("designer", domain.RoleDesigner)
	IsTailor          = NewAccessGuard("tailor", domain.RoleTailor)
	IsCustomer        = NewAccessGuard("customer", domain.RoleCustomer)
	IsDesignerOrAdmin = NewAccessGuard("designer-or-admin", domain.RoleDesigner, domain.RoleAdmin)
	IsTailorOrAdmin   = NewAccessGuard("tailor-or-admin", domain.RoleTailor, domain.RoleAdmin)
	AnyAuthenticated  = NewAccessGuard("authenticated", domain.AllRoles()...)
)
