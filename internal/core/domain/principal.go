package domain

// Principal is the request-scoped identity of the caller. It is rebuilt from
// the live user record on every request and never persisted.
type Principal struct {
	UserID      string
	Subject     string
	Role        Role
	IsActive    bool
	IsSuperuser bool
}

// PrincipalFromUser builds a Principal from the authoritative user record.
func PrincipalFromUser(u *User) *Principal {
	return &Principal{
		UserID:      u.ID,
		Subject:     u.Email,
		Role:        u.Role,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
	}
}

// CanModify reports whether p may mutate a resource owned by ownerID.
// Admins and superusers may modify anything.
func (p *Principal) CanModify(ownerID string) bool {
	if p == nil || !p.IsActive {
		return false
	}
	if p.IsSuperuser || p.Role == RoleAdmin {
		return true
	}
	return ownerID != "" && p.UserID == ownerID
}
