package ports

import (
	"context"

	"github.com/atelier/marketplace-api/internal/core/domain"
)

// RegisterInput carries a public self-registration.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// CreateUserInput carries a privileged account creation.
type CreateUserInput struct {
	RegisterInput
	Role domain.Role
}

// AuthService implements registration and login.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// PrincipalResolver turns a bearer token into the caller's Principal.
type PrincipalResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Principal, error)
}

// UserService implements admin account management.
type UserService interface {
	CreatePrivileged(ctx context.Context, actor *domain.Principal, in CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Me(ctx context.Context, principal *domain.Principal) (*domain.User, error)
	List(ctx context.Context, page, limit int) ([]*domain.User, error)
	Update(ctx context.Context, actor *domain.Principal, id string, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, actor *domain.Principal, id string) error
}
