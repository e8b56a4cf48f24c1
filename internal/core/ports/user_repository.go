package ports

import (
	"context"

	"github.com/atelier/marketplace-api/internal/core/domain"
)

// UserStore is the read-only lookup the principal resolver depends on.
// FindBySubject returns domain.ErrUserNotFound when no record matches.
type UserStore interface {
	FindBySubject(ctx context.Context, subject string) (*domain.User, error)
}

// UserRepository is the full persistence contract used by account management.
type UserRepository interface {
	UserStore
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
