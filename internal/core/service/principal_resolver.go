package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/atelier/marketplace-api/internal/core/domain"
	"github.com/atelier/marketplace-api/internal/core/ports"
	"github.com/atelier/marketplace-api/internal/core/security"
)

// TokenDecoder is the part of the token codec the resolver needs.
type TokenDecoder interface {
	Decode(token string) (*security.Claims, error)
}

// PrincipalResolver authenticates bearer tokens against the live user store.
type PrincipalResolver struct {
	tokens TokenDecoder
	users  ports.UserStore
	log    zerolog.Logger
}

// NewPrincipalResolver returns a resolver backed by tokens and users.
func NewPrincipalResolver(tokens TokenDecoder, users ports.UserStore, log zerolog.Logger) *PrincipalResolver {
	return &PrincipalResolver{tokens: tokens, users: users, log: log}
}

// Resolve decodes token, loads the subject's user record and returns a
// Principal built from that record. The role embedded in the token is ignored
// so role changes and deactivation apply on the next request.
func (r *PrincipalResolver) Resolve(ctx context.Context, token string) (*domain.Principal, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims, err := r.tokens.Decode(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	if claims.Subject == "" {
		return nil, domain.ErrUnauthenticated
	}

	user, err := r.users.FindBySubject(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve principal: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}

	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}

	if claims.Role != "" && claims.Role != user.Role {
		r.log.Debug().
			Str("subject", user.Email).
			Str("token_role", claims.Role.String()).
			Str("role", user.Role.String()).
			Msg("token role is stale, using stored role")
	}

	return domain.PrincipalFromUser(user), nil
}
