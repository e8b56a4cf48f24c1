package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelier/marketplace-api/internal/core/domain"
	"github.com/atelier/marketplace-api/internal/core/security"
)

func seedUser(t *testing.T, repo *stubUserRepo, email string, role domain.Role) *domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &domain.User{
		Email:    email,
		Role:     role,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func issue(t *testing.T, codec *security.TokenCodec, subject string, role domain.Role) string {
	t.Helper()
	token, err := codec.Issue(security.NewClaims(subject, role), 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return token
}

func TestPrincipalResolver_Success(t *testing.T) {
	repo := newStubUserRepo()
	codec := newTestCodec()
	seeded := seedUser(t, repo, "a@x.com", domain.RoleDesigner)
	resolver := NewPrincipalResolver(codec, repo, zerolog.Nop())

	p, err := resolver.Resolve(context.Background(), issue(t, codec, "a@x.com", domain.RoleDesigner))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.UserID != seeded.ID || p.Subject != "a@x.com" || p.Role != domain.RoleDesigner || !p.IsActive {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestPrincipalResolver_Unauthenticated(t *testing.T) {
	repo := newStubUserRepo()
	codec := newTestCodec()
	seedUser(t, repo, "a@x.com", domain.RoleCustomer)
	resolver := NewPrincipalResolver(codec, repo, zerolog.Nop())

	expired, err := codec.Issue(security.NewClaims("a@x.com", domain.RoleCustomer), -time.Second)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"expired":      expired,
		"no subject":   issue(t, codec, "", domain.RoleCustomer),
		"unknown user": issue(t, codec, "ghost@x.com", domain.RoleCustomer),
		"other signer": mustForeignToken(t),
	}
	for name, token := range cases {
		if _, err := resolver.Resolve(context.Background(), token); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}
}

func mustForeignToken(t *testing.T) string {
	t.Helper()
	other, err := security.NewTokenCodec("f0re1gn-k3y-0123456789abcdefghijkl", security.DefaultTokenTTL)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return issue(t, other, "a@x.com", domain.RoleAdmin)
}

func TestPrincipalResolver_StoreFailure(t *testing.T) {
	repo := newStubUserRepo()
	codec := newTestCodec()
	seedUser(t, repo, "a@x.com", domain.RoleCustomer)
	token := issue(t, codec, "a@x.com", domain.RoleCustomer)
	repo.findErr = errors.New("connection reset")

	_, err := NewPrincipalResolver(codec, repo, zerolog.Nop()).Resolve(context.Background(), token)
	if err == nil || errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}

func TestPrincipalResolver_UsesLiveRole(t *testing.T) {
	repo := newStubUserRepo()
	codec := newTestCodec()
	seedUser(t, repo, "a@x.com", domain.RoleCustomer)
	resolver := NewPrincipalResolver(codec, repo, zerolog.Nop())

	token := issue(t, codec, "a@x.com", domain.RoleCustomer)
	repo.mutate("a@x.com", func(u *domain.User) { u.Role = domain.RoleAdmin })

	p, err := resolver.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Role != domain.RoleAdmin {
		t.Fatalf("expected live role admin, got %s", p.Role)
	}

	// A forged admin claim does not elevate a customer record either.
	repo.mutate("a@x.com", func(u *domain.User) { u.Role = domain.RoleCustomer })
	p, err = resolver.Resolve(context.Background(), issue(t, codec, "a@x.com", domain.RoleAdmin))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Role != domain.RoleCustomer {
		t.Fatalf("expected stored role customer, got %s", p.Role)
	}
}

func TestPrincipalResolver_Deactivated(t *testing.T) {
	repo := newStubUserRepo()
	codec := newTestCodec()
	seedUser(t, repo, "a@x.com", domain.RoleCustomer)
	resolver := NewPrincipalResolver(codec, repo, zerolog.Nop())
	token := issue(t, codec, "a@x.com", domain.RoleCustomer)

	if _, err := resolver.Resolve(context.Background(), token); err != nil {
		t.Fatalf("resolve before deactivation: %v", err)
	}

	repo.mutate("a@x.com", func(u *domain.User) { u.IsActive = false })

	_, err := resolver.Resolve(context.Background(), token)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("deactivation must not look like an authentication failure")
	}
}
