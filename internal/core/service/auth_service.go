package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelier/marketplace-api/internal/core/domain"
	"github.com/atelier/marketplace-api/internal/core/ports"
	"github.com/atelier/marketplace-api/internal/core/security"
)

// PasswordHasher hashes and verifies stored credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, credential string) bool
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(claims security.Claims, ttl time.Duration) (string, error)
}

// AuthService implements registration and login.
type AuthService struct {
	repo     ports.UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	activity ports.ActivityRecorder
	log      zerolog.Logger
	now      func() time.Time

	// placeholder is verified against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	placeholder string
}

// NewAuthService builds the service and its placeholder credential. It fails
// when the hasher cannot produce one.
func NewAuthService(
	repo ports.UserRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	activity ports.ActivityRecorder,
	log zerolog.Logger,
) (*AuthService, error) {
	if activity == nil {
		activity = ports.NopActivity{}
	}
	placeholder, err := hasher.Hash("placeholder-credential")
	if err != nil {
		return nil, fmt.Errorf("build placeholder credential: %w", err)
	}
	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		tokens:      tokens,
		activity:    activity,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
		placeholder: placeholder,
	}, nil
}

// Register creates a customer account. Self-registration can never assign a
// privileged role.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	user, err := newUser(s.hasher, s.now(), in, domain.RoleCustomer)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.activity.Record(domain.ActivityEvent{
		Type:       domain.ActivityRegister,
		Subject:    created.Email,
		Actor:      created.Email,
		OccurredAt: s.now(),
	})
	s.log.Info().Str("subject", created.Email).Msg("user registered")
	return created, nil
}

// Login checks the password and returns a signed access token.
// Unknown email and wrong password yield the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindBySubject(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, err
		}
		s.hasher.Verify(password, s.placeholder)
		s.recordFailure(email, "unknown_subject")
		return "", nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.recordFailure(email, "bad_password")
		return "", nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.recordFailure(email, "inactive")
		return "", nil, domain.ErrInactiveUser
	}

	token, err := s.tokens.Issue(security.NewClaims(user.Email, user.Role), 0)
	if err != nil {
		return "", nil, err
	}

	s.activity.Record(domain.ActivityEvent{
		Type:       domain.ActivityLoginSuccess,
		Subject:    user.Email,
		Actor:      user.Email,
		OccurredAt: s.now(),
	})
	return token, user, nil
}

func (s *AuthService) recordFailure(email, reason string) {
	s.activity.Record(domain.ActivityEvent{
		Type:       domain.ActivityLoginFailure,
		Subject:    email,
		Actor:      email,
		Metadata:   map[string]string{"reason": reason},
		OccurredAt: s.now(),
	})
	s.log.Info().Str("subject", email).Str("reason", reason).Msg("login rejected")
}

func newUser(hasher PasswordHasher, now time.Time, in ports.RegisterInput, role domain.Role) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	return &domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         role,
		IsActive:     true,
		IsSuperuser:  role == domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
