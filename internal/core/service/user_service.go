package service

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelier/marketplace-api/internal/core/domain"
	"github.com/atelier/marketplace-api/internal/core/ports"
)

// UserService implements account management for administrators and the
// caller's own profile.
type UserService struct {
	repo     ports.UserRepository
	hasher   PasswordHasher
	activity ports.ActivityRecorder
	log      zerolog.Logger
	now      func() time.Time
}

func NewUserService(repo ports.UserRepository, hasher PasswordHasher, activity ports.ActivityRecorder, log zerolog.Logger) *UserService {
	if activity == nil {
		activity = ports.NopActivity{}
	}
	return &UserService{
		repo:     repo,
		hasher:   hasher,
		activity: activity,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreatePrivileged creates a designer or admin account. Admin accounts are
// also superusers.
func (s *UserService) CreatePrivileged(ctx context.Context, actor *domain.Principal, in ports.CreateUserInput) (*domain.User, error) {
	if in.Role != domain.RoleDesigner && in.Role != domain.RoleAdmin {
		return nil, domain.ErrRoleNotAssignable
	}

	user, err := newUser(s.hasher, s.now(), in.RegisterInput, in.Role)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.record(domain.ActivityUserCreated, created.Email, actor, map[string]string{"role": created.Role.String()})
	return created, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Me returns the live record behind principal.
func (s *UserService) Me(ctx context.Context, principal *domain.Principal) (*domain.User, error) {
	if principal == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.FindBySubject(ctx, principal.Subject)
}

// List returns a page of users. page is 1-based.
func (s *UserService) List(ctx context.Context, page, limit int) ([]*domain.User, error) {
	page, limit = ports.NormalizePage(page, limit)
	return s.repo.List(ctx, (page-1)*limit, limit)
}

// Update applies patch to the user with the given id. Deactivation and role
// changes take effect on the user's next request. A role change without an
// explicit superuser flag keeps superuser tied to the admin role.
func (s *UserService) Update(ctx context.Context, actor *domain.Principal, id string, patch domain.UserPatch) (*domain.User, error) {
	if patch.Role != nil && !patch.Role.IsValid() {
		return nil, domain.ErrUnknownRole
	}
	if patch.Role != nil && patch.IsSuperuser == nil {
		superuser := *patch.Role == domain.RoleAdmin
		patch.IsSuperuser = &superuser
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(user)
	user.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	meta := map[string]string{"role": updated.Role.String()}
	if patch.IsActive != nil {
		meta["is_active"] = strconv.FormatBool(updated.IsActive)
	}
	s.record(domain.ActivityUserUpdated, updated.Email, actor, meta)
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, actor *domain.Principal, id string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(domain.ActivityUserDeleted, user.Email, actor, nil)
	return nil
}

func (s *UserService) record(typ domain.ActivityType, subject string, actor *domain.Principal, meta map[string]string) {
	ev := domain.ActivityEvent{
		Type:       typ,
		Subject:    subject,
		Metadata:   meta,
		OccurredAt: s.now(),
	}
	if actor != nil {
		ev.Actor = actor.Subject
	}
	s.activity.Record(ev)
	s.log.Info().Str("subject", subject).Str("actor", ev.Actor).Str("event", string(typ)).Msg("user changed")
}

