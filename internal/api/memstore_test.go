package api

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/atelier/marketplace-api/internal/core/domain"
)

// memUsers is an in-memory ports.UserRepository for router tests.
type memUsers struct {
	mu     sync.Mutex
	byID   map[string]*domain.User
	nextID int
}

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[string]*domain.User)}
}

func (m *memUsers) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	m.nextID++
	stored := *user
	stored.ID = fmt.Sprintf("u%d", m.nextID)
	m.byID[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (m *memUsers) FindBySubject(_ context.Context, subject string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == subject {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (m *memUsers) List(_ context.Context, offset, limit int) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.byID))
	for id := range m.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []*domain.User
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		u := *m.byID[ids[i]]
		out = append(out, &u)
	}
	return out, nil
}

func (m *memUsers) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	stored := *user
	m.byID[user.ID] = &stored
	out := stored
	return &out, nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.byID, id)
	return nil
}
