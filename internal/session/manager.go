package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Manager owns the session lifecycle on top of a Store.
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl, now: time.Now}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) Create(ctx context.Context, s Session) (*Session, error) {
	s.ID = uuid.NewString()
	s.CreatedAt = m.now()
	s.CurrentTest = nil
	if err := m.store.Save(ctx, &s, m.ttl); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

// Touch extends the session expiry. Only the TTL moves; the stored payload,
// including any in-progress marker, is left as it is.
func (m *Manager) Touch(ctx context.Context, s *Session) error {
	return m.store.Refresh(ctx, s.ID, m.ttl)
}

func (m *Manager) Destroy(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

func (m *Manager) SetCurrentTest(ctx context.Context, id string, marker TestInProgress) error {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	s.CurrentTest = &marker
	return m.store.Save(ctx, s, m.ttl)
}

func (m *Manager) CurrentTest(ctx context.Context, id string) (*TestInProgress, error) {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.CurrentTest, nil
}

func (m *Manager) ClearCurrentTest(ctx context.Context, id string) error {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if s.CurrentTest == nil {
		return nil
	}
	s.CurrentTest = nil
	return m.store.Save(ctx, s, m.ttl)
}
