package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/namecard/internal/common"
	"github.com/dmitrijs2005/namecard/internal/cryptox"
	"golang.org/x/oauth2"
)

// userRecord is what goes under common.SessionUserKey.
type userRecord struct {
	User
	TokenExpiry time.Time `json:"tokenExpiry,omitempty"`
}

type Manager struct {
	mu      sync.RWMutex
	current *Session
	backend Backend
	sealer  cryptox.Sealer
}

// NewManager returns a signed-out Manager. A nil backend keeps the session in
// memory only; a nil sealer stores tokens unencrypted.
func NewManager(backend Backend, sealer cryptox.Sealer) *Manager {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	if sealer == nil {
		sealer = cryptox.PlainSealer{}
	}
	return &Manager{backend: backend, sealer: sealer}
}

// Restore loads a persisted session. With any of the three keys missing the
// Manager stays signed out and (nil, nil) is returned. Unreadable entries are
// reported as an error and also leave the Manager signed out.
func (m *Manager) Restore(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil

	values, err := m.backend.Load(ctx, common.SessionKeys)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	for _, k := range common.SessionKeys {
		if len(values[k]) == 0 {
			return nil, nil
		}
	}

	var rec userRecord
	if err := json.Unmarshal(values[common.SessionUserKey], &rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", common.SessionUserKey, err)
	}
	access, err := m.sealer.Open(values[common.SessionTokenKey])
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", common.SessionTokenKey, err)
	}
	refresh, err := m.sealer.Open(values[common.SessionRefreshKey])
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", common.SessionRefreshKey, err)
	}

	s := Session{
		User: rec.User,
		Token: &oauth2.Token{
			AccessToken:  string(access),
			RefreshToken: string(refresh),
			TokenType:    "Bearer",
			Expiry:       rec.TokenExpiry,
		},
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	m.current = &s
	out := s.clone()
	return &out, nil
}

// Current returns a copy of the active session.
func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Session{}, false
	}
	return m.current.clone(), true
}

func (m *Manager) User() (User, bool) {
	s, ok := m.Current()
	return s.User, ok
}

// Token returns a copy of the active credentials, or nil when signed out.
func (m *Manager) Token() *oauth2.Token {
	s, ok := m.Current()
	if !ok {
		return nil
	}
	return s.Token
}

// Establish replaces whatever session is active with s and persists it.
// On a persistence error the previous session is kept.
func (m *Manager) Establish(ctx context.Context, s Session) error {
	if err := s.validate(); err != nil {
		return err
	}
	s = s.clone()

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.persist(ctx, s); err != nil {
		return err
	}
	m.current = &s
	return nil
}

// ReplaceToken installs refreshed credentials, but only if the active session
// still carries prevRefresh. Otherwise the session was replaced or cleared
// while the refresh was in flight and ErrSessionChanged is returned.
func (m *Manager) ReplaceToken(ctx context.Context, prevRefresh string, tok *oauth2.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil || m.current.Token.RefreshToken != prevRefresh {
		return ErrSessionChanged
	}

	next := m.current.clone()
	t := *tok
	if t.RefreshToken == "" {
		t.RefreshToken = prevRefresh
	}
	next.Token = &t
	if err := next.validate(); err != nil {
		return err
	}

	if err := m.persist(ctx, next); err != nil {
		return err
	}
	m.current = &next
	return nil
}

// UpdateUser applies fn to the active user and persists the result.
func (m *Manager) UpdateUser(ctx context.Context, fn func(u *User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return ErrNoSession
	}
	next := m.current.clone()
	fn(&next.User)

	if err := m.persist(ctx, next); err != nil {
		return err
	}
	m.current = &next
	return nil
}

// Clear removes the persisted keys and then signs out locally. If the keys
// cannot be removed the session stays active. Clearing an already
// signed-out Manager is not an error.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.backend.Remove(ctx, common.SessionKeys); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	m.current = nil
	return nil
}

func (m *Manager) persist(ctx context.Context, s Session) error {
	user, err := json.Marshal(userRecord{User: s.User, TokenExpiry: s.Token.Expiry})
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	access, err := m.sealer.Seal([]byte(s.Token.AccessToken))
	if err != nil {
		return fmt.Errorf("seal access token: %w", err)
	}
	refresh, err := m.sealer.Seal([]byte(s.Token.RefreshToken))
	if err != nil {
		return fmt.Errorf("seal refresh token: %w", err)
	}

	values := map[string][]byte{
		common.SessionUserKey:    user,
		common.SessionTokenKey:   access,
		common.SessionRefreshKey: refresh,
	}
	if err := m.backend.Save(ctx, common.SessionKeys, values); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
