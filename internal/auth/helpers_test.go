package auth

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]User
	err   error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]User)}
}

func (m *memoryUsers) CreateUser(_ context.Context, email, hash string, confirmed bool) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return User{}, m.err
	}
	if _, ok := m.users[email]; ok {
		return User{}, ErrUserExists
	}
	u := User{
		ID:           "user-" + strconv.Itoa(len(m.users)+1),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if confirmed {
		now := time.Now()
		u.ConfirmedAt = &now
	}
	m.users[email] = u
	return u, nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return User{}, m.err
	}
	u, ok := m.users[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (m *memoryUsers) ConfirmUser(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return ErrUserNotFound
	}
	now := time.Now()
	u.ConfirmedAt = &now
	m.users[email] = u
	return nil
}

type memorySessions struct {
	mu    sync.Mutex
	token string
}

func (m *memorySessions) LoadToken() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memorySessions) SaveToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memorySessions) ClearToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (m *memoryRevoker) Revoke(_ context.Context, id string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = make(map[string]bool)
	}
	m.revoked[id] = true
	return nil
}

func (m *memoryRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[id], nil
}

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	issuer, err := NewIssuer([]byte("test-signing-key-0123456789abcdef"), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return issuer
}

func startedProvider(t *testing.T, opts Options) *Provider {
	t.Helper()
	p := NewProvider(opts)
	p.Start(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.WaitReady(ctx); err != nil {
		t.Fatalf("provider never became ready: %v", err)
	}
	return p
}
