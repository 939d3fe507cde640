package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/clientmgr/internal/auth"
	"github.com/julianstephens/clientmgr/internal/config"
	"github.com/julianstephens/clientmgr/internal/models"
	"github.com/julianstephens/clientmgr/internal/storage"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	slot := storage.NewFileSlot(filepath.Join(dir, "clientmgr.json"))
	if err := slot.Init(); err != nil {
		t.Fatalf("failed to init slot: %v", err)
	}
	local := storage.NewLocalStore(slot)
	provider := auth.NewProvider(auth.Options{})

	out := &bytes.Buffer{}
	ctx := &Context{
		Ctx:          context.Background(),
		Local:        local,
		Repo:         storage.NewRepository(local, nil, provider),
		Auth:         provider,
		Config:       config.Default(),
		SettingsPath: filepath.Join(dir, "config.yaml"),
		Out:          out,
		Now:          func() time.Time { return testNow },
	}
	return ctx, out
}

// newRemoteTestContext wires a context to in-memory users, sessions and
// remote clients.
func newRemoteTestContext(t *testing.T) (*Context, *bytes.Buffer, *memoryRemote) {
	t.Helper()
	ctx, out := newTestContext(t)

	issuer, err := auth.NewIssuer([]byte("test-signing-key-0123456789abcdef"), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	remote := newMemoryRemote()
	ctx.Auth = auth.NewProvider(auth.Options{
		Users:    newMemoryUsers(),
		Sessions: &memorySessions{},
		Issuer:   issuer,
	})
	ctx.Remote = remote
	ctx.Repo = storage.NewRepository(ctx.Local, remote, ctx.Auth)
	return ctx, out, remote
}

type memoryRemote struct {
	mu      sync.Mutex
	rows    map[string][]models.Client
	nextID  int
	loadErr error
	loaded  bool
}

func newMemoryRemote() *memoryRemote {
	return &memoryRemote{rows: make(map[string][]models.Client)}
}

func (m *memoryRemote) Init() error { return m.Load() }

func (m *memoryRemote) Load() error {
	if m.loadErr != nil {
		return m.loadErr
	}
	m.loaded = true
	return nil
}

func (m *memoryRemote) Close() error          { return nil }
func (m *memoryRemote) GetConfigPath() string { return "memory" }

func (m *memoryRemote) Migrate(logFn func(string)) (int, error) {
	return 0, nil
}

func (m *memoryRemote) ListClients(_ context.Context, owner string) ([]models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Client, 0, len(m.rows[owner]))
	for _, c := range m.rows[owner] {
		c.Persistence = models.RemotePersisted
		out = append(out, c.Clone())
	}
	return out, nil
}

func (m *memoryRemote) SaveClient(_ context.Context, owner string, c *models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.Persistence == models.RemotePersisted {
		for i, existing := range m.rows[owner] {
			if existing.ID == c.ID {
				m.rows[owner][i] = c.Clone()
				return nil
			}
		}
		return storage.ErrNotFound
	}
	m.nextID++
	c.ID = "remote-" + strconv.Itoa(m.nextID)
	c.Persistence = models.RemotePersisted
	m.rows[owner] = append(m.rows[owner], c.Clone())
	return nil
}

func (m *memoryRemote) DeleteClient(_ context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.rows[owner]
	for i, c := range rows {
		if c.ID == id {
			m.rows[owner] = append(rows[:i:i], rows[i+1:]...)
			return nil
		}
	}
	return nil
}

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]auth.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]auth.User)}
}

func (m *memoryUsers) CreateUser(_ context.Context, email, hash string, confirmed bool) (auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[email]; ok {
		return auth.User{}, auth.ErrUserExists
	}
	u := auth.User{
		ID:           "user-" + strconv.Itoa(len(m.users)+1),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    testNow,
	}
	if confirmed {
		at := testNow
		u.ConfirmedAt = &at
	}
	m.users[email] = u
	return u, nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return u, nil
}

func (m *memoryUsers) ConfirmUser(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return auth.ErrUserNotFound
	}
	at := testNow
	u.ConfirmedAt = &at
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

func strPtr(s string) *string {
	return &s
}

// addClient creates a client through the add command and returns its id.
func addClient(t *testing.T, ctx *Context, name string) string {
	t.Helper()
	cmd := &ClientAddCmd{Name: name, Email: "hello@" + name + ".test"}
	if err := cmd.Validate(); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("client add failed: %v", err)
	}
	clients, err := ctx.Repo.ListClients(ctx.context())
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range clients {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("client %s not saved", name)
	return ""
}
