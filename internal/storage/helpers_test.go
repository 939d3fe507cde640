package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/julianstephens/clientmgr/internal/models"
)

func newTestLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	slot := NewFileSlot(filepath.Join(t.TempDir(), "clientmgr.json"))
	if err := slot.Init(); err != nil {
		t.Fatalf("failed to init slot: %v", err)
	}
	return NewLocalStore(slot)
}

// memoryRemote is an in-memory ClientStore that mimics the remote table.
type memoryRemote struct {
	rows    map[string][]models.Client
	nextID  int
	listErr error
	saveErr error
	delErr  error
	saves   int
}

func newMemoryRemote() *memoryRemote {
	return &memoryRemote{rows: make(map[string][]models.Client)}
}

func (m *memoryRemote) ListClients(_ context.Context, owner string) ([]models.Client, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.Client, 0, len(m.rows[owner]))
	for _, c := range m.rows[owner] {
		c.Persistence = models.RemotePersisted
		out = append(out, c)
	}
	return out, nil
}

func (m *memoryRemote) SaveClient(_ context.Context, owner string, c *models.Client) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	if c.Persistence == models.RemotePersisted {
		for i, existing := range m.rows[owner] {
			if existing.ID == c.ID {
				m.rows[owner][i] = *c
				return nil
			}
		}
		return ErrNotFound
	}
	m.nextID++
	c.ID = "remote-" + strconv.Itoa(m.nextID)
	c.Persistence = models.RemotePersisted
	m.rows[owner] = append(m.rows[owner], *c)
	return nil
}

func (m *memoryRemote) DeleteClient(_ context.Context, owner, id string) error {
	if m.delErr != nil {
		return m.delErr
	}
	rows := m.rows[owner][:0]
	for _, c := range m.rows[owner] {
		if c.ID != id {
			rows = append(rows, c)
		}
	}
	m.rows[owner] = rows
	return nil
}

type staticIdentity struct {
	id  string
	err error
}

func (s staticIdentity) ResolveIdentity(context.Context) (string, error) {
	return s.id, s.err
}

var errBoom = errors.New("boom")
