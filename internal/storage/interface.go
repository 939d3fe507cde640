package storage

import (
	"context"
	"errors"

	"github.com/julianstephens/clientmgr/internal/models"
)

var (
	// ErrNotFound is returned when a client does not exist for the caller.
	ErrNotFound = errors.New("client not found")
	// ErrNotLoaded is returned when a backend is used before Init or Load.
	ErrNotLoaded = errors.New("storage not loaded")
)

// Backend is the lifecycle shared by every storage backend.
type Backend interface {
	Init() error
	Load() error
	Close() error
	GetConfigPath() string
}

// ClientStore persists whole client records for one owner.
// The local store ignores the owner.
type ClientStore interface {
	ListClients(ctx context.Context, owner string) ([]models.Client, error)
	SaveClient(ctx context.Context, owner string, c *models.Client) error
	DeleteClient(ctx context.Context, owner, id string) error
}

// Slot is a small key-value store holding opaque values.
type Slot interface {
	Backend
	// Get returns the value stored under key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}
