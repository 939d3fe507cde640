package storage

import (
	"context"

	"github.com/julianstephens/clientmgr/internal/logger"
	"github.com/julianstephens/clientmgr/internal/models"
)

// IdentityResolver reports the signed-in user. An empty identity with a nil
// error means nobody is signed in.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context) (string, error)
}

// Repository routes client operations to the remote store when a user is
// signed in and to the local store otherwise. The choice is made once per call.
type Repository struct {
	local    *LocalStore
	remote   ClientStore
	identity IdentityResolver
}

// NewRepository wires the stores together. remote may be nil when no remote
// database is configured, in which case every call uses the local store.
func NewRepository(local *LocalStore, remote ClientStore, identity IdentityResolver) *Repository {
	return &Repository{
		local:    local,
		remote:   remote,
		identity: identity,
	}
}

// target picks the store for this call. owner is empty for the local store.
func (r *Repository) target(ctx context.Context) (ClientStore, string, error) {
	if r.remote == nil || r.identity == nil {
		return r.local, "", nil
	}
	owner, err := r.identity.ResolveIdentity(ctx)
	if err != nil {
		return nil, "", err
	}
	if owner == "" {
		return r.local, "", nil
	}
	return r.remote, owner, nil
}

// ListClients returns the caller's clients. Remote failures fall back to the
// local list, which may be stale. The only error returned is a failure to
// resolve the identity.
func (r *Repository) ListClients(ctx context.Context) ([]models.Client, error) {
	store, owner, err := r.target(ctx)
	if err != nil {
		return nil, err
	}

	if owner != "" {
		clients, err := store.ListClients(ctx, owner)
		if err == nil {
			if clients == nil {
				clients = []models.Client{}
			}
			return clients, nil
		}
		logger.Warn("Remote client list failed, using local data", "owner", owner, "error", err)
	}

	clients, err := r.local.ListClients(ctx, "")
	if err != nil {
		logger.Warn("Local client list failed", "error", err)
		return []models.Client{}, nil
	}
	return clients, nil
}

// GetClient returns one client by id from the current list.
func (r *Repository) GetClient(ctx context.Context, id string) (models.Client, error) {
	clients, err := r.ListClients(ctx)
	if err != nil {
		return models.Client{}, err
	}
	for _, c := range clients {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Client{}, ErrNotFound
}

// SaveClient inserts or replaces c. Any assigned id is written back to c.
func (r *Repository) SaveClient(ctx context.Context, c *models.Client) error {
	store, owner, err := r.target(ctx)
	if err != nil {
		return err
	}

	if err := store.SaveClient(ctx, owner, c); err != nil {
		logger.Error("Failed to save client", "id", c.ID, "name", c.Name, "remote", owner != "", "error", err)
		return err
	}
	logger.Debug("Saved client", "id", c.ID, "persistence", c.Persistence.String())
	return nil
}

// DeleteClient removes the client with the given id. Store failures are
// logged and not returned, so callers cannot tell a failed delete apart from
// a successful one.
func (r *Repository) DeleteClient(ctx context.Context, id string) error {
	store, owner, err := r.target(ctx)
	if err != nil {
		return err
	}

	if err := store.DeleteClient(ctx, owner, id); err != nil {
		logger.Error("Failed to delete client", "id", id, "remote", owner != "", "error", err)
	}
	return nil
}

// InitializeSampleData copies the local list into the remote store when a
// user is signed in and their remote list is empty. It returns how many
// records were copied.
//
// Nothing guards against a partial copy: running it again after a failure
// part way through can insert duplicates.
func (r *Repository) InitializeSampleData(ctx context.Context) (int, error) {
	_, owner, err := r.target(ctx)
	if err != nil {
		return 0, err
	}
	if owner == "" {
		return 0, nil
	}

	existing, err := r.ListClients(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	local, err := r.local.ListClients(ctx, "")
	if err != nil {
		return 0, err
	}

	copied := 0
	for _, c := range local {
		c = c.Clone()
		c.Persistence = models.Unsaved
		if err := r.SaveClient(ctx, &c); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}
