package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/clientmgr/internal/constants"
	"github.com/julianstephens/clientmgr/internal/models"
)

var _ ClientStore = (*LocalStore)(nil)

// LocalStore keeps the whole client list as one JSON array in a single slot,
// using the application field names. It serves the signed-out user.
type LocalStore struct {
	slot Slot
	key  string
	now  func() time.Time
}

func NewLocalStore(slot Slot) *LocalStore {
	return &LocalStore{
		slot: slot,
		key:  constants.LocalStorageKey,
		now:  time.Now,
	}
}

// Slot returns the backend holding the list.
func (s *LocalStore) Slot() Slot {
	return s.slot
}

func (s *LocalStore) read(ctx context.Context) ([]models.Client, error) {
	data, ok, err := s.slot.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read local clients: %w", err)
	}

	clients := []models.Client{}
	if !ok || len(data) == 0 {
		return clients, nil
	}
	if err := json.Unmarshal(data, &clients); err != nil {
		return nil, fmt.Errorf("failed to parse local clients: %w", err)
	}
	if clients == nil {
		clients = []models.Client{}
	}
	for i := range clients {
		clients[i].Persistence = models.LocalOnly
	}
	return clients, nil
}

func (s *LocalStore) write(ctx context.Context, clients []models.Client) error {
	if clients == nil {
		clients = []models.Client{}
	}
	data, err := json.Marshal(clients)
	if err != nil {
		return fmt.Errorf("failed to serialize local clients: %w", err)
	}
	if err := s.slot.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to write local clients: %w", err)
	}
	return nil
}

// ListClients returns the stored list, or an empty list when nothing is stored.
func (s *LocalStore) ListClients(ctx context.Context, _ string) ([]models.Client, error) {
	return s.read(ctx)
}

// SaveClient replaces the record with the same id, or appends the client
// under a fresh timestamp id. The assigned id is written back to c.
func (s *LocalStore) SaveClient(ctx context.Context, _ string, c *models.Client) error {
	clients, err := s.read(ctx)
	if err != nil {
		return err
	}

	c.Normalize()
	idx := -1
	if c.ID != "" {
		for i := range clients {
			if clients[i].ID == c.ID {
				idx = i
				break
			}
		}
	}

	if idx >= 0 {
		clients[idx] = *c
	} else {
		c.ID = models.NextTimestampID(s.now(), func(id string) bool {
			for _, existing := range clients {
				if existing.ID == id {
					return true
				}
			}
			return false
		})
		clients = append(clients, *c)
	}

	if err := s.write(ctx, clients); err != nil {
		return err
	}
	c.Persistence = models.LocalOnly
	return nil
}

// DeleteClient removes the record with the given id. Unknown ids are ignored.
func (s *LocalStore) DeleteClient(ctx context.Context, _ string, id string) error {
	clients, err := s.read(ctx)
	if err != nil {
		return err
	}

	kept := clients[:0]
	for _, c := range clients {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(clients) {
		return nil
	}
	return s.write(ctx, kept)
}

// SeedSampleData writes the sample clients when the list is empty and
// returns how many were written.
func (s *LocalStore) SeedSampleData(ctx context.Context) (int, error) {
	clients, err := s.read(ctx)
	if err != nil {
		return 0, err
	}
	if len(clients) > 0 {
		return 0, nil
	}

	samples := SampleClients()
	if err := s.write(ctx, samples); err != nil {
		return 0, err
	}
	return len(samples), nil
}

// SampleClients returns the demonstration records used by seed --local.
func SampleClients() []models.Client {
	return []models.Client{
		{
			ID:         "1",
			Name:       "TechFlow Systems",
			Contact:    "John Smith",
			Email:      "john@techflow.com",
			Phone:      "0771234567",
			PhoneOwner: "John Smith (Direct)",
			Instagram:  "techflow_systems",
			Socials:    "linkedin.com/company/techflow",
			Status:     models.StatusDevelopment,
			Type:       models.DefaultClientType,
			Price:      750000,
			Recurring:  15000,
			Domain:     "techflow.io",
			Niche:      "SaaS",
			Date:       "2024-02-10",
		},
		{
			ID:         "2",
			Name:       "Oceanic Resorts",
			Contact:    "Sarah Wilson",
			Email:      "sarah@oceanic.com",
			Phone:      "0719876543",
			PhoneOwner: "Manager Office",
			Instagram:  "oceanic_resorts_lk",
			Socials:    "facebook.com/oceaniclk",
			Status:     models.StatusLive,
			Type:       "Maintenance",
			Price:      450000,
			Recurring:  25000,
			Domain:     "oceanic-resorts.com",
			Niche:      "Travel",
			Date:       "2024-01-15",
		},
	}
}
