package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var _ Slot = (*FileSlot)(nil)

type slotFile struct {
	Version int                        `json:"version"`
	Slots   map[string]json.RawMessage `json:"slots"`
}

// FileSlot keeps every slot in a single JSON document on disk.
// Slot values must themselves be valid JSON.
type FileSlot struct {
	path string

	mu   sync.Mutex
	file *slotFile
}

func NewFileSlot(path string) *FileSlot {
	return &FileSlot{
		path: path,
	}
}

func (s *FileSlot) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.file = &slotFile{
		Version: 1,
		Slots:   make(map[string]json.RawMessage),
	}
	return s.save()
}

func (s *FileSlot) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'clientmgr init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	file := &slotFile{}
	if err := json.Unmarshal(data, file); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if file.Slots == nil {
		file.Slots = make(map[string]json.RawMessage)
	}

	s.mu.Lock()
	s.file = file
	s.mu.Unlock()
	return nil
}

func (s *FileSlot) Close() error {
	return nil
}

func (s *FileSlot) GetConfigPath() string {
	return s.path
}

func (s *FileSlot) save() error {
	data, err := json.MarshalIndent(s.file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *FileSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil, false, ErrNotLoaded
	}

	v, ok := s.file.Slots[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *FileSlot) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !json.Valid(value) {
		return fmt.Errorf("value for slot %q is not valid JSON", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return ErrNotLoaded
	}
	prev, had := s.file.Slots[key]
	s.file.Slots[key] = append(json.RawMessage(nil), value...)
	if err := s.save(); err != nil {
		if had {
			s.file.Slots[key] = prev
		} else {
			delete(s.file.Slots, key)
		}
		return err
	}
	return nil
}
