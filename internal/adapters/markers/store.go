// Package markers implements the persisted completion-marker store.
package markers

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/dirigent/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.MarkerStore = (*Store)(nil)

// DefaultPath is the marker file used when none is configured.
const DefaultPath = ".dirigent/markers.json"

// Store implements ports.MarkerStore using a flat JSON file, loaded once and
// rewritten on every Put so an interrupted run loses at most the in-progress
// marker.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.PhaseMarker
}

// NewStore creates a Store backed by the file at path.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.PhaseMarker),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read marker store")
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.Wrap(err, "failed to unmarshal marker store")
	}
	return nil
}

func (s *Store) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal marker store")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for marker store")
	}

	// Write-then-rename so an interrupted save never truncates the store.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temp file for marker store")
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, "failed to write marker store")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, "failed to write marker store")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, "failed to replace marker store")
	}
	return nil
}

// Get retrieves the marker for a (target, architecture, phase) triple.
func (s *Store) Get(target string, arch domain.Architecture, phase domain.Phase) (*domain.PhaseMarker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	marker, ok := s.cache[domain.MarkerKey(target, arch, phase)]
	if !ok {
		return nil, nil
	}
	return &marker, nil
}

// Put stores the marker and persists the store.
func (s *Store) Put(marker domain.PhaseMarker) error {
	s.mu.Lock()
	s.cache[marker.Key()] = marker
	s.mu.Unlock()

	return s.save()
}

// Delete removes every marker belonging to the given target instance.
func (s *Store) Delete(target string, arch domain.Architecture) error {
	prefix := target + "@" + arch.String() + "/"

	s.mu.Lock()
	for key := range s.cache {
		if strings.HasPrefix(key, prefix) {
			delete(s.cache, key)
		}
	}
	s.mu.Unlock()

	return s.save()
}
