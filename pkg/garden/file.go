package garden

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileStore keeps the whole garden in one YAML file, human-editable and
// easy to sync between machines. It is the CLI default backend.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// fileDoc is the on-disk shape: a top-level entries list so the format
// can grow fields without breaking old files.
type fileDoc struct {
	Entries []Entry `yaml:"entries"`
}

// NewFileStore creates a store at path. An empty path means
// ~/.config/etymon/garden.yaml. The parent directory is created; the
// file itself appears on first save.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(dir, "etymon", "garden.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create garden dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) List(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	sortEntries(entries)
	return entries, nil
}

func (s *FileStore) Get(_ context.Context, id string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

func (s *FileStore) Save(_ context.Context, e Entry) error {
	if err := validateEntry(e); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}

	replaced := false
	for i := range entries {
		if entries[i].ID == e.ID {
			entries[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, e)
	}
	return s.store(entries)
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	for i, e := range entries {
		if e.ID == id {
			return s.store(append(entries[:i], entries[i+1:]...))
		}
	}
	return ErrNotFound
}

func (s *FileStore) Close() error { return nil }

// load reads the whole file; a missing file is an empty garden.
func (s *FileStore) load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read garden: %w", err)
	}

	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse garden %s: %w", s.path, err)
	}
	return doc.Entries, nil
}

func (s *FileStore) store(entries []Entry) error {
	sortEntries(entries)
	data, err := yaml.Marshal(fileDoc{Entries: entries})
	if err != nil {
		return fmt.Errorf("encode garden: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write garden: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
