// Package garden stores saved words.
//
// A garden is the user's collection of traced words: each [Entry] keeps
// the word, its language, the visualization mode it was saved under, and
// free-form notes. The [Store] interface has four backends:
//
//   - memory: throwaway store for tests and ephemeral servers
//   - file: one YAML file under the user config directory (CLI default)
//   - redis: session-scoped entries with a TTL, for shared deployments
//   - sqlite: durable single-file database
//
// All backends order [Store.List] newest first and agree on ErrNotFound
// for missing ids, so callers can swap backends through configuration
// alone.
package garden

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mhuisman/etymon/pkg/errors"
)

// ErrNotFound is returned when no entry exists for an id.
var ErrNotFound = errors.New(errors.ErrCodeEntryNotFound, "garden entry not found")

// Entry is one saved word.
type Entry struct {
	ID       string    `json:"id" yaml:"id"`
	Word     string    `json:"word" yaml:"word"`
	Language string    `json:"language,omitempty" yaml:"language,omitempty"`
	Mode     string    `json:"mode,omitempty" yaml:"mode,omitempty"`
	Notes    string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	SavedAt  time.Time `json:"saved_at" yaml:"saved_at"`
}

// NewEntry creates an Entry with a fresh id and the current time.
func NewEntry(word, language, mode, notes string) Entry {
	return Entry{
		ID:       uuid.NewString(),
		Word:     strings.TrimSpace(word),
		Language: strings.TrimSpace(language),
		Mode:     mode,
		Notes:    notes,
		SavedAt:  time.Now().UTC(),
	}
}

// Valid reports whether the entry can be stored.
func (e Entry) Valid() bool {
	return e.ID != "" && strings.TrimSpace(e.Word) != ""
}

// Store is the saved-word storage interface.
type Store interface {
	// List returns all entries, newest first.
	List(ctx context.Context) ([]Entry, error)

	// Get retrieves an entry by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (Entry, error)

	// Save stores an entry, replacing any entry with the same id.
	Save(ctx context.Context, e Entry) error

	// Delete removes an entry. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// sortEntries orders newest first, breaking ties by word for stability.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].SavedAt.Equal(entries[j].SavedAt) {
			return entries[i].SavedAt.After(entries[j].SavedAt)
		}
		return entries[i].Word < entries[j].Word
	})
}

// validateEntry guards Save across backends.
func validateEntry(e Entry) error {
	if !e.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "garden entry needs an id and a word")
	}
	return nil
}
