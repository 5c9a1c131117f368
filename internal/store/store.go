// Package store persists per-thread conversation history as a JSON file.
// The file maps thread key to an ordered list of entries; entry order within
// a thread is significant and must survive a save/load round trip.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/avnerk/gembot/internal/models"
)

// ErrState marks state I/O failures so callers can distinguish them with
// errors.Is.
var ErrState = errors.New("state i/o error")

// ThreadStore is the in-memory conversation state for one run. It is owned
// exclusively by the single process; the design assumes a single-instance
// deployment (two concurrent instances against the same file are unsafe,
// last writer wins).
type ThreadStore struct {
	path    string
	threads map[string][]models.ThreadEntry
}

// Load reads the store file at path. A missing file, or any read or decode
// error, degrades to an empty store: conversation state is best-effort and a
// corrupt file must never fail the run.
func Load(path string) *ThreadStore {
	s := &ThreadStore{
		path:    path,
		threads: make(map[string][]models.ThreadEntry),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Error loading threads from %s: %v", path, err)
		}
		return s
	}

	if err := json.Unmarshal(data, &s.threads); err != nil {
		log.Printf("Error decoding threads from %s: %v", path, err)
		s.threads = make(map[string][]models.ThreadEntry)
	}
	if s.threads == nil {
		s.threads = make(map[string][]models.ThreadEntry)
	}

	return s
}

// Save writes the store back to its file as indented UTF-8 JSON.
func (s *ThreadStore) Save() error {
	data, err := json.MarshalIndent(s.threads, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to encode threads: %v", ErrState, err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", ErrState, s.path, err)
	}

	return nil
}

// Thread returns the entries for the given thread key, in append order.
// The returned slice is the store's own; callers must not reorder it.
func (s *ThreadStore) Thread(key string) []models.ThreadEntry {
	return s.threads[key]
}

// Append adds one entry to the thread identified by key, creating the thread
// if this is the first entry referencing that key.
func (s *ThreadStore) Append(key string, entry models.ThreadEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("cannot append to thread %s: %w", key, err)
	}
	s.threads[key] = append(s.threads[key], entry)
	return nil
}

// Len returns the number of threads in the store.
func (s *ThreadStore) Len() int {
	return len(s.threads)
}
