package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"slimSquadAPI/internal/types/challenge"
	"slimSquadAPI/internal/types/entry"
	"slimSquadAPI/internal/types/user"
	"slimSquadAPI/pkg/utilities"
)

// Database is the whole persisted document: four flat collections.
// Entries belong to a challenge implicitly, by date-interval containment.
type Database struct {
	Users      []user.User           `json:"users"`
	Challenges []challenge.Challenge `json:"challenges"`
	Targets    []challenge.Target    `json:"targets"`
	Entries    []entry.Entry         `json:"entries"`
}

// Clone returns a deep copy the caller may mutate freely.
func (d *Database) Clone() *Database {
	out := &Database{
		Users:      make([]user.User, len(d.Users)),
		Challenges: make([]challenge.Challenge, len(d.Challenges)),
		Targets:    make([]challenge.Target, len(d.Targets)),
		Entries:    make([]entry.Entry, len(d.Entries)),
	}
	for i := range d.Users {
		out.Users[i] = d.Users[i].Clone()
	}
	for i := range d.Challenges {
		out.Challenges[i] = d.Challenges[i].Clone()
	}
	for i := range d.Targets {
		out.Targets[i] = d.Targets[i].Clone()
	}
	for i := range d.Entries {
		out.Entries[i] = d.Entries[i].Clone()
	}
	return out
}

// Store owns the JSON document on disk. Every Update is serialized
// through writeMu: an update's read phase always observes the previous
// update's completed write, so concurrent mutations cannot be lost.
// The unit of atomicity is the whole document.
//
// There is deliberately no crash atomicity: a kill mid-write can corrupt
// the file. Acceptable at this system's scale; a corrupt file fails hard
// on the next read and must be repaired by hand.
type Store struct {
	path string

	writeMu sync.Mutex

	cacheMu sync.RWMutex
	cache   *Database
}

// Open loads the document at path, seeding and persisting the default
// template when no file exists yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		seed, err := defaultDatabase()
		if err != nil {
			return nil, fmt.Errorf("failed to build seed database: %w", err)
		}
		if err := s.writeToDisk(seed); err != nil {
			return nil, fmt.Errorf("failed to persist seed database: %w", err)
		}
		utilities.Log.Infow("seeded new database", "path", path)
	}

	db, err := s.loadFromDisk()
	if err != nil {
		return nil, err
	}
	s.cache = db
	return s, nil
}

// Read returns a deep, independent snapshot of the last-known-good
// document. A Read issued after an Update returns sees that update.
func (s *Store) Read(ctx context.Context) (*Database, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.cacheMu.RLock()
	cached := s.cache
	s.cacheMu.RUnlock()

	if cached != nil {
		return cached.Clone(), nil
	}

	db, err := s.loadFromDisk()
	if err != nil {
		return nil, err
	}
	s.swapCache(db)
	return db.Clone(), nil
}

// Update runs mutate against a draft of the document and persists the
// result before returning. Calls are strictly serialized. The read phase
// re-reads the file so an edit made by another process is not clobbered,
// and the cache is swapped only after the write to disk succeeds. A
// mutate error aborts the transaction with nothing persisted.
func (s *Store) Update(ctx context.Context, mutate func(db *Database) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	fresh, err := s.loadFromDisk()
	if err != nil {
		return err
	}
	s.swapCache(fresh)

	draft := fresh.Clone()
	if err := mutate(draft); err != nil {
		return err
	}

	if err := s.writeToDisk(draft); err != nil {
		return err
	}
	s.swapCache(draft)
	return nil
}

// Close drops the cached snapshot. The store holds no file handles
// between operations, so there is nothing else to release.
func (s *Store) Close() {
	s.cacheMu.Lock()
	s.cache = nil
	s.cacheMu.Unlock()
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) swapCache(db *Database) {
	s.cacheMu.Lock()
	s.cache = db
	s.cacheMu.Unlock()
}

func (s *Store) loadFromDisk() (*Database, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read database file: %w", err)
	}
	db := &Database{}
	if err := json.Unmarshal(raw, db); err != nil {
		return nil, fmt.Errorf("failed to parse database file: %w", err)
	}
	return db, nil
}

func (s *Store) writeToDisk(db *Database) error {
	raw, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode database: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write database file: %w", err)
	}
	return nil
}
