package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"
)

// rootKey is the single key under which the whole document lives.
var rootKey = []byte("root")

// Store owns the persisted document. It is the only component allowed
// to mutate collections: every domain operation is expressed as one
// Mutate call, and the read-check-write sequence for an invariant must
// happen inside that one call.
type Store struct {
	db *badger.DB

	mu      sync.Mutex
	current Root
}

// Open opens (or creates) the document store in dir. An empty dir opens
// an in-memory store, which is what tests use. A missing or unreadable
// snapshot is replaced by the seeded default.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	s := &Store{db: db}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Read returns the current snapshot. The copy is collection-deep, so
// callers may inspect it freely but their view never changes underneath
// them and never leaks edits back into the store.
func (s *Store) Read() Root {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Mutate applies fn to the latest snapshot and installs the result as
// the new document. fn gets its own copy and must return the complete
// next document; if it returns an error nothing is persisted, so every
// operation is all-or-nothing. The store mutex makes the whole
// read-check-write sequence indivisible across goroutines.
func (s *Store) Mutate(fn func(Root) (Root, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.current.Clone())
	if err != nil {
		return err
	}
	next = normalize(next)
	if err := s.persist(next); err != nil {
		return err
	}
	s.current = next
	return nil
}

func (s *Store) load() error {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(rootKey)
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		s.current = seedRoot()
		log.Info().Msg("empty store, seeding default circle")
		return s.persist(s.current)
	}
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	var root Root
	if err := json.Unmarshal(raw, &root); err != nil {
		log.Warn().Err(err).Msg("snapshot unreadable, reseeding")
		s.current = seedRoot()
		return s.persist(s.current)
	}

	s.current = normalize(root)
	return nil
}

func (s *Store) persist(root Root) error {
	raw, err := json.Marshal(root)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(rootKey, raw)
	})
	if err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	return nil
}

// normalize guarantees the map collections are non-nil so mutators can
// index into them without guarding.
func normalize(r Root) Root {
	if r.Users == nil {
		r.Users = map[string]User{}
	}
	if r.Groups == nil {
		r.Groups = map[string]Group{}
	}
	if r.Session.LastAlertAt == nil {
		r.Session.LastAlertAt = map[string]time.Time{}
	}
	return r
}
