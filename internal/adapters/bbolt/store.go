// Package bbolt implements the ports.Storage interface using bbolt (embedded B+ tree).
// All data lives in a single "califica" bucket under versioned keys, so a
// schema change never silently reads an older layout. Writes are
// transactional: a crash mid-write cannot corrupt previously committed data.
package bbolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/corey/califica/internal/domain/ratings"
	"github.com/corey/califica/internal/domain/requests"
	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var (
	bucketData  = []byte("califica")
	keyRatings  = []byte("ratings-v10")
	keyRequests = []byte("requests-v10")
	keyTheme    = []byte("theme-v10")
)

// Store implements ports.Storage backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.db.Path()
}

// LoadStore returns the stored ratings, or nil, nil when none are saved.
// The stored document is decoded leniently; normalisation is the caller's job.
func (s *Store) LoadStore() (*ratings.Store, error) {
	data, err := s.get(keyRatings)
	if err != nil || data == nil {
		return nil, err
	}
	return ratings.DecodeStore(data), nil
}

// SaveStore overwrites the stored ratings.
func (s *Store) SaveStore(store *ratings.Store) error {
	data, err := marshalStore(store)
	if err != nil {
		return err
	}
	return s.put(map[string][]byte{string(keyRatings): data})
}

// LoadRequests returns the stored request queue, or nil, nil when none is
// saved.
func (s *Store) LoadRequests() (requests.List, error) {
	data, err := s.get(keyRequests)
	if err != nil || data == nil {
		return nil, err
	}
	return requests.Decode(data), nil
}

// SaveRequests overwrites the stored request queue.
func (s *Store) SaveRequests(list requests.List) error {
	data, err := marshalRequests(list)
	if err != nil {
		return err
	}
	return s.put(map[string][]byte{string(keyRequests): data})
}

// SaveState writes ratings and requests in a single transaction.
func (s *Store) SaveState(store *ratings.Store, list requests.List) error {
	storeJSON, err := marshalStore(store)
	if err != nil {
		return err
	}
	reqJSON, err := marshalRequests(list)
	if err != nil {
		return err
	}
	return s.put(map[string][]byte{
		string(keyRatings):  storeJSON,
		string(keyRequests): reqJSON,
	})
}

// LoadTheme returns the stored theme, or "" when unset.
func (s *Store) LoadTheme() (string, error) {
	data, err := s.get(keyTheme)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SaveTheme stores the theme preference.
func (s *Store) SaveTheme(theme string) error {
	return s.put(map[string][]byte{string(keyTheme): []byte(theme)})
}

// Wipe removes all persisted data.
// Idempotent: wiping an empty database is not an error.
func (s *Store) Wipe() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketData); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		return nil
	})
}

func marshalStore(store *ratings.Store) ([]byte, error) {
	if store == nil {
		return nil, fmt.Errorf("nil store")
	}
	data, err := json.Marshal(store)
	if err != nil {
		return nil, fmt.Errorf("marshal store: %w", err)
	}
	return data, nil
}

func marshalRequests(list requests.List) ([]byte, error) {
	if list == nil {
		list = requests.List{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("marshal requests: %w", err)
	}
	return data, nil
}

// get copies a value out of the data bucket. Returns nil if absent.
func (s *Store) get(key []byte) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketData)
		if b == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := b.Get(key); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// put writes every key in one transaction.
func (s *Store) put(values map[string][]byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketData)
		if err != nil {
			return err
		}
		for k, v := range values {
			if err := b.Put([]byte(k), v); err != nil {
				return err
			}
		}
		return nil
	})
}
