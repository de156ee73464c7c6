// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. The app depends
// only on these interfaces, never on concrete implementations.
package ports

import (
	"github.com/corey/califica/internal/domain/ratings"
	"github.com/corey/califica/internal/domain/requests"
)

// Storage persists the ratings store, the course request queue and the theme
// preference under independent versioned keys.
//
// Crash safety: every Save must be transactional. A crash mid-write must not
// corrupt previously committed data.
type Storage interface {
	// LoadStore returns the persisted ratings store exactly as stored.
	// Returns nil, nil if nothing has been saved yet.
	LoadStore() (*ratings.Store, error)

	// SaveStore overwrites the persisted ratings store.
	SaveStore(store *ratings.Store) error

	// LoadRequests returns the persisted request queue.
	// Returns nil, nil if nothing has been saved yet.
	LoadRequests() (requests.List, error)

	// SaveRequests overwrites the persisted request queue.
	SaveRequests(list requests.List) error

	// SaveState writes the store and the request queue in one transaction.
	// Either both are replaced or neither is.
	SaveState(store *ratings.Store, list requests.List) error

	// LoadTheme returns the stored theme, or "" if none.
	LoadTheme() (string, error)

	// SaveTheme stores the theme preference.
	SaveTheme(theme string) error

	// Wipe removes all persisted data. Idempotent.
	Wipe() error

	// Close releases the underlying database.
	Close() error
}
