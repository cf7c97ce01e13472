// internal/ledger/arena.go
package ledger

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/agrolink/agrolink-backend/internal/models"
)

var ErrListingNotFound = errors.New("listing not found")

// Arena is an in-memory collection of listings with single-writer-per-key
// discipline: every mutation of a listing's quantities runs under that
// listing's lock, so concurrent proposals against the same listing
// serialize and the four-quantity invariant holds for every observer.
// Operations on different listings proceed in parallel.
type Arena struct {
	mu       sync.RWMutex
	listings map[uuid.UUID]*arenaEntry
}

type arenaEntry struct {
	mu      sync.Mutex
	listing *models.ProductListing
}

func NewArena() *Arena {
	return &Arena{listings: make(map[uuid.UUID]*arenaEntry)}
}

// Put registers a listing. The arena owns the value from here on.
func (a *Arena) Put(l *models.ProductListing) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listings[l.ID] = &arenaEntry{listing: l}
}

// Do runs fn with exclusive access to the listing. If fn returns an
// error the listing keeps whatever state fn left it in; ledger
// transitions guarantee that is the pre-call state.
func (a *Arena) Do(id uuid.UUID, fn func(*models.ProductListing) error) error {
	a.mu.RLock()
	entry, ok := a.listings[id]
	a.mu.RUnlock()
	if !ok {
		return ErrListingNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.listing)
}

// Snapshot returns a copy of the listing's current state.
func (a *Arena) Snapshot(id uuid.UUID) (models.ProductListing, error) {
	var snap models.ProductListing
	err := a.Do(id, func(l *models.ProductListing) error {
		snap = *l
		return nil
	})
	return snap, err
}
