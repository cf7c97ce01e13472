// internal/ledger/arena_test.go
package ledger

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrolink/agrolink-backend/internal/models"
)

func TestArenaUnknownListing(t *testing.T) {
	a := NewArena()

	err := a.Do(uuid.New(), func(*models.ProductListing) error { return nil })

	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestArenaNoDoubleSpend(t *testing.T) {
	// Two proposals whose combined quantity exceeds availability: exactly
	// one reservation may win, regardless of interleaving.
	a := NewArena()
	l := newListing(t, 100)
	a.Put(l)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = a.Do(l.ID, func(l *models.ProductListing) error {
				return Reserve(l, dec(60))
			})
		}(i)
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrInsufficientAvailable)
			failures++
		}
	}
	assert.Equal(t, 1, failures)

	snap, err := a.Snapshot(l.ID)
	require.NoError(t, err)
	assert.True(t, snap.ReservedQty.Equal(dec(60)))
	assert.True(t, snap.AvailableQty.Equal(dec(40)))
	assert.NoError(t, CheckInvariant(&snap))
}

func TestArenaConcurrentReservationsNeverBreakInvariant(t *testing.T) {
	a := NewArena()
	l := newListing(t, 1000)
	a.Put(l)

	var wg sync.WaitGroup
	var won int64
	var mu sync.Mutex
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := a.Do(l.ID, func(l *models.ProductListing) error {
				if err := Reserve(l, dec(30)); err != nil {
					return err
				}
				return CheckInvariant(l)
			})
			if err == nil {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// 1000 / 30 = 33 reservations fit.
	assert.EqualValues(t, 33, won)

	snap, err := a.Snapshot(l.ID)
	require.NoError(t, err)
	assert.True(t, snap.ReservedQty.Equal(dec(990)))
	assert.NoError(t, CheckInvariant(&snap))
}

func TestArenaIndependentListingsDoNotInterfere(t *testing.T) {
	a := NewArena()
	first := newListing(t, 50)
	second := newListing(t, 50)
	a.Put(first)
	a.Put(second)

	require.NoError(t, a.Do(first.ID, func(l *models.ProductListing) error {
		return Reserve(l, dec(50))
	}))

	// Exhausting the first listing leaves the second untouched.
	require.NoError(t, a.Do(second.ID, func(l *models.ProductListing) error {
		return Reserve(l, dec(50))
	}))

	snap, err := a.Snapshot(second.ID)
	require.NoError(t, err)
	assert.True(t, snap.AvailableQty.IsZero())
	assert.True(t, snap.ReservedQty.Equal(dec(50)))
}
