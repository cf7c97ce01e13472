// internal/ledger/ledger_test.go
package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrolink/agrolink-backend/internal/models"
)

func newListing(t *testing.T, available int64) *models.ProductListing {
	t.Helper()
	l := models.NewProductListing(uuid.New(), models.ProductTypeSoybean, models.UnitKg, decimal.NewFromInt(available))
	l.ID = uuid.New()
	return l
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestReserveMovesAvailableToReserved(t *testing.T) {
	l := newListing(t, 100)

	require.NoError(t, Reserve(l, dec(40)))

	assert.True(t, l.AvailableQty.Equal(dec(60)))
	assert.True(t, l.ReservedQty.Equal(dec(40)))
	assert.True(t, l.TotalQty.Equal(dec(100)))
	assert.NoError(t, CheckInvariant(l))
}

func TestReserveInsufficientAvailableLeavesQuantitiesUnchanged(t *testing.T) {
	l := newListing(t, 50)

	err := Reserve(l, dec(60))

	assert.ErrorIs(t, err, ErrInsufficientAvailable)
	assert.True(t, l.AvailableQty.Equal(dec(50)))
	assert.True(t, l.ReservedQty.IsZero())
	assert.NoError(t, CheckInvariant(l))

	var qerr *QuantityError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "reserve", qerr.Op)
	assert.True(t, qerr.Have.Equal(dec(50)))
}

func TestReserveRejectsNonPositiveQuantity(t *testing.T) {
	l := newListing(t, 50)

	assert.ErrorIs(t, Reserve(l, dec(0)), ErrNonPositiveQuantity)
	assert.ErrorIs(t, Reserve(l, dec(-5)), ErrNonPositiveQuantity)
	assert.NoError(t, CheckInvariant(l))
}

func TestCommitRequiresPriorReservation(t *testing.T) {
	l := newListing(t, 100)

	err := Commit(l, dec(10))

	assert.ErrorIs(t, err, ErrInsufficientReserved)
	assert.True(t, l.CommittedQty.IsZero())
	assert.NoError(t, CheckInvariant(l))
}

func TestReleaseRoundTripRestoresExactQuantities(t *testing.T) {
	l := newListing(t, 100)
	qty := decimal.RequireFromString("33.33")

	require.NoError(t, Reserve(l, qty))
	require.NoError(t, Release(l, qty))

	assert.True(t, l.AvailableQty.Equal(dec(100)))
	assert.True(t, l.ReservedQty.IsZero())
	assert.True(t, l.CommittedQty.IsZero())
	assert.True(t, l.TotalQty.Equal(dec(100)))
	assert.NoError(t, CheckInvariant(l))
}

func TestReleaseMoreThanReservedFails(t *testing.T) {
	l := newListing(t, 100)
	require.NoError(t, Reserve(l, dec(20)))

	err := Release(l, dec(30))

	assert.ErrorIs(t, err, ErrInsufficientReserved)
	assert.True(t, l.ReservedQty.Equal(dec(20)))
	assert.NoError(t, CheckInvariant(l))
}

func TestFullLifecycleReserveCommitFinalize(t *testing.T) {
	// Scenario: total=100 kg, contract for the full quantity.
	l := newListing(t, 100)

	require.NoError(t, Reserve(l, dec(100)))
	assert.True(t, l.AvailableQty.IsZero())
	assert.True(t, l.ReservedQty.Equal(dec(100)))

	require.NoError(t, Commit(l, dec(100)))
	assert.True(t, l.ReservedQty.IsZero())
	assert.True(t, l.CommittedQty.Equal(dec(100)))

	require.NoError(t, Finalize(l, dec(100)))
	assert.True(t, l.CommittedQty.IsZero())
	assert.True(t, l.TotalQty.IsZero())
	assert.NoError(t, CheckInvariant(l))
}

func TestFinalizeRequiresCommitment(t *testing.T) {
	l := newListing(t, 100)
	require.NoError(t, Reserve(l, dec(40)))

	err := Finalize(l, dec(40))

	assert.ErrorIs(t, err, ErrInsufficientCommitted)
	assert.NoError(t, CheckInvariant(l))
}

func TestInvariantHoldsAcrossOperationSequences(t *testing.T) {
	steps := []struct {
		name string
		op   func(*models.ProductListing, decimal.Decimal) error
		qty  int64
		ok   bool
	}{
		{"reserve 30", Reserve, 30, true},
		{"reserve 50", Reserve, 50, true},
		{"commit 30", Commit, 30, true},
		{"release 20", Release, 20, true},
		{"release 40", Release, 40, false},
		{"finalize 30", Finalize, 30, true},
		{"reserve 999", Reserve, 999, false},
	}

	l := newListing(t, 100)
	for _, step := range steps {
		err := step.op(l, dec(step.qty))
		if step.ok {
			assert.NoError(t, err, step.name)
		} else {
			assert.Error(t, err, step.name)
		}
		assert.NoError(t, CheckInvariant(l), step.name)
	}
}

func TestCheckInvariantDetectsCorruption(t *testing.T) {
	l := newListing(t, 100)
	l.ReservedQty = dec(10) // not taken from available

	assert.Error(t, CheckInvariant(l))

	l = newListing(t, 100)
	l.AvailableQty = dec(-1)
	l.ReservedQty = dec(101)
	assert.Error(t, CheckInvariant(l))
}
