// internal/ledger/ledger.go
//
// Package ledger owns the four-quantity accounting of a product
// listing: total = available + reserved + committed, all non-negative.
// Each transition validates its precondition before touching any
// field, so a failed call leaves the listing exactly as it was. The
// functions are pure with respect to everything but the listing passed
// in; callers serialize access per listing (row lock in the database
// path, per-key mutex in the Arena).
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/agrolink/agrolink-backend/internal/models"
)

// Reserve moves qty from available to reserved, earmarking it for a
// pending contract proposal.
func Reserve(l *models.ProductListing, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return quantityErr("reserve", qty, l.AvailableQty, ErrNonPositiveQuantity)
	}
	if qty.GreaterThan(l.AvailableQty) {
		return quantityErr("reserve", qty, l.AvailableQty, ErrInsufficientAvailable)
	}
	l.AvailableQty = l.AvailableQty.Sub(qty)
	l.ReservedQty = l.ReservedQty.Add(qty)
	return nil
}

// Commit moves qty from reserved to committed when a pending contract
// is accepted.
func Commit(l *models.ProductListing, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return quantityErr("commit", qty, l.ReservedQty, ErrNonPositiveQuantity)
	}
	if qty.GreaterThan(l.ReservedQty) {
		return quantityErr("commit", qty, l.ReservedQty, ErrInsufficientReserved)
	}
	l.ReservedQty = l.ReservedQty.Sub(qty)
	l.CommittedQty = l.CommittedQty.Add(qty)
	return nil
}

// Release moves qty from reserved back to available when a pending
// contract is rejected or cancelled.
func Release(l *models.ProductListing, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return quantityErr("release", qty, l.ReservedQty, ErrNonPositiveQuantity)
	}
	if qty.GreaterThan(l.ReservedQty) {
		return quantityErr("release", qty, l.ReservedQty, ErrInsufficientReserved)
	}
	l.ReservedQty = l.ReservedQty.Sub(qty)
	l.AvailableQty = l.AvailableQty.Add(qty)
	return nil
}

// Finalize removes qty from committed and from total once an active
// contract completes; the traded goods leave the farmer's book.
func Finalize(l *models.ProductListing, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return quantityErr("finalize", qty, l.CommittedQty, ErrNonPositiveQuantity)
	}
	if qty.GreaterThan(l.CommittedQty) {
		return quantityErr("finalize", qty, l.CommittedQty, ErrInsufficientCommitted)
	}
	l.CommittedQty = l.CommittedQty.Sub(qty)
	l.TotalQty = l.TotalQty.Sub(qty)
	return nil
}

// CheckInvariant verifies the four-quantity invariant on a listing.
func CheckInvariant(l *models.ProductListing) error {
	for _, q := range []struct {
		name string
		val  decimal.Decimal
	}{
		{"total", l.TotalQty},
		{"available", l.AvailableQty},
		{"reserved", l.ReservedQty},
		{"committed", l.CommittedQty},
	} {
		if q.val.IsNegative() {
			return fmt.Errorf("listing %s: %s_qty is negative (%s)", l.ID, q.name, q.val)
		}
	}
	sum := l.AvailableQty.Add(l.ReservedQty).Add(l.CommittedQty)
	if !sum.Equal(l.TotalQty) {
		return fmt.Errorf("listing %s: available+reserved+committed=%s, total=%s",
			l.ID, sum, l.TotalQty)
	}
	return nil
}
