// internal/ledger/errors.go
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientAvailable means a reservation asked for more than the
	// listing's available quantity. This is a normal user-facing failure.
	ErrInsufficientAvailable = errors.New("insufficient available quantity")

	// ErrInsufficientReserved means a commit or release exceeded the
	// reserved quantity. Reservation always precedes commit, so this is a
	// workflow bug, not a user error.
	ErrInsufficientReserved = errors.New("insufficient reserved quantity")

	// ErrInsufficientCommitted means a finalize exceeded the committed
	// quantity. Like ErrInsufficientReserved, this signals a workflow bug.
	ErrInsufficientCommitted = errors.New("insufficient committed quantity")

	ErrNonPositiveQuantity = errors.New("quantity must be positive")
)

// QuantityError wraps a ledger failure with the amounts involved.
type QuantityError struct {
	Op        string
	Requested decimal.Decimal
	Have      decimal.Decimal
	Err       error
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("%s %s: %v (have %s)", e.Op, e.Requested, e.Err, e.Have)
}

func (e *QuantityError) Unwrap() error {
	return e.Err
}

func quantityErr(op string, requested, have decimal.Decimal, err error) error {
	return &QuantityError{Op: op, Requested: requested, Have: have, Err: err}
}
