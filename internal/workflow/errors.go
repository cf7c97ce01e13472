// internal/workflow/errors.go
package workflow

import (
	"errors"
	"fmt"

	"github.com/agrolink/agrolink-backend/internal/models"
)

var (
	ErrInvalidTransition = errors.New("invalid contract transition")
	ErrValidation        = errors.New("validation failed")
)

// InvalidTransitionError names the attempted transition, the contract's
// current status and the actor that attempted it.
type InvalidTransitionError struct {
	Action models.ContractAction
	Status models.ContractStatus
	Actor  models.UserType
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s contract in status %s as %s: %s",
		e.Action, e.Status, e.Actor, e.Reason)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

func invalidTransition(action models.ContractAction, c *models.Contract, actor models.UserType, reason string) error {
	return &InvalidTransitionError{Action: action, Status: c.Status, Actor: actor, Reason: reason}
}

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}
