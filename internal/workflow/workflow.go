// internal/workflow/workflow.go
//
// Package workflow is the contract state machine:
//
//	PENDING -> ACTIVE -> COMPLETED
//	PENDING -> REJECTED
//	PENDING -> CANCELLED
//
// Each transition gates on the acting role, applies its ledger side
// effect on the referenced listing, and stamps the contract. Ledger and
// contract are mutated together or not at all: the ledger call runs
// first and any failure aborts the transition before the contract is
// touched. Callers hold exclusive access to both records for the
// duration of a call (database row locks or an Arena entry lock).
package workflow

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrolink/agrolink-backend/internal/ledger"
	"github.com/agrolink/agrolink-backend/internal/models"
)

// ProposalTerms are the negotiable terms of a new contract.
type ProposalTerms struct {
	TraderID     uuid.UUID
	PricePerUnit decimal.Decimal
	Qty          decimal.Decimal
	Unit         models.QuantityUnit
	Notes        string
}

// Propose creates a PENDING contract against the listing and reserves
// its quantity. createdBy is the proposing role; the farmer side always
// comes from the listing itself.
func Propose(listing *models.ProductListing, createdBy models.UserType, terms ProposalTerms) (*models.Contract, error) {
	if !createdBy.Valid() {
		return nil, validationf("unknown proposer role %q", createdBy)
	}
	if !terms.PricePerUnit.IsPositive() {
		return nil, validationf("price_per_unit must be positive, got %s", terms.PricePerUnit)
	}
	if !terms.Qty.IsPositive() {
		return nil, validationf("qty must be positive, got %s", terms.Qty)
	}
	if !terms.Unit.Valid() {
		return nil, validationf("unknown unit %q", terms.Unit)
	}
	if terms.Unit != listing.Unit {
		return nil, validationf("unit %s does not match listing unit %s", terms.Unit, listing.Unit)
	}
	if terms.TraderID == uuid.Nil {
		return nil, validationf("trader id is required")
	}

	if err := ledger.Reserve(listing, terms.Qty); err != nil {
		return nil, err
	}

	return &models.Contract{
		ListingID:    listing.ID,
		FarmerID:     listing.FarmerID,
		TraderID:     terms.TraderID,
		ProductType:  listing.Type,
		PricePerUnit: terms.PricePerUnit,
		Qty:          terms.Qty,
		Unit:         terms.Unit,
		TotalValue:   terms.PricePerUnit.Mul(terms.Qty),
		Status:       models.ContractStatusPending,
		CreatedBy:    createdBy,
		Notes:        terms.Notes,
	}, nil
}

// Accept moves a PENDING contract to ACTIVE, committing the reserved
// quantity. Only the counter-party to the proposer may accept.
func Accept(c *models.Contract, listing *models.ProductListing, actor models.UserType) error {
	if c.Status != models.ContractStatusPending {
		return invalidTransition(models.ActionAccept, c, actor, "contract is not pending")
	}
	if actor != c.CreatedBy.CounterParty() {
		return invalidTransition(models.ActionAccept, c, actor, "only the counter-party may accept")
	}

	if err := ledger.Commit(listing, c.Qty); err != nil {
		return err
	}

	now := time.Now()
	c.Status = models.ContractStatusActive
	c.AcceptedAt = &now
	return nil
}

// Reject moves a PENDING contract to REJECTED, releasing the
// reservation. Only the counter-party to the proposer may reject.
func Reject(c *models.Contract, listing *models.ProductListing, actor models.UserType, reason string) error {
	if c.Status != models.ContractStatusPending {
		return invalidTransition(models.ActionReject, c, actor, "contract is not pending")
	}
	if actor != c.CreatedBy.CounterParty() {
		return invalidTransition(models.ActionReject, c, actor, "only the counter-party may reject")
	}

	if err := ledger.Release(listing, c.Qty); err != nil {
		return err
	}

	c.Status = models.ContractStatusRejected
	c.RejectionReason = reason
	return nil
}

// Cancel withdraws the proposer's own PENDING contract, releasing the
// reservation. The counter-party cannot cancel; they reject instead.
func Cancel(c *models.Contract, listing *models.ProductListing, actor models.UserType) error {
	if c.Status != models.ContractStatusPending {
		return invalidTransition(models.ActionCancel, c, actor, "contract is not pending")
	}
	if actor != c.CreatedBy {
		return invalidTransition(models.ActionCancel, c, actor, "only the proposer may cancel")
	}

	if err := ledger.Release(listing, c.Qty); err != nil {
		return err
	}

	c.Status = models.ContractStatusCancelled
	return nil
}

// Complete finalizes an ACTIVE contract; either party may complete. The
// committed quantity leaves the farmer's book.
func Complete(c *models.Contract, listing *models.ProductListing, actor models.UserType) error {
	if !actor.Valid() {
		return invalidTransition(models.ActionComplete, c, actor, "unknown actor role")
	}
	if c.Status != models.ContractStatusActive {
		return invalidTransition(models.ActionComplete, c, actor, "contract is not active")
	}

	if err := ledger.Finalize(listing, c.Qty); err != nil {
		return err
	}

	now := time.Now()
	c.Status = models.ContractStatusCompleted
	c.CompletedBy = actor
	c.CompletedAt = &now
	return nil
}

// AllowedActions is the single query behind action gating: which
// transitions the given role may attempt on the contract right now.
func AllowedActions(c *models.Contract, actor models.UserType) []models.ContractAction {
	var actions []models.ContractAction
	switch c.Status {
	case models.ContractStatusPending:
		if actor == c.CreatedBy {
			actions = append(actions, models.ActionCancel)
		} else if actor == c.CreatedBy.CounterParty() {
			actions = append(actions, models.ActionAccept, models.ActionReject)
		}
	case models.ContractStatusActive:
		if actor.Valid() {
			actions = append(actions, models.ActionComplete)
		}
	}
	return actions
}
