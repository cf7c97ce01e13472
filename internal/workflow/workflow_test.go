// internal/workflow/workflow_test.go
package workflow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrolink/agrolink-backend/internal/ledger"
	"github.com/agrolink/agrolink-backend/internal/models"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newListing(t *testing.T, available int64) *models.ProductListing {
	t.Helper()
	l := models.NewProductListing(uuid.New(), models.ProductTypeMustard, models.UnitKg, decimal.NewFromInt(available))
	l.ID = uuid.New()
	return l
}

func terms(qty, price int64) ProposalTerms {
	return ProposalTerms{
		TraderID:     uuid.New(),
		PricePerUnit: dec(price),
		Qty:          dec(qty),
		Unit:         models.UnitKg,
	}
}

func propose(t *testing.T, l *models.ProductListing, by models.UserType, qty int64) *models.Contract {
	t.Helper()
	c, err := Propose(l, by, terms(qty, 50))
	require.NoError(t, err)
	return c
}

func TestProposeReservesAndDerivesTotalValue(t *testing.T) {
	l := newListing(t, 100)

	c, err := Propose(l, models.UserTypeTrader, ProposalTerms{
		TraderID:     uuid.New(),
		PricePerUnit: decimal.RequireFromString("52.50"),
		Qty:          dec(40),
		Unit:         models.UnitKg,
		Notes:        "harvest delivery by March",
	})
	require.NoError(t, err)

	assert.Equal(t, models.ContractStatusPending, c.Status)
	assert.Equal(t, models.UserTypeTrader, c.CreatedBy)
	assert.Equal(t, l.FarmerID, c.FarmerID)
	assert.Equal(t, models.ProductTypeMustard, c.ProductType)
	assert.True(t, c.TotalValue.Equal(decimal.RequireFromString("2100")))
	assert.True(t, l.AvailableQty.Equal(dec(60)))
	assert.True(t, l.ReservedQty.Equal(dec(40)))
	assert.NoError(t, ledger.CheckInvariant(l))
}

func TestProposeValidation(t *testing.T) {
	l := newListing(t, 100)

	cases := []struct {
		name  string
		terms ProposalTerms
	}{
		{"zero qty", ProposalTerms{TraderID: uuid.New(), PricePerUnit: dec(10), Qty: dec(0), Unit: models.UnitKg}},
		{"negative price", ProposalTerms{TraderID: uuid.New(), PricePerUnit: dec(-1), Qty: dec(10), Unit: models.UnitKg}},
		{"unknown unit", ProposalTerms{TraderID: uuid.New(), PricePerUnit: dec(10), Qty: dec(10), Unit: "bushel"}},
		{"unit mismatch", ProposalTerms{TraderID: uuid.New(), PricePerUnit: dec(10), Qty: dec(10), Unit: models.UnitTonne}},
		{"missing trader", ProposalTerms{PricePerUnit: dec(10), Qty: dec(10), Unit: models.UnitKg}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Propose(l, models.UserTypeFarmer, tc.terms)
			assert.ErrorIs(t, err, ErrValidation)
			assert.True(t, l.ReservedQty.IsZero())
		})
	}
}

func TestProposeOverAvailabilityFails(t *testing.T) {
	// Scenario: available=50, proposal of 60 fails and changes nothing.
	l := newListing(t, 50)

	_, err := Propose(l, models.UserTypeTrader, terms(60, 45))

	assert.ErrorIs(t, err, ledger.ErrInsufficientAvailable)
	assert.True(t, l.AvailableQty.Equal(dec(50)))
	assert.True(t, l.ReservedQty.IsZero())
}

func TestHappyPathProposeAcceptComplete(t *testing.T) {
	// Scenario: total=100, contract for the full quantity, farmer accepts
	// a trader proposal, trader completes.
	l := newListing(t, 100)
	c := propose(t, l, models.UserTypeTrader, 100)

	require.NoError(t, Accept(c, l, models.UserTypeFarmer))
	assert.Equal(t, models.ContractStatusActive, c.Status)
	require.NotNil(t, c.AcceptedAt)
	assert.True(t, l.ReservedQty.IsZero())
	assert.True(t, l.CommittedQty.Equal(dec(100)))

	require.NoError(t, Complete(c, l, models.UserTypeTrader))
	assert.Equal(t, models.ContractStatusCompleted, c.Status)
	assert.Equal(t, models.UserTypeTrader, c.CompletedBy)
	require.NotNil(t, c.CompletedAt)
	assert.True(t, l.CommittedQty.IsZero())
	assert.True(t, l.TotalQty.IsZero())
	assert.NoError(t, ledger.CheckInvariant(l))
}

func TestRejectReleasesReservation(t *testing.T) {
	// Scenario: available=100, farmer proposes 40, trader rejects.
	l := newListing(t, 100)
	c := propose(t, l, models.UserTypeFarmer, 40)
	assert.True(t, l.AvailableQty.Equal(dec(60)))

	require.NoError(t, Reject(c, l, models.UserTypeTrader, "price too high"))

	assert.Equal(t, models.ContractStatusRejected, c.Status)
	assert.Equal(t, "price too high", c.RejectionReason)
	assert.True(t, l.AvailableQty.Equal(dec(100)))
	assert.True(t, l.ReservedQty.IsZero())
	assert.NoError(t, ledger.CheckInvariant(l))
}

func TestProposerCannotAcceptOwnContract(t *testing.T) {
	// Scenario: created_by=farmer, farmer tries to accept.
	l := newListing(t, 100)
	c := propose(t, l, models.UserTypeFarmer, 40)

	err := Accept(c, l, models.UserTypeFarmer)

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.ContractStatusPending, c.Status)
	assert.True(t, l.ReservedQty.Equal(dec(40)))

	var terr *InvalidTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, models.ActionAccept, terr.Action)
	assert.Equal(t, models.ContractStatusPending, terr.Status)
}

func TestCounterPartyCannotCancel(t *testing.T) {
	l := newListing(t, 100)
	c := propose(t, l, models.UserTypeFarmer, 40)

	err := Cancel(c, l, models.UserTypeTrader)

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.ContractStatusPending, c.Status)
}

func TestProposerCancelReleasesReservation(t *testing.T) {
	l := newListing(t, 100)
	c := propose(t, l, models.UserTypeTrader, 25)

	require.NoError(t, Cancel(c, l, models.UserTypeTrader))

	assert.Equal(t, models.ContractStatusCancelled, c.Status)
	assert.True(t, l.AvailableQty.Equal(dec(100)))
	assert.NoError(t, ledger.CheckInvariant(l))
}

func TestCompleteRequiresActiveStatus(t *testing.T) {
	l := newListing(t, 100)
	c := propose(t, l, models.UserTypeTrader, 25)

	err := Complete(c, l, models.UserTypeFarmer)

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.ContractStatusPending, c.Status)
}

func TestTerminalStatusesRejectEveryTransition(t *testing.T) {
	terminalStates := []models.ContractStatus{
		models.ContractStatusCompleted,
		models.ContractStatusRejected,
		models.ContractStatusCancelled,
	}
	roles := []models.UserType{models.UserTypeFarmer, models.UserTypeTrader}

	for _, status := range terminalStates {
		for _, role := range roles {
			l := newListing(t, 100)
			c := propose(t, l, models.UserTypeFarmer, 10)
			c.Status = status

			assert.ErrorIs(t, Accept(c, l, role), ErrInvalidTransition, "%s accept as %s", status, role)
			assert.ErrorIs(t, Reject(c, l, role, ""), ErrInvalidTransition, "%s reject as %s", status, role)
			assert.ErrorIs(t, Cancel(c, l, role), ErrInvalidTransition, "%s cancel as %s", status, role)
			assert.ErrorIs(t, Complete(c, l, role), ErrInvalidTransition, "%s complete as %s", status, role)
			assert.Equal(t, status, c.Status)
		}
	}
}

func TestCompetingProposalsShareCapacityUntilExhausted(t *testing.T) {
	// Two pending contracts may coexist while unreserved capacity
	// remains; the reservation that exceeds it fails.
	l := newListing(t, 100)

	first := propose(t, l, models.UserTypeTrader, 60)
	_, err := Propose(l, models.UserTypeTrader, terms(50, 45))
	assert.ErrorIs(t, err, ledger.ErrInsufficientAvailable)

	second := propose(t, l, models.UserTypeTrader, 40)
	assert.True(t, l.AvailableQty.IsZero())
	assert.Equal(t, models.ContractStatusPending, first.Status)
	assert.Equal(t, models.ContractStatusPending, second.Status)
	assert.NoError(t, ledger.CheckInvariant(l))
}

func TestAllowedActionsMatrix(t *testing.T) {
	l := newListing(t, 100)

	cases := []struct {
		name      string
		status    models.ContractStatus
		createdBy models.UserType
		actor     models.UserType
		want      []models.ContractAction
	}{
		{"pending, proposer", models.ContractStatusPending, models.UserTypeFarmer, models.UserTypeFarmer,
			[]models.ContractAction{models.ActionCancel}},
		{"pending, counter-party", models.ContractStatusPending, models.UserTypeFarmer, models.UserTypeTrader,
			[]models.ContractAction{models.ActionAccept, models.ActionReject}},
		{"pending, trader proposer", models.ContractStatusPending, models.UserTypeTrader, models.UserTypeTrader,
			[]models.ContractAction{models.ActionCancel}},
		{"active, farmer", models.ContractStatusActive, models.UserTypeTrader, models.UserTypeFarmer,
			[]models.ContractAction{models.ActionComplete}},
		{"active, trader", models.ContractStatusActive, models.UserTypeTrader, models.UserTypeTrader,
			[]models.ContractAction{models.ActionComplete}},
		{"completed", models.ContractStatusCompleted, models.UserTypeFarmer, models.UserTypeTrader, nil},
		{"rejected", models.ContractStatusRejected, models.UserTypeFarmer, models.UserTypeFarmer, nil},
		{"cancelled", models.ContractStatusCancelled, models.UserTypeTrader, models.UserTypeTrader, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := propose(t, l, tc.createdBy, 1)
			c.Status = tc.status
			assert.Equal(t, tc.want, AllowedActions(c, tc.actor))
		})
	}
}
