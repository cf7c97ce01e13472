// internal/services/contract_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agrolink/agrolink-backend/internal/ledger"
	"github.com/agrolink/agrolink-backend/internal/models"
	"github.com/agrolink/agrolink-backend/internal/utils"
	"github.com/agrolink/agrolink-backend/internal/workflow"
)

// ContractService orchestrates the contract workflow against the
// database. Every mutating call runs in a transaction that row-locks
// the listing (and contract) before applying the workflow transition,
// so per-listing operations serialize and competing proposals cannot
// double-spend availability.
type ContractService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type ProposeContractRequest struct {
	ListingID      uuid.UUID           `json:"listing_id" validate:"required"`
	CounterpartyID uuid.UUID           `json:"counterparty_id,omitempty"`
	PricePerUnit   decimal.Decimal     `json:"price_per_unit" validate:"required"`
	Qty            decimal.Decimal     `json:"qty" validate:"required"`
	Unit           models.QuantityUnit `json:"unit" validate:"required,qty_unit"`
	Notes          string              `json:"notes,omitempty"`
}

type RespondContractRequest struct {
	Action models.ContractAction `json:"action" validate:"required,oneof=accept reject"`
	Reason string                `json:"reason,omitempty"`
}

type ContractListParams struct {
	utils.PaginationParams
	Status *models.ContractStatus
}

func NewContractService(db *gorm.DB, notificationService *NotificationService) *ContractService {
	return &ContractService{
		db:                  db,
		notificationService: notificationService,
	}
}

// lockForUpdate adds a SELECT ... FOR UPDATE row lock to the query.
// Every ledger-mutating transaction loads the listing (and contract)
// through this, so operations on the same listing serialize and
// competing proposals cannot both see the same availability.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// ProposeContract creates a PENDING contract and reserves quantity on
// the listing. The proposer role determines the counterparty: a trader
// proposes against any farmer's listing; a farmer proposes their own
// listing to a named trader.
func (s *ContractService) ProposeContract(proposerID uuid.UUID, proposerRole models.UserType, req *ProposeContractRequest) (*models.Contract, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var contract *models.Contract

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var listing models.ProductListing
		if err := lockForUpdate(tx).
			First(&listing, "id = ?", req.ListingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("listing: %w", ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		terms := workflow.ProposalTerms{
			PricePerUnit: req.PricePerUnit,
			Qty:          req.Qty,
			Unit:         req.Unit,
			Notes:        req.Notes,
		}

		switch proposerRole {
		case models.UserTypeFarmer:
			if listing.FarmerID != proposerID {
				return ErrNotOwner
			}
			terms.TraderID = req.CounterpartyID
		case models.UserTypeTrader:
			terms.TraderID = proposerID
		}

		if terms.TraderID != uuid.Nil {
			var trader models.User
			if err := tx.First(&trader, "id = ? AND user_type = ?", terms.TraderID, models.UserTypeTrader).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("trader: %w", ErrNotFound)
				}
				return fmt.Errorf("database error: %w", err)
			}
			if trader.Status != models.UserStatusActive {
				return ErrAccountInactive
			}
		}

		proposed, err := workflow.Propose(&listing, proposerRole, terms)
		if err != nil {
			return err
		}

		if err := tx.Create(proposed).Error; err != nil {
			return fmt.Errorf("failed to create contract: %w", err)
		}
		if err := s.saveListingQuantities(tx, &listing); err != nil {
			return err
		}

		contract = proposed
		return nil
	})

	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Listing").Preload("Farmer").Preload("Trader").
		First(contract, "id = ?", contract.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload contract: %w", err)
	}

	s.notificationService.NotifyContractEvent(contract, models.NotificationContractProposed, proposerRole)
	return contract, nil
}

// RespondToContract applies accept or reject on behalf of the
// counter-party to the proposer.
func (s *ContractService) RespondToContract(contractID, actorID uuid.UUID, actorRole models.UserType, req *RespondContractRequest) (*models.Contract, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	event := models.NotificationContractAccepted
	if req.Action == models.ActionReject {
		event = models.NotificationContractRejected
	}

	return s.applyTransition(contractID, actorID, actorRole, event,
		func(c *models.Contract, l *models.ProductListing) error {
			if req.Action == models.ActionAccept {
				return workflow.Accept(c, l, actorRole)
			}
			return workflow.Reject(c, l, actorRole, req.Reason)
		})
}

// CancelContract withdraws the caller's own pending proposal.
func (s *ContractService) CancelContract(contractID, actorID uuid.UUID, actorRole models.UserType) (*models.Contract, error) {
	return s.applyTransition(contractID, actorID, actorRole, models.NotificationContractCancelled,
		func(c *models.Contract, l *models.ProductListing) error {
			return workflow.Cancel(c, l, actorRole)
		})
}

// CompleteContract finalizes an active contract; either party may call it.
func (s *ContractService) CompleteContract(contractID, actorID uuid.UUID, actorRole models.UserType) (*models.Contract, error) {
	return s.applyTransition(contractID, actorID, actorRole, models.NotificationContractCompleted,
		func(c *models.Contract, l *models.ProductListing) error {
			return workflow.Complete(c, l, actorRole)
		})
}

func (s *ContractService) applyTransition(contractID, actorID uuid.UUID, actorRole models.UserType, event models.NotificationType,
	transition func(*models.Contract, *models.ProductListing) error) (*models.Contract, error) {

	var contract models.Contract

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&contract, "id = ?", contractID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("contract: %w", ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if contract.PartyID(actorRole) != actorID {
			return &workflow.InvalidTransitionError{
				Status: contract.Status,
				Actor:  actorRole,
				Reason: "actor is not a party to this contract",
			}
		}

		var listing models.ProductListing
		if err := lockForUpdate(tx).
			First(&listing, "id = ?", contract.ListingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("listing: %w", ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := transition(&contract, &listing); err != nil {
			// Reserved/committed shortfalls at this point mean the
			// workflow let a reservation slip; this is a bug, not a
			// user error.
			if errors.Is(err, ledger.ErrInsufficientReserved) || errors.Is(err, ledger.ErrInsufficientCommitted) {
				logrus.WithFields(logrus.Fields{
					"contract_id": contract.ID,
					"listing_id":  listing.ID,
					"status":      contract.Status,
				}).WithError(err).Error("ledger invariant breach during contract transition")
			}
			return err
		}

		if err := tx.Save(&contract).Error; err != nil {
			return fmt.Errorf("failed to update contract: %w", err)
		}
		return s.saveListingQuantities(tx, &listing)
	})

	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Listing").Preload("Farmer").Preload("Trader").
		First(&contract, "id = ?", contract.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload contract: %w", err)
	}

	s.notificationService.NotifyContractEvent(&contract, event, actorRole)
	return &contract, nil
}

// saveListingQuantities persists the four quantity columns after a
// ledger transition, guarding the invariant on the way out.
func (s *ContractService) saveListingQuantities(tx *gorm.DB, listing *models.ProductListing) error {
	if err := ledger.CheckInvariant(listing); err != nil {
		logrus.WithField("listing_id", listing.ID).WithError(err).Error("listing invariant violated, aborting transaction")
		return err
	}

	return tx.Model(listing).Updates(map[string]interface{}{
		"total_qty":     listing.TotalQty,
		"available_qty": listing.AvailableQty,
		"reserved_qty":  listing.ReservedQty,
		"committed_qty": listing.CommittedQty,
	}).Error
}

// GetContract loads one contract visible to the caller.
func (s *ContractService) GetContract(contractID, userID uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	if err := s.db.Preload("Listing").Preload("Farmer").Preload("Trader").
		First(&contract, "id = ?", contractID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("contract: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if contract.FarmerID != userID && contract.TraderID != userID {
		return nil, fmt.Errorf("contract: %w", ErrNotFound)
	}

	return &contract, nil
}

// ListContracts returns the caller's contracts for their side of the
// market, optionally filtered by status.
func (s *ContractService) ListContracts(userID uuid.UUID, role models.UserType, params ContractListParams) ([]models.Contract, int64, error) {
	query := s.db.Model(&models.Contract{}).
		Preload("Listing").Preload("Farmer").Preload("Trader")

	if role == models.UserTypeFarmer {
		query = query.Where("farmer_id = ?", userID)
	} else {
		query = query.Where("trader_id = ?", userID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contracts: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "status", "total_value"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var contracts []models.Contract
	if err := query.Find(&contracts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch contracts: %w", err)
	}

	return contracts, total, nil
}

// GetListingContracts returns the contracts drawing on one listing,
// restricted to the listing's owner.
func (s *ContractService) GetListingContracts(listingID, userID uuid.UUID, status *models.ContractStatus) ([]models.Contract, error) {
	var listing models.ProductListing
	if err := s.db.First(&listing, "id = ?", listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("listing: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if listing.FarmerID != userID {
		return nil, ErrNotOwner
	}

	query := s.db.Where("listing_id = ?", listingID).
		Preload("Trader").Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var contracts []models.Contract
	if err := query.Find(&contracts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch listing contracts: %w", err)
	}

	return contracts, nil
}

// AllowedActions exposes the workflow's action gating for one contract
// and the calling role.
func (s *ContractService) AllowedActions(contractID, userID uuid.UUID, role models.UserType) ([]models.ContractAction, error) {
	contract, err := s.GetContract(contractID, userID)
	if err != nil {
		return nil, err
	}
	return workflow.AllowedActions(contract, role), nil
}
