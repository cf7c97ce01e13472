// internal/services/listing_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrolink/agrolink-backend/internal/models"
	"github.com/agrolink/agrolink-backend/internal/utils"
)

type ListingService struct {
	db *gorm.DB
}

type CreateListingRequest struct {
	Type models.ProductType  `json:"type" validate:"required,product_type"`
	Qty  decimal.Decimal     `json:"qty" validate:"required"`
	Unit models.QuantityUnit `json:"unit" validate:"required,qty_unit"`
}

type ListingSearchParams struct {
	utils.PaginationParams
	Type     *models.ProductType
	FarmerID *uuid.UUID
}

func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{db: db}
}

// CreateListing puts a farmer's product on the book with the full
// quantity available.
func (s *ListingService) CreateListing(farmerID uuid.UUID, req *CreateListingRequest) (*models.ProductListing, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if !req.Qty.IsPositive() {
		return nil, fmt.Errorf("qty must be positive: %w", ErrValidationFailed)
	}

	var farmer models.User
	if err := s.db.First(&farmer, "id = ?", farmerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("farmer: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if farmer.UserType != models.UserTypeFarmer {
		return nil, fmt.Errorf("only farmers can list products: %w", ErrValidationFailed)
	}
	if farmer.Status != models.UserStatusActive {
		return nil, ErrAccountInactive
	}

	listing := models.NewProductListing(farmerID, req.Type, req.Unit, req.Qty)
	if err := s.db.Create(listing).Error; err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	return listing, nil
}

// GetListing loads one listing.
func (s *ListingService) GetListing(id uuid.UUID) (*models.ProductListing, error) {
	var listing models.ProductListing
	if err := s.db.Preload("Farmer").First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("listing: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &listing, nil
}

// GetFarmerListings returns the farmer's own book.
func (s *ListingService) GetFarmerListings(farmerID uuid.UUID, params utils.PaginationParams) ([]models.ProductListing, int64, error) {
	query := s.db.Model(&models.ProductListing{}).Where("farmer_id = ?", farmerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "type", "total_qty", "available_qty"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var listings []models.ProductListing
	if err := query.Find(&listings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch listings: %w", err)
	}

	return listings, total, nil
}

// SearchAvailable is the trader-facing browse: listings with unreserved
// capacity, optionally filtered by product type.
func (s *ListingService) SearchAvailable(params ListingSearchParams) ([]models.ProductListing, int64, error) {
	query := s.db.Model(&models.ProductListing{}).
		Preload("Farmer").
		Where("available_qty > 0")

	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.FarmerID != nil {
		query = query.Where("farmer_id = ?", *params.FarmerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	allowedSortFields := []string{"created_at", "type", "available_qty"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var listings []models.ProductListing
	if err := query.Find(&listings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch listings: %w", err)
	}

	return listings, total, nil
}
