// internal/models/listing.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductListing is a farmer's declared quantity of one oilseed type
// available for forward contracting. The four quantity columns satisfy
// available + reserved + committed == total at all times; they are
// mutated only through the ledger transitions driven by the contract
// workflow.
type ProductListing struct {
	BaseModel
	FarmerID     uuid.UUID       `json:"farmer_id" gorm:"type:uuid;not null;index"`
	Type         ProductType     `json:"type" gorm:"type:varchar(20);not null;index"`
	Unit         QuantityUnit    `json:"unit" gorm:"type:varchar(10);not null"`
	TotalQty     decimal.Decimal `json:"total_qty" gorm:"type:decimal(14,2);not null"`
	AvailableQty decimal.Decimal `json:"available_qty" gorm:"type:decimal(14,2);not null"`
	ReservedQty  decimal.Decimal `json:"reserved_qty" gorm:"type:decimal(14,2);not null"`
	CommittedQty decimal.Decimal `json:"committed_qty" gorm:"type:decimal(14,2);not null"`

	// Relationships
	Farmer    User       `json:"farmer,omitempty" gorm:"foreignKey:FarmerID"`
	Contracts []Contract `json:"contracts,omitempty" gorm:"foreignKey:ListingID"`
}

// NewProductListing creates a listing with the full quantity available.
func NewProductListing(farmerID uuid.UUID, productType ProductType, unit QuantityUnit, qty decimal.Decimal) *ProductListing {
	return &ProductListing{
		FarmerID:     farmerID,
		Type:         productType,
		Unit:         unit,
		TotalQty:     qty,
		AvailableQty: qty,
		ReservedQty:  decimal.Zero,
		CommittedQty: decimal.Zero,
	}
}
