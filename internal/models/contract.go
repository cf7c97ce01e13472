// internal/models/contract.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Contract is a forward-purchase agreement between one farmer and one
// trader, drawing quantity from a single product listing. The contract
// owns its terms; the listing is referenced by id and shared with other
// contracts competing for its unreserved capacity.
type Contract struct {
	BaseModel
	ListingID       uuid.UUID       `json:"listing_id" gorm:"type:uuid;not null;index"`
	FarmerID        uuid.UUID       `json:"farmer_id" gorm:"type:uuid;not null;index"`
	TraderID        uuid.UUID       `json:"trader_id" gorm:"type:uuid;not null;index"`
	ProductType     ProductType     `json:"product_type" gorm:"type:varchar(20);not null"`
	PricePerUnit    decimal.Decimal `json:"price_per_unit" gorm:"type:decimal(12,2);not null"`
	Qty             decimal.Decimal `json:"qty" gorm:"type:decimal(14,2);not null"`
	Unit            QuantityUnit    `json:"unit" gorm:"type:varchar(10);not null"`
	TotalValue      decimal.Decimal `json:"total_value" gorm:"type:decimal(16,2);not null"`
	Status          ContractStatus  `json:"status" gorm:"type:varchar(20);default:'PENDING';index"`
	CreatedBy       UserType        `json:"created_by" gorm:"type:varchar(10);not null"`
	Notes           string          `json:"notes,omitempty" gorm:"type:text"`
	RejectionReason string          `json:"rejection_reason,omitempty" gorm:"type:text"`
	CompletedBy     UserType        `json:"completed_by,omitempty" gorm:"type:varchar(10)"`
	AcceptedAt      *time.Time      `json:"accepted_at"`
	CompletedAt     *time.Time      `json:"completed_at"`

	// Relationships
	Listing ProductListing `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
	Farmer  User           `json:"farmer,omitempty" gorm:"foreignKey:FarmerID"`
	Trader  User           `json:"trader,omitempty" gorm:"foreignKey:TraderID"`
}

// PartyID returns the user id holding the given role on this contract.
func (c *Contract) PartyID(role UserType) uuid.UUID {
	if role == UserTypeFarmer {
		return c.FarmerID
	}
	return c.TraderID
}
