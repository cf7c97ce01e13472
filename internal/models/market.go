// internal/models/market.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceRecord is a spot-price snapshot for one product type, fed by the
// periodic pull from the forecasting collaborator. The latest record per
// type is the "current price" used for inventory valuation.
type PriceRecord struct {
	BaseModel
	ProductType ProductType     `json:"product_type" gorm:"type:varchar(20);not null;index"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	RecordedAt  time.Time       `json:"recorded_at" gorm:"not null;index"`
}
