// internal/services/dashboard_service.go
package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrolink/agrolink-backend/internal/models"
)

// DashboardService derives read-only summaries from the listing and
// contract collections. Fetching goes through gorm; the projections
// themselves are pure functions over the fetched rows and tolerate
// slightly stale snapshots.
type DashboardService struct {
	db            *gorm.DB
	marketService *MarketService
	cache         *summaryCache
}

type ContractsSummary struct {
	PendingCount        int             `json:"pending_count"`
	ActiveCount         int             `json:"active_count"`
	CompletedCount      int             `json:"completed_count"`
	TotalPendingValue   decimal.Decimal `json:"total_pending_value"`
	TotalActiveValue    decimal.Decimal `json:"total_active_value"`
	TotalCompletedValue decimal.Decimal `json:"total_completed_value"`
}

type InventoryRollup struct {
	Type         models.ProductType  `json:"type"`
	Unit         models.QuantityUnit `json:"unit"`
	TotalQty     decimal.Decimal     `json:"total_qty"`
	AvailableQty decimal.Decimal     `json:"available_qty"`
	ReservedQty  decimal.Decimal     `json:"reserved_qty"`
	CommittedQty decimal.Decimal     `json:"committed_qty"`
}

type ProductsSummary struct {
	TotalCount          int             `json:"total_count"`
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
	ByType              []InventoryRollup `json:"by_type"`
}

type ContractRollup struct {
	Type            models.ProductType `json:"type"`
	ActiveContracts int                `json:"active_contracts"`
	TotalQty        decimal.Decimal    `json:"total_qty"`
	AvgPrice        decimal.Decimal    `json:"avg_price"`
	TotalValue      decimal.Decimal    `json:"total_value"`
}

type ActivityItem struct {
	Type       string          `json:"type"`
	ContractID uuid.UUID       `json:"contract_id"`
	FarmerName string          `json:"farmer_name,omitempty"`
	TraderName string          `json:"trader_name,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Timestamp  time.Time       `json:"timestamp"`
}

type FarmerSummary struct {
	Products       ProductsSummary  `json:"products"`
	Contracts      ContractsSummary `json:"contracts"`
	RecentActivity []ActivityItem   `json:"recent_activity"`
}

type TraderSummary struct {
	Contracts      ContractsSummary `json:"contracts"`
	ByProduct      []ContractRollup `json:"by_product"`
	RecentActivity []ActivityItem   `json:"recent_activity"`
}

const recentActivityLimit = 10

func NewDashboardService(db *gorm.DB, marketService *MarketService, cacheTTL time.Duration) *DashboardService {
	return &DashboardService{
		db:            db,
		marketService: marketService,
		cache:         newSummaryCache(cacheTTL),
	}
}

// GetFarmerSummary assembles the farmer dashboard.
func (s *DashboardService) GetFarmerSummary(farmerID uuid.UUID) (*FarmerSummary, error) {
	if cached, ok := s.cache.get("farmer:" + farmerID.String()); ok {
		return cached.(*FarmerSummary), nil
	}

	var listings []models.ProductListing
	if err := s.db.Where("farmer_id = ?", farmerID).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}

	var contracts []models.Contract
	if err := s.db.Where("farmer_id = ?", farmerID).
		Preload("Trader").Order("updated_at DESC").
		Find(&contracts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch contracts: %w", err)
	}

	prices, err := s.marketService.LatestPrices()
	if err != nil {
		return nil, err
	}

	summary := BuildFarmerSummary(listings, contracts, prices)
	s.cache.set("farmer:"+farmerID.String(), summary)
	return summary, nil
}

// GetTraderSummary assembles the trader dashboard.
func (s *DashboardService) GetTraderSummary(traderID uuid.UUID) (*TraderSummary, error) {
	if cached, ok := s.cache.get("trader:" + traderID.String()); ok {
		return cached.(*TraderSummary), nil
	}

	var contracts []models.Contract
	if err := s.db.Where("trader_id = ?", traderID).
		Preload("Farmer").Order("updated_at DESC").
		Find(&contracts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch contracts: %w", err)
	}

	summary := BuildTraderSummary(contracts)
	s.cache.set("trader:"+traderID.String(), summary)
	return summary, nil
}

// BuildFarmerSummary is the pure projection behind the farmer
// dashboard. Inventory value prices available quantity at the latest
// spot price per type; types without a quote contribute zero.
func BuildFarmerSummary(listings []models.ProductListing, contracts []models.Contract, prices map[models.ProductType]decimal.Decimal) *FarmerSummary {
	summary := &FarmerSummary{
		Products: ProductsSummary{
			TotalCount:          len(listings),
			TotalInventoryValue: decimal.Zero,
		},
		Contracts: summarizeContracts(contracts),
	}

	rollups := make(map[models.ProductType]*InventoryRollup)
	for _, l := range listings {
		r, ok := rollups[l.Type]
		if !ok {
			r = &InventoryRollup{Type: l.Type, Unit: l.Unit}
			rollups[l.Type] = r
		}
		r.TotalQty = r.TotalQty.Add(l.TotalQty)
		r.AvailableQty = r.AvailableQty.Add(l.AvailableQty)
		r.ReservedQty = r.ReservedQty.Add(l.ReservedQty)
		r.CommittedQty = r.CommittedQty.Add(l.CommittedQty)

		if price, ok := prices[l.Type]; ok {
			summary.Products.TotalInventoryValue = summary.Products.TotalInventoryValue.
				Add(price.Mul(l.AvailableQty))
		}
	}
	summary.Products.ByType = sortedRollups(rollups)

	for _, c := range contracts {
		if len(summary.RecentActivity) == recentActivityLimit {
			break
		}
		summary.RecentActivity = append(summary.RecentActivity, ActivityItem{
			Type:       activityType(c.Status),
			ContractID: c.ID,
			TraderName: c.Trader.Name,
			Amount:     c.TotalValue,
			Timestamp:  c.UpdatedAt,
		})
	}

	return summary
}

// BuildTraderSummary is the pure projection behind the trader dashboard.
func BuildTraderSummary(contracts []models.Contract) *TraderSummary {
	summary := &TraderSummary{
		Contracts: summarizeContracts(contracts),
	}

	type acc struct {
		rollup   ContractRollup
		priceSum decimal.Decimal
	}
	rollups := make(map[models.ProductType]*acc)
	for _, c := range contracts {
		if c.Status != models.ContractStatusActive {
			continue
		}
		a, ok := rollups[c.ProductType]
		if !ok {
			a = &acc{rollup: ContractRollup{Type: c.ProductType}}
			rollups[c.ProductType] = a
		}
		a.rollup.ActiveContracts++
		a.rollup.TotalQty = a.rollup.TotalQty.Add(c.Qty)
		a.rollup.TotalValue = a.rollup.TotalValue.Add(c.TotalValue)
		a.priceSum = a.priceSum.Add(c.PricePerUnit)
	}

	for _, a := range rollups {
		a.rollup.AvgPrice = a.priceSum.Div(decimal.NewFromInt(int64(a.rollup.ActiveContracts))).Round(2)
		summary.ByProduct = append(summary.ByProduct, a.rollup)
	}
	sort.Slice(summary.ByProduct, func(i, j int) bool {
		return summary.ByProduct[i].Type < summary.ByProduct[j].Type
	})

	for _, c := range contracts {
		if len(summary.RecentActivity) == recentActivityLimit {
			break
		}
		summary.RecentActivity = append(summary.RecentActivity, ActivityItem{
			Type:       activityType(c.Status),
			ContractID: c.ID,
			FarmerName: c.Farmer.Name,
			Amount:     c.TotalValue,
			Timestamp:  c.UpdatedAt,
		})
	}

	return summary
}

func summarizeContracts(contracts []models.Contract) ContractsSummary {
	summary := ContractsSummary{
		TotalPendingValue:   decimal.Zero,
		TotalActiveValue:    decimal.Zero,
		TotalCompletedValue: decimal.Zero,
	}
	for _, c := range contracts {
		switch c.Status {
		case models.ContractStatusPending:
			summary.PendingCount++
			summary.TotalPendingValue = summary.TotalPendingValue.Add(c.TotalValue)
		case models.ContractStatusActive:
			summary.ActiveCount++
			summary.TotalActiveValue = summary.TotalActiveValue.Add(c.TotalValue)
		case models.ContractStatusCompleted:
			summary.CompletedCount++
			summary.TotalCompletedValue = summary.TotalCompletedValue.Add(c.TotalValue)
		}
	}
	return summary
}

func sortedRollups(rollups map[models.ProductType]*InventoryRollup) []InventoryRollup {
	out := make([]InventoryRollup, 0, len(rollups))
	for _, r := range rollups {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

func activityType(status models.ContractStatus) string {
	switch status {
	case models.ContractStatusPending:
		return "contract_proposed"
	case models.ContractStatusActive:
		return "contract_accepted"
	case models.ContractStatusCompleted:
		return "contract_completed"
	case models.ContractStatusRejected:
		return "contract_rejected"
	case models.ContractStatusCancelled:
		return "contract_cancelled"
	}
	return "contract_updated"
}
