// internal/services/dashboard_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrolink/agrolink-backend/internal/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func listing(productType models.ProductType, total, available, reserved, committed string) models.ProductListing {
	return models.ProductListing{
		FarmerID:     uuid.New(),
		Type:         productType,
		Unit:         models.UnitKg,
		TotalQty:     dec(total),
		AvailableQty: dec(available),
		ReservedQty:  dec(reserved),
		CommittedQty: dec(committed),
	}
}

func contract(productType models.ProductType, status models.ContractStatus, qty, price string) models.Contract {
	q, p := dec(qty), dec(price)
	return models.Contract{
		FarmerID:     uuid.New(),
		TraderID:     uuid.New(),
		ProductType:  productType,
		Status:       status,
		Qty:          q,
		Unit:         models.UnitKg,
		PricePerUnit: p,
		TotalValue:   q.Mul(p),
		Trader:       models.User{Name: "Ravi Traders"},
		Farmer:       models.User{Name: "Anand"},
	}
}

func TestBuildFarmerSummaryCountsAndValues(t *testing.T) {
	listings := []models.ProductListing{
		listing(models.ProductTypeSoybean, "100", "60", "40", "0"),
		listing(models.ProductTypeSoybean, "50", "50", "0", "0"),
		listing(models.ProductTypeMustard, "200", "100", "50", "50"),
	}
	contracts := []models.Contract{
		contract(models.ProductTypeSoybean, models.ContractStatusPending, "40", "50"),
		contract(models.ProductTypeMustard, models.ContractStatusActive, "50", "60"),
		contract(models.ProductTypeMustard, models.ContractStatusCompleted, "30", "55"),
		contract(models.ProductTypeSesame, models.ContractStatusRejected, "10", "80"),
	}
	prices := map[models.ProductType]decimal.Decimal{
		models.ProductTypeSoybean: dec("50"),
		models.ProductTypeMustard: dec("60"),
	}

	summary := BuildFarmerSummary(listings, contracts, prices)

	assert.Equal(t, 3, summary.Products.TotalCount)
	// (60+50)*50 + 100*60
	assert.True(t, summary.Products.TotalInventoryValue.Equal(dec("11500")),
		"got %s", summary.Products.TotalInventoryValue)

	require.Len(t, summary.Products.ByType, 2)
	soy := summary.Products.ByType[1]
	assert.Equal(t, models.ProductTypeSoybean, soy.Type)
	assert.True(t, soy.TotalQty.Equal(dec("150")))
	assert.True(t, soy.AvailableQty.Equal(dec("110")))
	assert.True(t, soy.ReservedQty.Equal(dec("40")))

	assert.Equal(t, 1, summary.Contracts.PendingCount)
	assert.Equal(t, 1, summary.Contracts.ActiveCount)
	assert.Equal(t, 1, summary.Contracts.CompletedCount)
	assert.True(t, summary.Contracts.TotalPendingValue.Equal(dec("2000")))
	assert.True(t, summary.Contracts.TotalActiveValue.Equal(dec("3000")))
	assert.True(t, summary.Contracts.TotalCompletedValue.Equal(dec("1650")))

	require.Len(t, summary.RecentActivity, 4)
	assert.Equal(t, "contract_proposed", summary.RecentActivity[0].Type)
	assert.Equal(t, "Ravi Traders", summary.RecentActivity[0].TraderName)
}

func TestBuildFarmerSummaryMissingPriceContributesZero(t *testing.T) {
	listings := []models.ProductListing{
		listing(models.ProductTypeSesame, "100", "100", "0", "0"),
	}

	summary := BuildFarmerSummary(listings, nil, map[models.ProductType]decimal.Decimal{})

	assert.True(t, summary.Products.TotalInventoryValue.IsZero())
	assert.Empty(t, summary.RecentActivity)
}

func TestBuildTraderSummaryRollsUpActiveContracts(t *testing.T) {
	contracts := []models.Contract{
		contract(models.ProductTypeSoybean, models.ContractStatusActive, "100", "50"),
		contract(models.ProductTypeSoybean, models.ContractStatusActive, "50", "60"),
		contract(models.ProductTypeSoybean, models.ContractStatusPending, "10", "45"),
		contract(models.ProductTypeGroundnut, models.ContractStatusCompleted, "20", "70"),
	}

	summary := BuildTraderSummary(contracts)

	assert.Equal(t, 2, summary.Contracts.ActiveCount)
	assert.Equal(t, 1, summary.Contracts.PendingCount)
	assert.Equal(t, 1, summary.Contracts.CompletedCount)

	// Only active contracts roll up by product.
	require.Len(t, summary.ByProduct, 1)
	soy := summary.ByProduct[0]
	assert.Equal(t, models.ProductTypeSoybean, soy.Type)
	assert.Equal(t, 2, soy.ActiveContracts)
	assert.True(t, soy.TotalQty.Equal(dec("150")))
	assert.True(t, soy.TotalValue.Equal(dec("8000")))
	assert.True(t, soy.AvgPrice.Equal(dec("55")), "got %s", soy.AvgPrice)

	assert.Equal(t, "Anand", summary.RecentActivity[0].FarmerName)
}

func TestBuildTraderSummaryEmpty(t *testing.T) {
	summary := BuildTraderSummary(nil)

	assert.Zero(t, summary.Contracts.ActiveCount)
	assert.Empty(t, summary.ByProduct)
	assert.Empty(t, summary.RecentActivity)
	assert.True(t, summary.Contracts.TotalActiveValue.IsZero())
}

func TestRecentActivityCapped(t *testing.T) {
	var contracts []models.Contract
	for i := 0; i < recentActivityLimit+5; i++ {
		contracts = append(contracts, contract(models.ProductTypeSoybean, models.ContractStatusPending, "1", "1"))
	}

	summary := BuildTraderSummary(contracts)

	assert.Len(t, summary.RecentActivity, recentActivityLimit)
}
