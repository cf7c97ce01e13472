// internal/services/market_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/agrolink/agrolink-backend/internal/models"
)

// MarketService keeps local spot-price snapshots, refreshed from the
// forecasting collaborator on a schedule. The latest snapshot per
// product type values farmer inventory on the dashboard.
type MarketService struct {
	db              *gorm.DB
	forecastService *ForecastService
	cron            *cron.Cron
}

func NewMarketService(db *gorm.DB, forecastService *ForecastService) *MarketService {
	return &MarketService{
		db:              db,
		forecastService: forecastService,
	}
}

// StartSnapshotScheduler begins the periodic spot-price refresh. An
// immediate refresh runs first so a fresh deployment has prices before
// the first tick.
func (s *MarketService) StartSnapshotScheduler(schedule string) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(schedule, func() {
		if err := s.RefreshSnapshots(context.Background()); err != nil {
			logrus.WithError(err).Warn("market price snapshot refresh failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid snapshot schedule %q: %w", schedule, err)
	}

	go func() {
		if err := s.RefreshSnapshots(context.Background()); err != nil {
			logrus.WithError(err).Warn("initial market price snapshot failed")
		}
	}()

	s.cron.Start()
	return nil
}

// StopSnapshotScheduler stops the refresh job, waiting for a running
// refresh to finish.
func (s *MarketService) StopSnapshotScheduler() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// RefreshSnapshots pulls current quotes from the forecasting
// collaborator and records one PriceRecord per product type.
func (s *MarketService) RefreshSnapshots(ctx context.Context) error {
	quotes, err := s.forecastService.GetCurrentPrices(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, quote := range quotes {
		if !quote.ProductType.Valid() {
			logrus.WithField("product_type", quote.ProductType).
				Warn("skipping quote for unknown product type")
			continue
		}
		record := &models.PriceRecord{
			ProductType: quote.ProductType,
			Price:       quote.Price,
			RecordedAt:  now,
		}
		if err := s.db.Create(record).Error; err != nil {
			return fmt.Errorf("failed to record price snapshot: %w", err)
		}
	}

	logrus.WithField("quotes", len(quotes)).Debug("market price snapshots refreshed")
	return nil
}

// LatestPrices returns the most recent snapshot per product type.
func (s *MarketService) LatestPrices() (map[models.ProductType]decimal.Decimal, error) {
	var records []models.PriceRecord
	if err := s.db.Raw(`
		SELECT DISTINCT ON (product_type) *
		FROM price_records
		WHERE deleted_at IS NULL
		ORDER BY product_type, recorded_at DESC
	`).Scan(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch latest prices: %w", err)
	}

	prices := make(map[models.ProductType]decimal.Decimal, len(records))
	for _, r := range records {
		prices[r.ProductType] = r.Price
	}
	return prices, nil
}

// CurrentPrices returns the latest quotes, optionally for one type.
func (s *MarketService) CurrentPrices(productType *models.ProductType) ([]PriceQuote, error) {
	prices, err := s.LatestPrices()
	if err != nil {
		return nil, err
	}

	var quotes []PriceQuote
	for _, t := range models.ProductTypes {
		if productType != nil && t != *productType {
			continue
		}
		if price, ok := prices[t]; ok {
			quotes = append(quotes, PriceQuote{ProductType: t, Price: price})
		}
	}
	return quotes, nil
}
