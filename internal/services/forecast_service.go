// internal/services/forecast_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/agrolink/agrolink-backend/internal/config"
	"github.com/agrolink/agrolink-backend/internal/models"
)

// ForecastService talks to the external forecasting collaborator and
// computes display figures from the series it returns. The collaborator
// is opaque: its model internals, retries and availability are its own
// concern; this service only shapes and memoizes its output.
type ForecastService struct {
	baseURL string
	client  *http.Client
	cache   *summaryCache
}

type PricePoint struct {
	Date  string          `json:"date"`
	Price decimal.Decimal `json:"price"`
}

type ForecastPoint struct {
	Date            string          `json:"date"`
	PredictedPrice  decimal.Decimal `json:"predicted_price"`
	ConfidenceLower decimal.Decimal `json:"confidence_lower"`
	ConfidenceUpper decimal.Decimal `json:"confidence_upper"`
}

type PriceQuote struct {
	ProductType models.ProductType `json:"product_type"`
	Price       decimal.Decimal    `json:"price"`
}

// MarketOutlook bundles a product's series with the derived figures the
// dashboard cards show.
type MarketOutlook struct {
	ProductType    models.ProductType `json:"product_type"`
	History        []PricePoint       `json:"history"`
	Predictions    []ForecastPoint    `json:"predictions"`
	ChangePercent  *decimal.Decimal   `json:"change_percent,omitempty"`
	PredictedPrice *decimal.Decimal   `json:"predicted_price,omitempty"`
}

// predictedPriceHorizon is the day the "predicted price" card reads,
// falling back to the last forecast point on shorter series.
const predictedPriceHorizon = 30

func NewForecastService(cfg config.ForecastConfig) *ForecastService {
	return &ForecastService{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		cache: newSummaryCache(time.Duration(cfg.CacheTTLSec) * time.Second),
	}
}

// GetPriceHistory fetches the time-ordered price series for one product
// over the trailing window.
func (s *ForecastService) GetPriceHistory(ctx context.Context, productType models.ProductType, days int) ([]PricePoint, error) {
	key := fmt.Sprintf("history:%s:%d", productType, days)
	if cached, ok := s.cache.get(key); ok {
		return cached.([]PricePoint), nil
	}

	var payload struct {
		History []PricePoint `json:"history"`
	}
	if err := s.fetch(ctx, "/market/price-history", productType, days, &payload); err != nil {
		return nil, err
	}

	s.cache.set(key, payload.History)
	return payload.History, nil
}

// GetForecast fetches the predicted-price series for one product.
func (s *ForecastService) GetForecast(ctx context.Context, productType models.ProductType, days int) ([]ForecastPoint, error) {
	key := fmt.Sprintf("forecast:%s:%d", productType, days)
	if cached, ok := s.cache.get(key); ok {
		return cached.([]ForecastPoint), nil
	}

	var payload struct {
		Predictions []ForecastPoint `json:"predictions"`
	}
	if err := s.fetch(ctx, "/forecasts", productType, days, &payload); err != nil {
		return nil, err
	}

	s.cache.set(key, payload.Predictions)
	return payload.Predictions, nil
}

// GetCurrentPrices fetches the collaborator's spot quotes for all
// product types.
func (s *ForecastService) GetCurrentPrices(ctx context.Context) ([]PriceQuote, error) {
	if cached, ok := s.cache.get("current-prices"); ok {
		return cached.([]PriceQuote), nil
	}

	var payload struct {
		Prices []PriceQuote `json:"prices"`
	}
	if err := s.fetch(ctx, "/market/current-prices", "", 0, &payload); err != nil {
		return nil, err
	}

	s.cache.set("current-prices", payload.Prices)
	return payload.Prices, nil
}

// GetOutlook combines history, forecast and the derived figures for one
// product type and window.
func (s *ForecastService) GetOutlook(ctx context.Context, productType models.ProductType, days int) (*MarketOutlook, error) {
	history, err := s.GetPriceHistory(ctx, productType, days)
	if err != nil {
		return nil, err
	}
	predictions, err := s.GetForecast(ctx, productType, days)
	if err != nil {
		return nil, err
	}

	return &MarketOutlook{
		ProductType:    productType,
		History:        history,
		Predictions:    predictions,
		ChangePercent:  ChangePercent(history),
		PredictedPrice: PredictedPrice(predictions, predictedPriceHorizon),
	}, nil
}

func (s *ForecastService) fetch(ctx context.Context, path string, productType models.ProductType, days int, out interface{}) error {
	u, err := url.Parse(s.baseURL + path)
	if err != nil {
		return fmt.Errorf("invalid forecast service URL: %w", err)
	}

	q := u.Query()
	if productType != "" {
		q.Set("type", string(productType))
	}
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build forecast request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("forecast service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logrus.WithFields(logrus.Fields{
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("forecast service returned non-OK status")
		return fmt.Errorf("forecast service returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode forecast response: %w", err)
	}
	return nil
}

// ChangePercent returns the percentage change from the first to the
// last point of a price history, or nil when fewer than two points
// exist. Absence is deliberate: a flat "0%" would misreport a series
// that cannot support a change figure.
func ChangePercent(history []PricePoint) *decimal.Decimal {
	if len(history) < 2 {
		return nil
	}

	oldPrice := history[0].Price
	newPrice := history[len(history)-1].Price
	if oldPrice.IsZero() {
		return nil
	}

	change := newPrice.Sub(oldPrice).
		Div(oldPrice).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	return &change
}

// PredictedPrice selects the forecast at the given horizon (1-based
// day), falling back to the last point of a shorter series. An empty
// series yields nil, not zero.
func PredictedPrice(predictions []ForecastPoint, horizonDays int) *decimal.Decimal {
	if len(predictions) == 0 {
		return nil
	}

	idx := horizonDays - 1
	if idx < 0 || idx >= len(predictions) {
		idx = len(predictions) - 1
	}
	price := predictions[idx].PredictedPrice
	return &price
}
