// internal/services/forecast_service_test.go
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrolink/agrolink-backend/internal/config"
	"github.com/agrolink/agrolink-backend/internal/models"
)

func history(prices ...string) []PricePoint {
	points := make([]PricePoint, len(prices))
	for i, p := range prices {
		points[i] = PricePoint{Date: fmt.Sprintf("2026-08-%02d", i+1), Price: dec(p)}
	}
	return points
}

func predictions(prices ...string) []ForecastPoint {
	points := make([]ForecastPoint, len(prices))
	for i, p := range prices {
		points[i] = ForecastPoint{Date: fmt.Sprintf("2026-09-%02d", i+1), PredictedPrice: dec(p)}
	}
	return points
}

func TestChangePercent(t *testing.T) {
	tests := []struct {
		name    string
		history []PricePoint
		want    string
	}{
		{"falling series", history("100", "90", "80"), "-20"},
		{"rising series", history("50", "55"), "10"},
		{"uneven result rounds to two places", history("30", "31"), "3.33"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChangePercent(tt.history)
			require.NotNil(t, got)
			assert.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestChangePercentAbsent(t *testing.T) {
	assert.Nil(t, ChangePercent(nil))
	assert.Nil(t, ChangePercent(history("100")))
	assert.Nil(t, ChangePercent(history("0", "50")), "zero base has no defined change")
}

func TestPredictedPriceHorizonPick(t *testing.T) {
	series := make([]string, 40)
	for i := range series {
		series[i] = fmt.Sprintf("%d", 100+i)
	}

	got := PredictedPrice(predictions(series...), predictedPriceHorizon)

	require.NotNil(t, got)
	// Day 30 is index 29.
	assert.True(t, got.Equal(dec("129")), "got %s", got)
}

func TestPredictedPriceFallsBackToLastPoint(t *testing.T) {
	got := PredictedPrice(predictions("100", "101", "102"), predictedPriceHorizon)

	require.NotNil(t, got)
	assert.True(t, got.Equal(dec("102")))
}

func TestPredictedPriceEmptySeries(t *testing.T) {
	assert.Nil(t, PredictedPrice(nil, predictedPriceHorizon))
}

func newTestForecastService(baseURL string) *ForecastService {
	return NewForecastService(config.ForecastConfig{
		BaseURL:        baseURL,
		TimeoutSeconds: 5,
		CacheTTLSec:    60,
	})
}

func TestGetOutlookDerivesFigures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Soybean", r.URL.Query().Get("type"))
		assert.Equal(t, "30", r.URL.Query().Get("days"))
		switch r.URL.Path {
		case "/market/price-history":
			fmt.Fprint(w, `{"history":[{"date":"2026-08-01","price":100},{"date":"2026-08-30","price":80}]}`)
		case "/forecasts":
			fmt.Fprint(w, `{"predictions":[{"date":"2026-09-01","predicted_price":78,"confidence_lower":70,"confidence_upper":86}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	svc := newTestForecastService(server.URL)
	outlook, err := svc.GetOutlook(context.Background(), models.ProductTypeSoybean, 30)

	require.NoError(t, err)
	require.NotNil(t, outlook.ChangePercent)
	assert.True(t, outlook.ChangePercent.Equal(dec("-20")), "got %s", outlook.ChangePercent)
	require.NotNil(t, outlook.PredictedPrice)
	assert.True(t, outlook.PredictedPrice.Equal(dec("78")))
	assert.Len(t, outlook.History, 2)
	assert.Len(t, outlook.Predictions, 1)
}

func TestGetPriceHistoryMemoizes(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"history":[{"date":"2026-08-01","price":100},{"date":"2026-08-02","price":101}]}`)
	}))
	defer server.Close()

	svc := newTestForecastService(server.URL)
	ctx := context.Background()

	first, err := svc.GetPriceHistory(ctx, models.ProductTypeMustard, 7)
	require.NoError(t, err)
	second, err := svc.GetPriceHistory(ctx, models.ProductTypeMustard, 7)
	require.NoError(t, err)

	assert.Equal(t, 1, hits, "second call should hit the cache")
	assert.Equal(t, first, second)

	// A different window is a different key.
	_, err = svc.GetPriceHistory(ctx, models.ProductTypeMustard, 90)
	require.NoError(t, err)
	assert.Equal(t, 2, hits)
}

func TestFetchSurfacesUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := newTestForecastService(server.URL)
	_, err := svc.GetForecast(context.Background(), models.ProductTypeSesame, 30)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestDecimalQuantitiesRoundTrip(t *testing.T) {
	quote := PriceQuote{ProductType: models.ProductTypeSunflower, Price: dec("5123.45")}

	assert.Equal(t, "5123.45", quote.Price.String())
	assert.True(t, quote.Price.Sub(dec("0.45")).Equal(dec("5123")))
}
