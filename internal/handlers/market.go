// internal/handlers/market.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agrolink/agrolink-backend/internal/models"
	"github.com/agrolink/agrolink-backend/internal/services"
	"github.com/agrolink/agrolink-backend/internal/utils"
)

type MarketHandler struct {
	marketService   *services.MarketService
	forecastService *services.ForecastService
}

func NewMarketHandler(marketService *services.MarketService, forecastService *services.ForecastService) *MarketHandler {
	return &MarketHandler{
		marketService:   marketService,
		forecastService: forecastService,
	}
}

const defaultWindowDays = 30

// GET /market/prices
func (h *MarketHandler) GetCurrentPrices(c *gin.Context) {
	var productType *models.ProductType
	if typeStr := c.Query("type"); typeStr != "" {
		t := models.ProductType(typeStr)
		if !t.Valid() {
			utils.BadRequestResponse(c, "Unknown product type", nil)
			return
		}
		productType = &t
	}

	quotes, err := h.marketService.CurrentPrices(productType)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"prices": quotes})
}

// GET /market/price-history
func (h *MarketHandler) GetPriceHistory(c *gin.Context) {
	productType, days, ok := outlookParams(c)
	if !ok {
		return
	}

	history, err := h.forecastService.GetPriceHistory(c.Request.Context(), productType, days)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"type":    productType,
		"days":    days,
		"history": history,
	})
}

// GET /forecasts
//
// Returns history, predictions and the derived change and predicted
// price figures in one payload.
func (h *MarketHandler) GetForecast(c *gin.Context) {
	productType, days, ok := outlookParams(c)
	if !ok {
		return
	}

	outlook, err := h.forecastService.GetOutlook(c.Request.Context(), productType, days)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.SuccessResponse(c, outlook)
}

func outlookParams(c *gin.Context) (models.ProductType, int, bool) {
	productType := models.ProductType(c.Query("type"))
	if !productType.Valid() {
		utils.BadRequestResponse(c, "Unknown product type", nil)
		return "", 0, false
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(defaultWindowDays)))
	if err != nil || days < 1 || days > 365 {
		utils.BadRequestResponse(c, "days must be between 1 and 365", nil)
		return "", 0, false
	}

	return productType, days, true
}
