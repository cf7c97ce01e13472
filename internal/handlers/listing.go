// internal/handlers/listing.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agrolink/agrolink-backend/internal/models"
	"github.com/agrolink/agrolink-backend/internal/services"
	"github.com/agrolink/agrolink-backend/internal/utils"
)

type ListingHandler struct {
	listingService  *services.ListingService
	contractService *services.ContractService
}

func NewListingHandler(listingService *services.ListingService, contractService *services.ContractService) *ListingHandler {
	return &ListingHandler{
		listingService:  listingService,
		contractService: contractService,
	}
}

// POST /listings
func (h *ListingHandler) CreateListing(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	role, ok := currentUserRole(c)
	if !ok {
		return
	}
	if role != models.UserTypeFarmer {
		utils.ForbiddenResponse(c, "Only farmers can create listings")
		return
	}

	var req services.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	listing, err := h.listingService.CreateListing(userID, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"listing": listing})
}

// GET /listings
//
// Farmers see their own book; traders browse listings with available
// quantity, optionally filtered by ?type= and ?farmer_id=.
func (h *ListingHandler) ListListings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	role, ok := currentUserRole(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	if role == models.UserTypeFarmer {
		listings, total, err := h.listingService.GetFarmerListings(userID, params)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		utils.PaginatedResponse(c, utils.CreatePaginationResult(listings, total, params))
		return
	}

	searchParams := services.ListingSearchParams{PaginationParams: params}
	if typeStr := c.Query("type"); typeStr != "" {
		productType := models.ProductType(typeStr)
		if !productType.Valid() {
			utils.BadRequestResponse(c, "Unknown product type", nil)
			return
		}
		searchParams.Type = &productType
	}
	if farmerStr := c.Query("farmer_id"); farmerStr != "" {
		farmerID, err := uuid.Parse(farmerStr)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid farmer ID", nil)
			return
		}
		searchParams.FarmerID = &farmerID
	}

	listings, total, err := h.listingService.SearchAvailable(searchParams)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(listings, total, params))
}

// GET /listings/:id
func (h *ListingHandler) GetListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	listing, err := h.listingService.GetListing(listingID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"listing": listing})
}

// GET /listings/:id/contracts
func (h *ListingHandler) GetListingContracts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	var status *models.ContractStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := models.ContractStatus(strings.ToUpper(statusStr))
		status = &s
	}

	contracts, err := h.contractService.GetListingContracts(listingID, userID, status)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"contracts": contracts})
}
