// internal/handlers/contract.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agrolink/agrolink-backend/internal/models"
	"github.com/agrolink/agrolink-backend/internal/services"
	"github.com/agrolink/agrolink-backend/internal/utils"
)

type ContractHandler struct {
	contractService *services.ContractService
}

func NewContractHandler(contractService *services.ContractService) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
	}
}

// POST /contracts
func (h *ContractHandler) ProposeContract(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	role, ok := currentUserRole(c)
	if !ok {
		return
	}

	var req services.ProposeContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	contract, err := h.contractService.ProposeContract(userID, role, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"contract": contract})
}

// GET /contracts
func (h *ContractHandler) ListContracts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	role, ok := currentUserRole(c)
	if !ok {
		return
	}

	params := services.ContractListParams{
		PaginationParams: utils.GetPaginationParams(c),
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.ContractStatus(strings.ToUpper(statusStr))
		params.Status = &status
	}

	contracts, total, err := h.contractService.ListContracts(userID, role, params)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(contracts, total, params.PaginationParams))
}

// GET /contracts/:id
func (h *ContractHandler) GetContract(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid contract ID", nil)
		return
	}

	contract, err := h.contractService.GetContract(contractID, userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"contract": contract})
}

// GET /contracts/:id/actions
func (h *ContractHandler) GetAllowedActions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	role, ok := currentUserRole(c)
	if !ok {
		return
	}

	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid contract ID", nil)
		return
	}

	actions, err := h.contractService.AllowedActions(contractID, userID, role)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"actions": actions})
}

// POST /contracts/:id/respond
//
// The counter-party to the proposer accepts or rejects a pending
// proposal.
func (h *ContractHandler) RespondToContract(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	role, ok := currentUserRole(c)
	if !ok {
		return
	}

	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid contract ID", nil)
		return
	}

	var req services.RespondContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	contract, err := h.contractService.RespondToContract(contractID, userID, role, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"contract": contract})
}

// POST /contracts/:id/cancel
func (h *ContractHandler) CancelContract(c *gin.Context) {
	h.transition(c, h.contractService.CancelContract)
}

// POST /contracts/:id/complete
func (h *ContractHandler) CompleteContract(c *gin.Context) {
	h.transition(c, h.contractService.CompleteContract)
}

func (h *ContractHandler) transition(c *gin.Context, apply func(uuid.UUID, uuid.UUID, models.UserType) (*models.Contract, error)) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	role, ok := currentUserRole(c)
	if !ok {
		return
	}

	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid contract ID", nil)
		return
	}

	contract, err := apply(contractID, userID, role)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"contract": contract})
}
