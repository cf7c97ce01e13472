// internal/handlers/dashboard.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agrolink/agrolink-backend/internal/models"
	"github.com/agrolink/agrolink-backend/internal/services"
	"github.com/agrolink/agrolink-backend/internal/utils"
)

type DashboardHandler struct {
	dashboardService    *services.DashboardService
	notificationService *services.NotificationService
}

func NewDashboardHandler(dashboardService *services.DashboardService, notificationService *services.NotificationService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService:    dashboardService,
		notificationService: notificationService,
	}
}

// GET /dashboard/summary
//
// The shape of the summary follows the caller's role.
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	role, ok := currentUserRole(c)
	if !ok {
		return
	}

	switch role {
	case models.UserTypeFarmer:
		summary, err := h.dashboardService.GetFarmerSummary(userID)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		utils.SuccessResponse(c, summary)
	case models.UserTypeTrader:
		summary, err := h.dashboardService.GetTraderSummary(userID)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		utils.SuccessResponse(c, summary)
	}
}

// GET /notifications
func (h *DashboardHandler) GetNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	notifications, err := h.notificationService.GetUserNotifications(userID, limit)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"notifications": notifications})
}

// POST /notifications/:id/read
func (h *DashboardHandler) MarkNotificationRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid notification ID", nil)
		return
	}

	if err := h.notificationService.MarkRead(notificationID, userID); err != nil {
		respondDomainError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"read": true})
}
