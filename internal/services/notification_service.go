// internal/services/notification_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/agrolink/agrolink-backend/internal/models"
)

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// NotifyContractEvent records a notification for the party opposite the
// actor. Called after a transition commits; failures are logged, never
// propagated into the workflow.
func (s *NotificationService) NotifyContractEvent(c *models.Contract, event models.NotificationType, actor models.UserType) {
	recipient := c.PartyID(actor.CounterParty())
	contractID := c.ID

	notification := &models.Notification{
		UserID:     recipient,
		ContractID: &contractID,
		Type:       event,
		Message:    contractEventMessage(c, event),
	}

	if err := s.db.Create(notification).Error; err != nil {
		logrus.WithFields(logrus.Fields{
			"contract_id": c.ID,
			"event":       event,
		}).WithError(err).Warn("failed to record notification")
		return
	}

	logrus.WithFields(logrus.Fields{
		"contract_id": c.ID,
		"recipient":   recipient,
		"event":       event,
	}).Info("contract notification sent")
}

// GetUserNotifications returns the newest notifications for a user.
func (s *NotificationService) GetUserNotifications(userID uuid.UUID, limit int) ([]models.Notification, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var notifications []models.Notification
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationService) MarkRead(notificationID, userID uuid.UUID) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("notification: %w", ErrNotFound)
	}
	return nil
}

func contractEventMessage(c *models.Contract, event models.NotificationType) string {
	qty := fmt.Sprintf("%s %s of %s", c.Qty, c.Unit, c.ProductType)
	switch event {
	case models.NotificationContractProposed:
		return fmt.Sprintf("New contract proposal for %s at %s per %s", qty, c.PricePerUnit, c.Unit)
	case models.NotificationContractAccepted:
		return fmt.Sprintf("Your contract for %s was accepted", qty)
	case models.NotificationContractRejected:
		return fmt.Sprintf("Your contract for %s was rejected", qty)
	case models.NotificationContractCancelled:
		return fmt.Sprintf("The proposal for %s was cancelled", qty)
	case models.NotificationContractCompleted:
		return fmt.Sprintf("Contract for %s was completed", qty)
	}
	return fmt.Sprintf("Contract update for %s", qty)
}
