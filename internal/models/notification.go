// internal/models/notification.go
package models

import (
	"github.com/google/uuid"
)

type Notification struct {
	BaseModel
	UserID     uuid.UUID        `json:"user_id" gorm:"type:uuid;not null;index"`
	ContractID *uuid.UUID       `json:"contract_id,omitempty" gorm:"type:uuid;index"`
	Type       NotificationType `json:"type" gorm:"type:varchar(40);not null"`
	Message    string           `json:"message" gorm:"type:text;not null"`
	IsRead     bool             `json:"is_read" gorm:"default:false"`
}
