// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Enums
type UserType string

const (
	UserTypeFarmer UserType = "farmer"
	UserTypeTrader UserType = "trader"
)

func (t UserType) Valid() bool {
	return t == UserTypeFarmer || t == UserTypeTrader
}

// CounterParty returns the role on the other side of a contract.
func (t UserType) CounterParty() UserType {
	if t == UserTypeFarmer {
		return UserTypeTrader
	}
	return UserTypeFarmer
}

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type ProductType string

const (
	ProductTypeSoybean   ProductType = "Soybean"
	ProductTypeSunflower ProductType = "Sunflower"
	ProductTypeGroundnut ProductType = "Groundnut"
	ProductTypeMustard   ProductType = "Mustard"
	ProductTypeSesame    ProductType = "Sesame"
)

var ProductTypes = []ProductType{
	ProductTypeSoybean,
	ProductTypeSunflower,
	ProductTypeGroundnut,
	ProductTypeMustard,
	ProductTypeSesame,
}

func (p ProductType) Valid() bool {
	for _, t := range ProductTypes {
		if p == t {
			return true
		}
	}
	return false
}

type QuantityUnit string

const (
	UnitKg    QuantityUnit = "kg"
	UnitTonne QuantityUnit = "tonne"
)

func (u QuantityUnit) Valid() bool {
	return u == UnitKg || u == UnitTonne
}

type ContractStatus string

const (
	ContractStatusPending   ContractStatus = "PENDING"
	ContractStatusActive    ContractStatus = "ACTIVE"
	ContractStatusCompleted ContractStatus = "COMPLETED"
	ContractStatusRejected  ContractStatus = "REJECTED"
	ContractStatusCancelled ContractStatus = "CANCELLED"
)

// Terminal reports whether no further transition is possible.
func (s ContractStatus) Terminal() bool {
	switch s {
	case ContractStatusCompleted, ContractStatusRejected, ContractStatusCancelled:
		return true
	}
	return false
}

type ContractAction string

const (
	ActionAccept   ContractAction = "accept"
	ActionReject   ContractAction = "reject"
	ActionCancel   ContractAction = "cancel"
	ActionComplete ContractAction = "complete"
)

type NotificationType string

const (
	NotificationContractProposed  NotificationType = "contract_proposed"
	NotificationContractAccepted  NotificationType = "contract_accepted"
	NotificationContractRejected  NotificationType = "contract_rejected"
	NotificationContractCancelled NotificationType = "contract_cancelled"
	NotificationContractCompleted NotificationType = "contract_completed"
)
