// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Name         string     `json:"name" gorm:"size:100;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	UserType     UserType   `json:"user_type" gorm:"type:varchar(10);not null;index"`
	Phone        string     `json:"phone" gorm:"size:20"`
	City         string     `json:"city" gorm:"size:100"`
	State        string     `json:"state" gorm:"size:100"`
	Pincode      string     `json:"pincode" gorm:"size:10"`
	Status       UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	// Relationships
	Listings []ProductListing `json:"listings,omitempty" gorm:"foreignKey:FarmerID"`
}

// Location is the display form used on contract cards.
func (u *User) Location() string {
	if u.City == "" {
		return u.State
	}
	if u.State == "" {
		return u.City
	}
	return u.City + ", " + u.State
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
