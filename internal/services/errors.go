// internal/services/errors.go
package services

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrEmailTaken        = errors.New("user with this email already exists")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrAccountInactive   = errors.New("account is not active")
	ErrNotOwner          = errors.New("not the owner of this resource")
	ErrValidationFailed  = errors.New("validation failed")
)
