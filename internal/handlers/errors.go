// internal/handlers/errors.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/agrolink/agrolink-backend/internal/ledger"
	"github.com/agrolink/agrolink-backend/internal/services"
	"github.com/agrolink/agrolink-backend/internal/utils"
	"github.com/agrolink/agrolink-backend/internal/workflow"
)

// respondDomainError maps service and domain errors onto the HTTP
// surface. User-facing conflicts (not enough stock, wrong state, wrong
// actor) come back as 409; reserved or committed shortfalls are
// internal bugs and surface as 500 without leaking ledger detail.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, "Resource")
	case errors.Is(err, services.ErrEmailTaken):
		utils.ConflictResponse(c, "EMAIL_TAKEN", "An account with this email already exists")
	case errors.Is(err, services.ErrInvalidCredential):
		utils.UnauthorizedResponse(c, "Invalid email or password")
	case errors.Is(err, services.ErrAccountInactive):
		utils.ForbiddenResponse(c, "Account is not active")
	case errors.Is(err, services.ErrNotOwner):
		utils.ForbiddenResponse(c, "You do not own this resource")
	case errors.Is(err, ledger.ErrInsufficientAvailable):
		utils.ConflictResponse(c, "INSUFFICIENT_AVAILABLE", err.Error())
	case errors.Is(err, ledger.ErrInsufficientReserved),
		errors.Is(err, ledger.ErrInsufficientCommitted):
		utils.InternalErrorResponse(c, "")
	case errors.Is(err, ledger.ErrNonPositiveQuantity):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, workflow.ErrInvalidTransition):
		utils.ConflictResponse(c, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, workflow.ErrValidation),
		errors.Is(err, services.ErrValidationFailed):
		utils.BadRequestResponse(c, err.Error(), nil)
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}
