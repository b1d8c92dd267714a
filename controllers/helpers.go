package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/triplink-app/TripLink/models"
	"github.com/triplink-app/TripLink/services"
	"github.com/triplink-app/TripLink/utils"
)

// respondServiceError translates a service sentinel error into the
// standard JSON envelope.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.ValidationError(c, err.Error(), nil)
	case errors.Is(err, services.ErrNotFound):
		utils.NotFound(c, utils.ErrRecordNotFound)
	case errors.Is(err, services.ErrInsufficientBalance):
		utils.BadRequest(c, "Insufficient wallet balance", nil)
	case errors.Is(err, services.ErrDuplicateExternalRef):
		utils.Conflict(c, "External reference already in use", nil)
	case errors.Is(err, services.ErrInvalidTransition):
		utils.Conflict(c, "Operation not allowed in the current status", nil)
	case errors.Is(err, services.ErrMissingExternalRef):
		utils.BadRequest(c, "External reference is required", nil)
	case errors.Is(err, services.ErrPostUnavailable):
		utils.Conflict(c, "Post is no longer available", nil)
	default:
		utils.LogError("Unexpected service error: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
	}
}

// currentUser pulls the authenticated user placed in the context by
// the auth middleware. When absent the response has already been
// written and the bool is false.
func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	if !ok {
		utils.LogError("Invalid user type in context")
		utils.BadRequest(c, "Invalid user in context", nil)
		return models.User{}, false
	}
	return user, true
}

// currentAdmin pulls the authenticated admin from the context.
func currentAdmin(c *gin.Context) (models.Admin, bool) {
	adminVal, exists := c.Get("admin")
	if !exists {
		utils.LogError("Admin not found in context")
		utils.Unauthorized(c, "Admin not found")
		return models.Admin{}, false
	}
	admin, ok := adminVal.(models.Admin)
	if !ok {
		utils.LogError("Invalid admin type in context")
		utils.BadRequest(c, "Invalid admin in context", nil)
		return models.Admin{}, false
	}
	return admin, true
}

// transactionJSON renders a ledger entry for API responses with
// amounts formatted as decimal point strings.
func transactionJSON(txn models.Transaction) gin.H {
	out := gin.H{
		"id":          txn.ID,
		"type":        txn.Type,
		"amount":      utils.FormatMinor(txn.Amount),
		"status":      txn.Status,
		"description": txn.Description,
		"created_at":  txn.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if txn.ExternalRef != nil {
		out["external_ref"] = *txn.ExternalRef
	}
	return out
}

// cashoutJSON renders a cashout request for API responses.
func cashoutJSON(req models.CashoutRequest) gin.H {
	out := gin.H{
		"id":               req.ID,
		"user_id":          req.UserID,
		"requested_amount": utils.FormatMinor(req.RequestedAmount),
		"fee_percent":      req.FeePercent,
		"fee_amount":       utils.FormatMinor(req.FeeAmount),
		"final_amount":     utils.FormatMinor(req.FinalAmount),
		"status":           req.Status,
		"admin_notes":      req.AdminNotes,
		"created_at":       req.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if req.PaymentMethodID != 0 {
		out["payment_method_id"] = req.PaymentMethodID
	}
	if req.ExternalRef != nil {
		out["external_ref"] = *req.ExternalRef
	}
	if req.ProcessedAt != nil {
		out["processed_at"] = req.ProcessedAt.Format("2006-01-02 15:04:05")
	}
	return out
}
