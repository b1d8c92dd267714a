package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/triplink-app/TripLink/config"
	"github.com/triplink-app/TripLink/models"
	"github.com/triplink-app/TripLink/services"
	"github.com/triplink-app/TripLink/utils"
)

func cashoutIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid cashout request ID", nil)
		return 0, false
	}
	return uint(id), true
}

// notifyCashoutCompleted sends the payout email after the database
// work has committed. A send failure is only logged.
func notifyCashoutCompleted(request *models.CashoutRequest) {
	var user models.User
	if err := config.DB.First(&user, request.UserID).Error; err != nil {
		utils.LogError("Failed to look up user %d for cashout email: %v", request.UserID, err)
		return
	}
	reference := ""
	if request.ExternalRef != nil {
		reference = *request.ExternalRef
	}
	if err := utils.SendCashoutCompletedEmail(user.Email, request.ID,
		utils.FormatMinor(request.FinalAmount), utils.FormatMinor(request.FeeAmount), reference); err != nil {
		utils.LogError("Failed to send cashout completed email to %s: %v", user.Email, err)
	}
}

func notifyCashoutCancelled(request *models.CashoutRequest, refunded bool) {
	var user models.User
	if err := config.DB.First(&user, request.UserID).Error; err != nil {
		utils.LogError("Failed to look up user %d for cashout email: %v", request.UserID, err)
		return
	}
	refund := "0.00"
	if refunded {
		refund = utils.FormatMinor(request.RequestedAmount)
	}
	if err := utils.SendCashoutCancelledEmail(user.Email, request.ID, refund); err != nil {
		utils.LogError("Failed to send cashout cancelled email to %s: %v", user.Email, err)
	}
}

// AdminListCashoutRequests lists all cashout requests with optional
// status and user filters.
func AdminListCashoutRequests(c *gin.Context) {
	utils.LogInfo("AdminListCashoutRequests called")
	if _, ok := currentAdmin(c); !ok {
		return
	}

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.CashoutRequest{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count cashout requests: %v", err)
		utils.InternalServerError(c, "Failed to count cashout requests", err.Error())
		return
	}

	var requests []models.CashoutRequest
	if err := query.Order("created_at DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&requests).Error; err != nil {
		utils.LogError("Failed to get cashout requests: %v", err)
		utils.InternalServerError(c, "Failed to get cashout requests", err.Error())
		return
	}

	formatted := make([]gin.H, len(requests))
	for i, req := range requests {
		formatted[i] = cashoutJSON(req)
	}

	utils.SuccessWithPagination(c, "Cashout requests retrieved successfully", gin.H{
		"cashouts": formatted,
	}, total, pagination.Page, pagination.Limit)
}

// AdminCreateCashoutRequest opens a cashout on behalf of a user. When
// the payout already happened off-platform the admin records it as
// completed and must supply the payment reference.
func AdminCreateCashoutRequest(c *gin.Context) {
	utils.LogInfo("AdminCreateCashoutRequest called")
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}

	var req struct {
		UserID          uint    `json:"user_id" binding:"required"`
		Points          int64   `json:"points" binding:"required"`
		FeePercent      float64 `json:"fee_percent"`
		PaymentMethodID uint    `json:"payment_method_id"`
		Status          string  `json:"status"`
		ExternalRef     string  `json:"external_ref"`
		AdminNotes      string  `json:"admin_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request body from admin ID: %d: %v", admin.ID, err)
		utils.BadRequest(c, "Invalid request. User and points are required", err.Error())
		return
	}

	feePercent := req.FeePercent
	if feePercent == 0 {
		feePercent = utils.DefaultCashoutFeePercent
	}
	var externalRef *string
	if req.ExternalRef != "" {
		externalRef = &req.ExternalRef
	}

	request, err := services.CreateCashoutRequest(services.CreateCashoutParams{
		UserID:          req.UserID,
		Points:          req.Points,
		FeePercent:      feePercent,
		PaymentMethodID: req.PaymentMethodID,
		ExternalRef:     externalRef,
		InitialStatus:   req.Status,
		AdminNotes:      req.AdminNotes,
	})
	if err != nil {
		utils.LogError("Admin ID: %d failed to create cashout for user ID: %d: %v", admin.ID, req.UserID, err)
		respondServiceError(c, err)
		return
	}

	if request.Status == models.CashoutStatusCompleted {
		notifyCashoutCompleted(request)
	}

	utils.LogInfo("Admin ID: %d created cashout request ID: %d for user ID: %d", admin.ID, request.ID, req.UserID)
	utils.Created(c, "Cashout request created successfully", gin.H{
		"cashout": cashoutJSON(*request),
	})
}

// AdminProcessCashout marks a pending request as being worked on.
func AdminProcessCashout(c *gin.Context) {
	utils.LogInfo("AdminProcessCashout called")
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}
	id, ok := cashoutIDParam(c)
	if !ok {
		return
	}

	var req struct {
		AdminNotes string `json:"admin_notes"`
	}
	_ = c.ShouldBindJSON(&req)

	request, err := services.ProcessCashout(id, req.AdminNotes)
	if err != nil {
		utils.LogError("Admin ID: %d failed to process cashout ID: %d: %v", admin.ID, id, err)
		respondServiceError(c, err)
		return
	}

	utils.LogInfo("Admin ID: %d moved cashout ID: %d to processing", admin.ID, id)
	utils.Success(c, "Cashout request is now processing", gin.H{
		"cashout": cashoutJSON(*request),
	})
}

// AdminCompleteCashout finalises a payout with the payment provider's
// reference and deducts the points from the wallet.
func AdminCompleteCashout(c *gin.Context) {
	utils.LogInfo("AdminCompleteCashout called")
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}
	id, ok := cashoutIDParam(c)
	if !ok {
		return
	}

	var req struct {
		ExternalRef string `json:"external_ref" binding:"required"`
		AdminNotes  string `json:"admin_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request body from admin ID: %d: %v", admin.ID, err)
		utils.BadRequest(c, "Payment reference is required", err.Error())
		return
	}

	request, err := services.CompleteCashout(id, req.ExternalRef, req.AdminNotes)
	if err != nil {
		utils.LogError("Admin ID: %d failed to complete cashout ID: %d: %v", admin.ID, id, err)
		respondServiceError(c, err)
		return
	}

	notifyCashoutCompleted(request)

	utils.LogInfo("Admin ID: %d completed cashout ID: %d with reference %s", admin.ID, id, req.ExternalRef)
	utils.Success(c, "Cashout completed successfully", gin.H{
		"cashout": cashoutJSON(*request),
	})
}

// AdminCancelCashout cancels a request. Cancelling after completion
// refunds the full requested amount; the platform fee is forfeited.
func AdminCancelCashout(c *gin.Context) {
	utils.LogInfo("AdminCancelCashout called")
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}
	id, ok := cashoutIDParam(c)
	if !ok {
		return
	}

	var req struct {
		AdminNotes string `json:"admin_notes"`
	}
	_ = c.ShouldBindJSON(&req)

	// Whether the cancel refunds depends on the status before the
	// flip, captured here for the notification email.
	var before models.CashoutRequest
	_ = config.DB.First(&before, id).Error
	wasCompleted := before.Status == models.CashoutStatusCompleted

	request, err := services.CancelCashout(id, req.AdminNotes)
	if err != nil {
		utils.LogError("Admin ID: %d failed to cancel cashout ID: %d: %v", admin.ID, id, err)
		respondServiceError(c, err)
		return
	}

	notifyCashoutCancelled(request, wasCompleted)

	utils.LogInfo("Admin ID: %d cancelled cashout ID: %d", admin.ID, id)
	utils.Success(c, "Cashout cancelled successfully", gin.H{
		"cashout":  cashoutJSON(*request),
		"refunded": wasCompleted,
	})
}

// AdminFailCashout records a payout rejected by the payment provider.
func AdminFailCashout(c *gin.Context) {
	utils.LogInfo("AdminFailCashout called")
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}
	id, ok := cashoutIDParam(c)
	if !ok {
		return
	}

	var req struct {
		AdminNotes string `json:"admin_notes"`
	}
	_ = c.ShouldBindJSON(&req)

	request, err := services.FailCashout(id, req.AdminNotes)
	if err != nil {
		utils.LogError("Admin ID: %d failed to mark cashout ID: %d as failed: %v", admin.ID, id, err)
		respondServiceError(c, err)
		return
	}

	utils.LogInfo("Admin ID: %d marked cashout ID: %d as failed", admin.ID, id)
	utils.Success(c, "Cashout marked as failed", gin.H{
		"cashout": cashoutJSON(*request),
	})
}
