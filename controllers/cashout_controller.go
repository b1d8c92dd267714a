package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/triplink-app/TripLink/config"
	"github.com/triplink-app/TripLink/models"
	"github.com/triplink-app/TripLink/services"
	"github.com/triplink-app/TripLink/utils"
)

// CreateCashoutRequest lets a user ask for their points to be paid out.
// The request starts pending; points stay in the wallet until an admin
// completes the payout.
func CreateCashoutRequest(c *gin.Context) {
	utils.LogInfo("CreateCashoutRequest called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Points          int64 `json:"points" binding:"required"`
		PaymentMethodID uint  `json:"payment_method_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request body for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request. Points are required", err.Error())
		return
	}

	request, err := services.CreateCashoutRequest(services.CreateCashoutParams{
		UserID:          user.ID,
		Points:          req.Points,
		FeePercent:      utils.DefaultCashoutFeePercent,
		PaymentMethodID: req.PaymentMethodID,
		InitialStatus:   models.CashoutStatusPending,
	})
	if err != nil {
		utils.LogError("Failed to create cashout request for user ID: %d: %v", user.ID, err)
		respondServiceError(c, err)
		return
	}

	utils.LogInfo("Cashout request ID: %d created for user ID: %d", request.ID, user.ID)
	utils.Created(c, "Cashout request submitted successfully", gin.H{
		"cashout": cashoutJSON(*request),
	})
}

// ListMyCashoutRequests returns the user's own cashout requests,
// newest first.
func ListMyCashoutRequests(c *gin.Context) {
	utils.LogInfo("ListMyCashoutRequests called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.CashoutRequest{}).Where("user_id = ?", user.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count cashout requests for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to count cashout requests", err.Error())
		return
	}

	var requests []models.CashoutRequest
	if err := query.Order("created_at DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&requests).Error; err != nil {
		utils.LogError("Failed to get cashout requests for user ID: %d: %v", user.ID, err)
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
