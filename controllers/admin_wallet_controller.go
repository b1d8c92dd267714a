package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/triplink-app/TripLink/models"
	"github.com/triplink-app/TripLink/services"
	"github.com/triplink-app/TripLink/utils"
)

// AdminAdjustWallet credits or debits a user's wallet directly. The
// adjustment goes through the ledger so it shows up in the user's
// history; a debit below zero is rejected.
func AdminAdjustWallet(c *gin.Context) {
	utils.LogInfo("AdminAdjustWallet called")
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}

	var req struct {
		UserID      uint   `json:"user_id" binding:"required"`
		Points      int64  `json:"points" binding:"required"`
		Reason      string `json:"reason" binding:"required"`
		ExternalRef string `json:"external_ref"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request body from admin ID: %d: %v", admin.ID, err)
		utils.BadRequest(c, "Invalid request. User, points and reason are required", err.Error())
		return
	}

	var externalRef *string
	if req.ExternalRef != "" {
		externalRef = &req.ExternalRef
	}

	txn, err := services.RecordTransaction(services.RecordTransactionParams{
		UserID:      req.UserID,
		Type:        models.TransactionTypeAdminAdjustment,
		Amount:      utils.PointsToMinor(req.Points),
		Status:      models.TransactionStatusCompleted,
		ExternalRef: externalRef,
		Description: req.Reason,
	})
	if err != nil {
		utils.LogError("Admin ID: %d failed to adjust wallet for user ID: %d: %v", admin.ID, req.UserID, err)
		respondServiceError(c, err)
		return
	}

	wallet, err := services.GetOrCreateWallet(req.UserID)
	if err != nil {
		utils.LogError("Failed to get wallet for user ID: %d: %v", req.UserID, err)
		utils.InternalServerError(c, "Failed to get wallet", err.Error())
		return
	}

	utils.LogInfo("Admin ID: %d adjusted wallet for user ID: %d by %s", admin.ID, req.UserID, utils.FormatMinor(txn.Amount))
	utils.Success(c, "Wallet adjusted successfully", gin.H{
		"transaction":    transactionJSON(*txn),
		"wallet_balance": utils.FormatMinor(wallet.Balance),
	})
}
