package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/triplink-app/TripLink/config"
	"github.com/triplink-app/TripLink/models"
	"github.com/triplink-app/TripLink/services"
	"github.com/triplink-app/TripLink/utils"
)

// InitiateRecharge creates a payment-gateway order to add points to
// the wallet
func InitiateRecharge(c *gin.Context) {
	utils.LogInfo("InitiateRecharge called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Points int64 `json:"points" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request body for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request. Points are required and must be positive", err.Error())
		return
	}

	amountMinor := utils.PointsToMinor(req.Points)

	client := razorpay.NewClient(os.Getenv("RAZORPAY_KEY"), os.Getenv("RAZORPAY_SECRET"))
	orderData := map[string]interface{}{
		"amount":          amountMinor,
		"currency":        "INR",
		"receipt":         "recharge_" + strconv.FormatUint(uint64(user.ID), 10) + "_" + time.Now().Format("20060102150405"),
		"payment_capture": 1,
	}

	rzOrder, err := client.Order.Create(orderData, nil)
	if err != nil {
		utils.LogError("Failed to create gateway order for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create payment order", err.Error())
		return
	}
	gatewayOrderID := fmt.Sprintf("%v", rzOrder["id"])
	utils.LogDebug("Created gateway order %s for user ID: %d", gatewayOrderID, user.ID)

	rechargeOrder := models.RechargeOrder{
		UserID:         user.ID,
		GatewayOrderID: gatewayOrderID,
		Amount:         amountMinor,
		Status:         "pending",
	}
	if err := config.DB.Create(&rechargeOrder).Error; err != nil {
		utils.LogError("Failed to record recharge order for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to record recharge order", err.Error())
		return
	}

	utils.LogInfo("Initiated recharge of %d points for user ID: %d", req.Points, user.ID)
	utils.Success(c, "Recharge order created successfully", gin.H{
		"gateway_order_id": gatewayOrderID,
		"amount_display":   utils.FormatMinor(amountMinor),
		"key":              os.Getenv("RAZORPAY_KEY"),
	})
}

// VerifyRecharge verifies the gateway payment and credits the wallet
// through the ledger. The gateway payment id is the external
// reference, so replaying the same verification never credits twice.
func VerifyRecharge(c *gin.Context) {
	utils.LogInfo("VerifyRecharge called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		GatewayOrderID   string `json:"gateway_order_id" binding:"required"`
		GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
		GatewaySignature string `json:"gateway_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request body for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var rechargeOrder models.RechargeOrder
	err := config.DB.Where("gateway_order_id = ? AND user_id = ?", req.GatewayOrderID, user.ID).
		First(&rechargeOrder).Error
	if err != nil || rechargeOrder.Amount <= 0 {
		utils.LogError("Failed to fetch recharge order %s: %v", req.GatewayOrderID, err)
		utils.BadRequest(c, "Unable to find a recharge order for this order id", nil)
		return
	}

	keySecret := os.Getenv("RAZORPAY_SECRET")
	data := req.GatewayOrderID + "|" + req.GatewayPaymentID
	h := hmac.New(sha256.New, []byte(keySecret))
	h.Write([]byte(data))
	generatedSignature := hex.EncodeToString(h.Sum(nil))
	if generatedSignature != req.GatewaySignature {
		utils.LogError("Payment verification failed for order %s", req.GatewayOrderID)
		utils.BadRequest(c, "Payment verification failed", gin.H{"retry": true})
		return
	}

	reference := "RECHARGE-" + req.GatewayPaymentID
	txn, err := services.RecordTransaction(services.RecordTransactionParams{
		UserID:      user.ID,
		Type:        models.TransactionTypeRecharge,
		Amount:      rechargeOrder.Amount,
		Status:      models.TransactionStatusCompleted,
		ExternalRef: &reference,
		Description: "Wallet recharge via payment gateway",
	})
	if err != nil {
		// The reference already belongs to a completed recharge: the
		// gateway retried the callback, report the original result.
		if errors.Is(err, services.ErrDuplicateExternalRef) {
			var existing models.Transaction
			if lookupErr := config.DB.Where("external_ref = ? AND user_id = ?", reference, user.ID).
				First(&existing).Error; lookupErr == nil {
				utils.LogInfo("Recharge %s already credited for user ID: %d", reference, user.ID)
				utils.Success(c, "Recharge already credited", gin.H{
					"transaction": transactionJSON(existing),
				})
				return
			}
		}
		respondServiceError(c, err)
		return
	}

	if err := config.DB.Model(&models.RechargeOrder{}).
		Where("id = ? AND status = ?", rechargeOrder.ID, "pending").
		Update("status", "completed").Error; err != nil {
		utils.LogError("Failed to update recharge order status for order %s: %v", req.GatewayOrderID, err)
	}

	wallet, err := services.GetOrCreateWallet(user.ID)
	if err != nil {
		utils.LogError("Failed to get updated wallet for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get updated wallet", err.Error())
		return
	}

	utils.LogInfo("Recharge completed for user ID: %d, transaction ID: %d", user.ID, txn.ID)
	utils.Success(c, "Points added to wallet successfully!", gin.H{
		"amount_added":   utils.FormatMinor(rechargeOrder.Amount),
		"wallet_balance": utils.FormatMinor(wallet.Balance),
		"transaction":    transactionJSON(*txn),
	})
}
