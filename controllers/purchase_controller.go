package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/triplink-app/TripLink/config"
	"github.com/triplink-app/TripLink/models"
	"github.com/triplink-app/TripLink/services"
	"github.com/triplink-app/TripLink/utils"
)

func subscriptionJSON(sub models.PostSubscription) gin.H {
	out := gin.H{
		"id":            sub.ID,
		"post_id":       sub.PostID,
		"buyer_id":      sub.BuyerID,
		"author_id":     sub.AuthorID,
		"price":         utils.FormatMinor(sub.Price),
		"status":        sub.Status,
		"subscribed_at": sub.SubscribedAt.Format("2006-01-02 15:04:05"),
	}
	if sub.CancelledAt != nil {
		out["cancelled_at"] = sub.CancelledAt.Format("2006-01-02 15:04:05")
		out["cancellation_reason"] = sub.CancellationReason
	}
	return out
}

// PurchasePost buys a trip post: the buyer pays the listed price, the
// author earns it, and the post leaves the market.
func PurchasePost(c *gin.Context) {
	utils.LogInfo("PurchasePost called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid post ID", nil)
		return
	}

	var post models.Post
	if err := config.DB.First(&post, uint(id)).Error; err != nil {
		utils.NotFound(c, "Post not found")
		return
	}

	subscription, err := services.PurchasePost(user.ID, post.AuthorID, post.ID, post.Price)
	if err != nil {
		utils.LogError("Failed to purchase post ID: %d for user ID: %d: %v", post.ID, user.ID, err)
		respondServiceError(c, err)
		return
	}

	wallet, err := services.GetOrCreateWallet(user.ID)
	if err != nil {
		utils.LogError("Failed to get wallet for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get wallet", err.Error())
		return
	}

	utils.LogInfo("User ID: %d purchased post ID: %d (subscription ID: %d)", user.ID, post.ID, subscription.ID)
	utils.Success(c, "Post purchased successfully", gin.H{
		"subscription":   subscriptionJSON(*subscription),
		"wallet_balance": utils.FormatMinor(wallet.Balance),
	})
}

// ListMySubscriptions returns the user's subscriptions as a buyer
func ListMySubscriptions(c *gin.Context) {
	utils.LogInfo("ListMySubscriptions called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.PostSubscription{}).Where("buyer_id = ?", user.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count subscriptions for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to count subscriptions", err.Error())
		return
	}

	var subscriptions []models.PostSubscription
	if err := query.Order("subscribed_at DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&subscriptions).Error; err != nil {
		utils.LogError("Failed to get subscriptions for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get subscriptions", err.Error())
		return
	}

	formatted := make([]gin.H, len(subscriptions))
	for i, sub := range subscriptions {
		formatted[i] = subscriptionJSON(sub)
	}

	utils.SuccessWithPagination(c, "Subscriptions retrieved successfully", gin.H{
		"subscriptions": formatted,
	}, total, pagination.Page, pagination.Limit)
}

// CancelMySubscription lets a buyer walk away from a trip. The post
// returns to the market; no points move in either direction.
func CancelMySubscription(c *gin.Context) {
	utils.LogInfo("CancelMySubscription called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid subscription ID", nil)
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.Reason == "" {
		req.Reason = "Cancelled by buyer"
	}

	var subscription models.PostSubscription
	if err := config.DB.First(&subscription, uint(id)).Error; err != nil {
		utils.NotFound(c, "Subscription not found")
		return
	}
	if subscription.BuyerID != user.ID {
		utils.Forbidden(c, "This subscription does not belong to you")
		return
	}

	cancelled, err := services.CancelSubscription(uint(id), req.Reason)
	if err != nil {
		utils.LogError("Failed to cancel subscription ID: %d for user ID: %d: %v", id, user.ID, err)
		respondServiceError(c, err)
		return
	}

	utils.LogInfo("User ID: %d cancelled subscription ID: %d", user.ID, id)
	utils.Success(c, "Subscription cancelled successfully", gin.H{
		"subscription": subscriptionJSON(*cancelled),
	})
}

// AdminCancelSubscription cancels any subscription on behalf of the
// platform, typically on a dispute.
func AdminCancelSubscription(c *gin.Context) {
	utils.LogInfo("AdminCancelSubscription called")
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid subscription ID", nil)
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.Reason == "" {
		req.Reason = "Cancelled by platform"
	}

	cancelled, err := services.CancelSubscription(uint(id), req.Reason)
	if err != nil {
		utils.LogError("Admin ID: %d failed to cancel subscription ID: %d: %v", admin.ID, id, err)
		respondServiceError(c, err)
		return
	}

	utils.LogInfo("Admin ID: %d cancelled subscription ID: %d", admin.ID, id)
	utils.Success(c, "Subscription cancelled successfully", gin.H{
		"subscription": subscriptionJSON(*cancelled),
	})
}
