package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/triplink-app/TripLink/services"
	"github.com/triplink-app/TripLink/utils"
)

// AdminRunExpirySweep cancels subscriptions on trips whose dates have
// passed. Safe to trigger repeatedly; an already-swept post is skipped.
func AdminRunExpirySweep(c *gin.Context) {
	utils.LogInfo("AdminRunExpirySweep called")
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}

	result, err := services.RunExpirySweep(time.Now())
	if err != nil {
		utils.LogError("Expiry sweep failed: %v", err)
		utils.InternalServerError(c, "Expiry sweep failed", err.Error())
		return
	}

	utils.LogInfo("Admin ID: %d ran expiry sweep: %d scanned, %d cancelled, %d errors",
		admin.ID, result.Scanned, result.CancelledSubscriptions, result.Errors)
	utils.Success(c, "Expiry sweep finished", gin.H{
		"scanned":                 result.Scanned,
		"cancelled_subscriptions": result.CancelledSubscriptions,
		"errors":                  result.Errors,
	})
}
