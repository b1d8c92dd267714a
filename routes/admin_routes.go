package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/triplink-app/TripLink/controllers"
	"github.com/triplink-app/TripLink/middleware"
)

// initAdminRoutes initializes all admin-related routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		// Public admin routes
		admin.POST("/login", controllers.AdminLogin)
		admin.POST("/logout", controllers.AdminLogout)

		// Protected admin routes
		admin.Use(middleware.AdminAuthMiddleware())
		{
			cashouts := admin.Group("/cashouts")
			{
				cashouts.GET("", controllers.AdminListCashoutRequests)
				cashouts.POST("", controllers.AdminCreateCashoutRequest)
				cashouts.GET("/export", controllers.AdminExportCashouts)
				cashouts.POST("/:id/process", controllers.AdminProcessCashout)
				cashouts.POST("/:id/complete", controllers.AdminCompleteCashout)
				cashouts.POST("/:id/cancel", controllers.AdminCancelCashout)
				cashouts.POST("/:id/fail", controllers.AdminFailCashout)
			}

			admin.POST("/wallets/adjust", controllers.AdminAdjustWallet)
			admin.POST("/subscriptions/:id/cancel", controllers.AdminCancelSubscription)
			admin.POST("/sweeps/expiry", controllers.AdminRunExpirySweep)
		}
	}
}
