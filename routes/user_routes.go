package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/triplink-app/TripLink/controllers"
	"github.com/triplink-app/TripLink/middleware"
)

// initUserRoutes initializes all user-related routes
func initUserRoutes(router *gin.RouterGroup) {
	// Public routes
	router.POST("/register", controllers.Register)
	router.POST("/login", controllers.Login)
	router.GET("/posts", controllers.ListPosts)
	router.GET("/posts/:id", controllers.GetPost)

	// Authenticated user routes
	user := router.Group("")
	user.Use(middleware.AuthMiddleware())
	{
		wallet := user.Group("/wallet")
		{
			wallet.GET("", controllers.GetWalletBalance)
			wallet.GET("/transactions", controllers.GetWalletTransactions)
			wallet.GET("/statement", controllers.DownloadWalletStatement)
			wallet.POST("/recharge", controllers.InitiateRecharge)
			wallet.POST("/recharge/verify", controllers.VerifyRecharge)
		}

		cashouts := user.Group("/cashouts")
		{
			cashouts.POST("", controllers.CreateCashoutRequest)
			cashouts.GET("", controllers.ListMyCashoutRequests)
		}

		user.POST("/posts", controllers.CreatePost)
		user.POST("/posts/:id/purchase", controllers.PurchasePost)

		subscriptions := user.Group("/subscriptions")
		{
			subscriptions.GET("", controllers.ListMySubscriptions)
			subscriptions.POST("/:id/cancel", controllers.CancelMySubscription)
		}
	}
}
