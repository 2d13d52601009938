package routes

import (
	"github.com/gin-gonic/gin"

	controller "bitefactory-backend/controllers"
	"bitefactory-backend/middleware"
)

// OrderRoutes holds the public order surface: customers submit orders and
// fetch their invoice without an account.
func OrderRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/orders", controller.CreateOrder())
}

// OrderAdminRoutes is registered after the authentication middleware.
func OrderAdminRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/orders", controller.GetOrders())
	incomingRoutes.GET("/orders/:order_id", controller.GetOrder())
	incomingRoutes.PATCH("/orders/:order_id/status", middleware.AdminOnly(), controller.UpdateOrderStatus())
	incomingRoutes.POST("/orders/:order_id/payment", controller.ConfirmPayment())
	incomingRoutes.PATCH("/orders/:order_id/cancel", controller.CancelOrder())
	incomingRoutes.GET("/notifications", controller.GetNotifications())
	incomingRoutes.PATCH("/notifications/:notification_id/read", controller.MarkNotificationRead())
}
