package routes

import (
	"github.com/gin-gonic/gin"

	controller "bitefactory-backend/controllers"
)

func InvoiceRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/orders/:order_id/invoice", controller.DownloadInvoice())
}
