package routes

import (
	"github.com/gin-gonic/gin"

	controller "bitefactory-backend/controllers"
)

func UserRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/users/signup", controller.SignUp())
	incomingRoutes.POST("/users/login", controller.Login())
	incomingRoutes.GET("/ws", controller.HandleWebSocket())
}
