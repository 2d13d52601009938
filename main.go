package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"bitefactory-backend/config"
	"bitefactory-backend/controllers"
	"bitefactory-backend/invoice"
	"bitefactory-backend/mailer"
	"bitefactory-backend/middleware"
	"bitefactory-backend/routes"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	controllers.SetupPipeline(cfg, invoice.NewGenerator(logger), mailer.New(cfg, logger), logger)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.SiteBaseURL},
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "token"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public surface: account endpoints, order submission, invoice
	// download, dashboard websocket.
	routes.UserRoutes(router)
	routes.OrderRoutes(router)
	routes.InvoiceRoutes(router)

	router.Use(middleware.Authentication())
	routes.OrderAdminRoutes(router)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
