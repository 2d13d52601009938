package config

import (
	"os"
	"strconv"
)

// Config holds everything the pipeline reads from the environment. It is
// built once in main and passed into the invoice generator and mailer, so
// the hot path never touches os.Getenv.
type Config struct {
	Port     string
	MongoURI string

	SMTPHost   string
	SMTPPort   int
	SMTPSecure bool
	SMTPUser   string
	SMTPPass   string

	RestaurantName    string
	RestaurantEmail   string
	RestaurantPhone   string
	RestaurantAddress string
	SiteBaseURL       string

	TaxRate     float64
	DeliveryFee float64
}

func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8000"),
		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),

		SMTPHost:   os.Getenv("SMTP_HOST"),
		SMTPPort:   getEnvInt("SMTP_PORT", 587),
		SMTPSecure: getEnvBool("SMTP_SECURE", false),
		SMTPUser:   os.Getenv("SMTP_USER"),
		SMTPPass:   os.Getenv("SMTP_PASS"),

		RestaurantName:    getEnv("RESTAURANT_NAME", "Bite Factory"),
		RestaurantEmail:   getEnv("RESTAURANT_EMAIL", "orders@bitefactory.in"),
		RestaurantPhone:   getEnv("RESTAURANT_PHONE", "9000000000"),
		RestaurantAddress: getEnv("RESTAURANT_ADDRESS", "12 MG Road, Bengaluru"),
		SiteBaseURL:       getEnv("SITE_BASE_URL", "http://localhost:9000"),

		TaxRate:     getEnvFloat("TAX_RATE", 0.05),
		DeliveryFee: getEnvFloat("DELIVERY_FEE", 40),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
