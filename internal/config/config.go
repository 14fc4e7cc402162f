package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort               string // Application port
	RazorpayKeyID         string // Razorpay API key ID (public, returned to clients at checkout)
	RazorpayKeySecret     string // Razorpay API key secret, also signs payment confirmations
	RazorpayWebhookSecret string // Razorpay webhook signing secret (optional in development)
	GatewayTimeoutSec     int64  // Timeout for gateway HTTP calls, in seconds
	JWTSecret             string // Secret for verifying bearer tokens
	RedisAddr             string // Redis server address (wallet document store)
	RedisPass             string // Redis password
	RedisDB               int    // Redis database number
	DBUser                string // MySQL user (webhook journal)
	DBPassword            string // MySQL password
	DBHost                string // MySQL host
	DBPort                string // MySQL port
	DBName                string // MySQL database name
	IsProd                bool   // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	gatewayTimeout, _ := strconv.ParseInt(os.Getenv("RAZORPAY_TIMEOUT_SECONDS"), 10, 64)
	if gatewayTimeout <= 0 {
		gatewayTimeout = 10 // Bounded gateway calls even when unset
	}
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3001"
	}
	return &Config{
		AppPort:               port,                                  // Application port
		RazorpayKeyID:         os.Getenv("RAZORPAY_KEY_ID"),          // Razorpay key ID
		RazorpayKeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),      // Razorpay key secret
		RazorpayWebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),  // Razorpay webhook secret
		GatewayTimeoutSec:     gatewayTimeout,                        // Gateway timeout
		JWTSecret:             os.Getenv("JWT_SECRET"),               // JWT secret key
		RedisAddr:             os.Getenv("REDIS_ADDR"),               // Redis server address
		RedisPass:             os.Getenv("REDIS_PASS"),               // Redis password
		RedisDB:               redisDB,                               // Redis database number
		DBUser:                os.Getenv("DB_USER"),                  // Database user
		DBPassword:            os.Getenv("DB_PASSWORD"),              // Database password
		DBHost:                os.Getenv("DB_HOST"),                  // Database host
		DBPort:                os.Getenv("DB_PORT"),                  // Database port
		DBName:                os.Getenv("DB_NAME"),                  // Database name
		IsProd:                os.Getenv("IS_PROD") == "true",        // Is production environment
	}
}

// DSN builds the MySQL data source name for the webhook journal
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}
