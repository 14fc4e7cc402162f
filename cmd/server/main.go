package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging

	"github.com/nprashanth1712/astroai-payment/internal/api"        // API handlers
	"github.com/nprashanth1712/astroai-payment/internal/config"     // Configuration
	"github.com/nprashanth1712/astroai-payment/internal/db"         // Journal database
	"github.com/nprashanth1712/astroai-payment/internal/gateway"    // Payment gateway client
	"github.com/nprashanth1712/astroai-payment/internal/journal"    // Webhook event journal
	"github.com/nprashanth1712/astroai-payment/internal/ledger"     // Wallet ledger service
	"github.com/nprashanth1712/astroai-payment/internal/middleware" // Auth and rate limiting
	"github.com/nprashanth1712/astroai-payment/internal/signature"  // Gateway signature verification
	"github.com/nprashanth1712/astroai-payment/internal/store"      // Wallet document store
	"github.com/nprashanth1712/astroai-payment/internal/webhook"    // Webhook processor
)

// Main function to set up and run the server. Every client is constructed
// once here and passed down by reference; no package keeps ambient globals.
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Redis client (the remote wallet document store)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Webhook journal database. Optional: without it webhook events are
	// routed and logged but not persisted or deduplicated.
	var recorder journal.Recorder
	if cfg.DBHost != "" {
		gdb, err := db.Open(cfg.DSN())
		if err != nil {
			logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
		}
		recorder = journal.New(gdb)
	} else {
		logrus.Warn("Journal database not configured, webhook events will not be persisted")
	}

	// Gateway client, signature verifier, wallet store and services
	gatewayClient := gateway.NewRazorpayClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.GatewayTimeoutSec)
	verifier := signature.NewVerifier(cfg.RazorpayKeySecret, cfg.RazorpayWebhookSecret)
	walletStore := store.NewRedisStore(redisClient)
	ledgerService := ledger.NewService(walletStore, gatewayClient, verifier, cfg.RazorpayKeyID)
	processor := webhook.NewProcessor(verifier, recorder)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Per-IP rate limiting on the whole surface
	r.Use(middleware.RateLimitMiddleware(5, 10))

	// Public routes: health check and the signature-authenticated webhook
	storePing := func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	r.GET("/", api.HealthHandler(storePing))                  // Health check endpoint
	r.POST("/webhook/razorpay", api.WebhookHandler(processor)) // Gateway webhook endpoint

	// Payment routes (protected by JWT)
	apiGroup := r.Group("/api")
	apiGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	apiGroup.POST("/create-order", api.CreateOrderHandler(ledgerService))   // Create order endpoint
	apiGroup.POST("/verify-payment", api.VerifyPaymentHandler(ledgerService)) // Verify payment endpoint
	apiGroup.POST("/payment", api.LegacyPaymentHandler(ledgerService))      // Legacy payment endpoint
	apiGroup.GET("/payment/balance", api.BalanceHandler(ledgerService))     // Balance endpoint
	apiGroup.POST("/refund", api.RefundHandler(ledgerService))              // Refund endpoint

	// App routes (placeholders, protected by JWT)
	appGroup := r.Group("/app/api")
	appGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	appGroup.POST("/promocode", api.PromocodeHandler()) // Promocode endpoint
	appGroup.POST("/refer", api.ReferralHandler())      // Referral endpoint

	// JSON 404 for everything else
	r.NoRoute(api.NotFoundHandler())

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
