package main

import (
	"github.com/nprashanth1712/astroai-payment/internal/config" // Custom import path (Config)
	"github.com/nprashanth1712/astroai-payment/internal/db"     // Custom import path (Database)
)

// Main entry point for the webhook journal migration
func main() {
	cfg := config.LoadConfig() // Load configuration

	db.Migrate(cfg.DSN()) // Create or update the webhook_events schema
}
