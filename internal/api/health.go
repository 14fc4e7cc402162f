package api

import (
	"context"  // Context for the store ping
	"net/http" // HTTP status codes
	"time"     // Response timestamp

	"github.com/gin-gonic/gin" // Gin web framework
)

// HealthHandler reports service status and wallet store connectivity
func HealthHandler(storePing func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeStatus := "Connected" // Assume healthy until the ping fails
		if err := storePing(c.Request.Context()); err != nil {
			storeStatus = "Not connected"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",                                  // Service status
			"message":   "AstroAI Payment API",                 // Service identity
			"timestamp": time.Now().UTC().Format(time.RFC3339), // Current time
			"store":     storeStatus,                           // Wallet store connectivity
		})
	}
}

// NotFoundHandler returns a JSON 404 for unmatched routes
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Route not found",     // Error summary
			"path":  c.Request.URL.Path,    // Offending path
		})
	}
}
