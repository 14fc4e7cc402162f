package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// PromocodeHandler is a placeholder; promocode redemption is not built yet
func PromocodeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Promocode feature coming soon",
		})
	}
}

// ReferralHandler is a placeholder; referral rewards are not built yet
func ReferralHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Referral feature coming soon",
		})
	}
}
