package api

import (
	"errors"
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework

	"github.com/nprashanth1712/astroai-payment/internal/webhook"
)

// WebhookHandler accepts gateway event deliveries. The raw body is handed to
// the processor unparsed; verification must see the exact received bytes.
func WebhookHandler(p *webhook.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData() // Raw request body, unparsed
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable body"})
			return
		}
		sig := c.GetHeader("X-Razorpay-Signature")     // Signature over the raw body
		eventID := c.GetHeader("X-Razorpay-Event-Id")  // Delivery ID for deduplication
		if err := p.Process(c.Request.Context(), body, sig, eventID); err != nil {
			switch {
			case errors.Is(err, webhook.ErrInvalidSignature):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
			case errors.Is(err, webhook.ErrMalformedPayload):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed payload"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
			}
			return
		}
		// Success once parsed and routed, so the gateway does not retry on
		// handler-internal decisions
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
