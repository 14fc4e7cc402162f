package api

import (
	"errors"
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework

	"github.com/nprashanth1712/astroai-payment/internal/ledger"
)

// currentUser reads the verified user identity set by the auth middleware
func currentUser(c *gin.Context) (string, bool) {
	v, exists := c.Get("userID")
	userID, _ := v.(string)
	return userID, exists && userID != ""
}

// CreateOrderRequest represents an order creation request
type CreateOrderRequest struct {
	Amount        int64 `json:"amount" binding:"required,gt=0"`        // Order amount in rupees
	QuestionCount int   `json:"questionCount" binding:"required,gt=0"` // Credits to grant on capture
}

// CreateOrderHandler registers a gateway order for the authenticated user.
// No wallet state changes until the payment is confirmed.
func CreateOrderHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c) // Get userID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CreateOrderRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount and question count are required"})
			return
		}
		ref, err := svc.CreateOrder(c.Request.Context(), userID, req.Amount, req.QuestionCount)
		if err != nil {
			if errors.Is(err, ledger.ErrInvalidRequest) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
			// Gateway unavailable or rejected the order; retryable for the caller
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Order creation failed", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":  true,            // Request outcome
			"orderId":  ref.OrderID,     // Gateway order identifier
			"amount":   ref.AmountMinor, // Amount in minor units, as the gateway holds it
			"currency": ref.Currency,    // ISO currency code
			"key":      ref.Key,         // Public key for the checkout widget
		})
	}
}

// VerifyPaymentRequest carries the gateway checkout confirmation fields
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`   // Gateway order ID
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"` // Gateway payment ID
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`  // HMAC over orderId|paymentId
	QuestionCount     int    `json:"questionCount" binding:"required,gt=0"`  // Credits to grant
}

// VerifyPaymentHandler verifies a payment confirmation and credits the wallet
func VerifyPaymentHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c) // Get userID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req VerifyPaymentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing payment verification data"})
			return
		}
		wallet, txn, err := svc.ConfirmPayment(c.Request.Context(), userID, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, req.QuestionCount)
		if err != nil {
			switch {
			case errors.Is(err, ledger.ErrInvalidSignature):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Payment verification failed - invalid signature"})
			case errors.Is(err, ledger.ErrPaymentNotCaptured):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Payment not captured"})
			case errors.Is(err, ledger.ErrInvalidRequest):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			default:
				// Gateway or store I/O failed; the same confirmation can be
				// safely resubmitted, crediting is idempotent on payment ID
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment verification failed", "details": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":     true,                                          // Request outcome
			"message":     "Payment verified and processed successfully", // Human-readable summary
			"balance":     wallet.Balance,                                // New credit balance
			"transaction": txn,                                           // Appended transaction
		})
	}
}

// LegacyPaymentRequest is the old confirmation body that trusts the caller
type LegacyPaymentRequest struct {
	Payment           float64 `json:"payment" binding:"required,gt=0"`       // Caller-supplied amount in rupees
	QuestionCount     int     `json:"questionCount" binding:"required,gt=0"` // Credits to grant
	RazorpayPaymentID string  `json:"razorpayPaymentId"`                     // Optional gateway correlation ID
}

// LegacyPaymentHandler records a payment without gateway verification.
// Weaker-trust path kept for backward compatibility with older clients.
func LegacyPaymentHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c) // Get userID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req LegacyPaymentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment amount and question count are required"})
			return
		}
		wallet, txn, err := svc.RecordPayment(c.Request.Context(), userID, req.Payment, req.QuestionCount, req.RazorpayPaymentID)
		if err != nil {
			if errors.Is(err, ledger.ErrInvalidRequest) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment processing failed", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":     true,                             // Request outcome
			"message":     "Payment processed successfully", // Human-readable summary
			"balance":     wallet.Balance,                   // New credit balance
			"transaction": txn,                              // Appended transaction
		})
	}
}

// BalanceHandler returns the authenticated user's balance and history
func BalanceHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c) // Get userID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		wallet, err := svc.Balance(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch balance", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":      true,                // Request outcome
			"balance":      wallet.Balance,      // Current credit balance
			"transactions": wallet.Transactions, // Full transaction history
		})
	}
}

// RefundRequest asks the gateway to refund a payment
type RefundRequest struct {
	PaymentID string `json:"paymentId" binding:"required"` // Gateway payment to refund
	Amount    int64  `json:"amount"`                       // Rupees; omit for a full refund
	Reason    string `json:"reason"`                       // Optional audit note
}

// RefundHandler relays a refund to the gateway. The wallet balance is not
// reversed here; reconciliation happens against the webhook journal.
func RefundHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c) // Get userID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req RefundRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment ID is required for refund"})
			return
		}
		refund, err := svc.Refund(c.Request.Context(), userID, req.PaymentID, req.Amount, req.Reason)
		if err != nil {
			if errors.Is(err, ledger.ErrInvalidRequest) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Payment ID is required for refund"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Refund processing failed", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":  true,                            // Request outcome
			"refundId": refund.ID,                       // Gateway refund identifier
			"amount":   float64(refund.AmountMinor) / 100, // Refunded amount in rupees
			"status":   refund.Status,                   // Gateway refund status
			"message":  "Refund initiated successfully", // Human-readable summary
		})
	}
}
