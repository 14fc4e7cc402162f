package domain

import "time"

// Transaction types and statuses persisted in wallet documents.
const (
	TypePayment     = "payment"   // Credit granted for a captured payment
	StatusCompleted = "completed" // Only completed transactions are persisted
)

// Transaction is one immutable entry in a wallet's history.
type Transaction struct {
	Amount            float64   `json:"amount"`                      // Monetary amount in major units (rupees)
	Currency          string    `json:"currency"`                    // ISO currency code
	QuestionCount     int       `json:"questionCount"`               // Credits granted
	Timestamp         time.Time `json:"timestamp"`                   // Assigned at append time
	Type              string    `json:"type"`                        // Transaction type
	Status            string    `json:"status"`                      // Transaction status
	RazorpayPaymentID string    `json:"razorpayPaymentId,omitempty"` // Gateway payment correlation ID
	RazorpayOrderID   string    `json:"razorpayOrderId,omitempty"`   // Gateway order correlation ID
}
