package gateway

import "context"

// Payment statuses reported by the gateway that this service cares about.
const StatusCaptured = "captured"

// Order is a gateway-issued order reference. Ephemeral: owned entirely by
// the gateway, read back here only for verification and audit.
type Order struct {
	ID          string // Gateway order identifier
	AmountMinor int64  // Amount in the gateway's minor unit (paise)
	Currency    string // ISO currency code
}

// Payment is the gateway's record of a payment attempt.
type Payment struct {
	ID          string // Gateway payment identifier
	OrderID     string // Order the payment settles
	AmountMinor int64  // Amount in minor units
	Currency    string // ISO currency code
	Status      string // created, authorized, captured, refunded, failed
}

// Refund is the gateway's reference for an issued refund.
type Refund struct {
	ID          string // Gateway refund identifier
	AmountMinor int64  // Refunded amount in minor units
	Status      string // Gateway refund status
}

// Client is the narrow contract to the external payment gateway. Kept small
// so handlers and the ledger can be tested against a mock.
type Client interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]interface{}) (Order, error)
	FetchPayment(ctx context.Context, paymentID string) (Payment, error)
	CreateRefund(ctx context.Context, paymentID string, amountMinor int64, receipt string, notes map[string]interface{}) (Refund, error)
}
