package gateway

import (
	"context"
	"fmt"

	"github.com/razorpay/razorpay-go" // Razorpay SDK
)

// RazorpayClient implements Client using the official Razorpay SDK.
type RazorpayClient struct {
	client *razorpay.Client
}

// NewRazorpayClient initializes the underlying SDK client with the provided
// key ID and secret. timeoutSec bounds every gateway HTTP call.
func NewRazorpayClient(keyID, keySecret string, timeoutSec int64) *RazorpayClient {
	c := razorpay.NewClient(keyID, keySecret)
	if timeoutSec > 0 {
		c.SetTimeout(int16(timeoutSec))
	}
	return &RazorpayClient{client: c}
}

// CreateOrder creates a new order in Razorpay. Amount is already converted
// to minor units by the caller; notes travel to the gateway as opaque
// audit metadata.
func (r *RazorpayClient) CreateOrder(_ context.Context, amountMinor int64, currency, receipt string, notes map[string]interface{}) (Order, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}
	body, err := r.client.Order.Create(data, nil)
	if err != nil {
		return Order{}, fmt.Errorf("razorpay order create: %w", err)
	}
	return Order{
		ID:          asString(body["id"]),
		AmountMinor: asInt64(body["amount"]),
		Currency:    asString(body["currency"]),
	}, nil
}

// FetchPayment reads back a payment's status and amounts from Razorpay
func (r *RazorpayClient) FetchPayment(_ context.Context, paymentID string) (Payment, error) {
	body, err := r.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return Payment{}, fmt.Errorf("razorpay payment fetch: %w", err)
	}
	return Payment{
		ID:          asString(body["id"]),
		OrderID:     asString(body["order_id"]),
		AmountMinor: asInt64(body["amount"]),
		Currency:    asString(body["currency"]),
		Status:      asString(body["status"]),
	}, nil
}

// CreateRefund issues a refund for a captured payment. amountMinor must be
// positive; full refunds are resolved to the payment's amount by the caller.
func (r *RazorpayClient) CreateRefund(_ context.Context, paymentID string, amountMinor int64, receipt string, notes map[string]interface{}) (Refund, error) {
	data := map[string]interface{}{
		"speed":   "normal",
		"receipt": receipt,
		"notes":   notes,
	}
	body, err := r.client.Payment.Refund(paymentID, int(amountMinor), data, nil)
	if err != nil {
		return Refund{}, fmt.Errorf("razorpay refund create: %w", err)
	}
	return Refund{
		ID:          asString(body["id"]),
		AmountMinor: asInt64(body["amount"]),
		Status:      asString(body["status"]),
	}, nil
}

// asString reads a string field out of an SDK response map
func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// asInt64 reads a numeric field out of an SDK response map. The SDK decodes
// JSON numbers as float64.
func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}
