package signature

import (
	"crypto/hmac"   // Keyed hash + constant-time comparison
	"crypto/sha256" // HMAC hash function
	"encoding/hex"  // Gateway signatures are hex encoded
	"errors"
)

// Sentinel errors for signature verification
var (
	ErrMismatch = errors.New("signature mismatch")              // Well-formed but wrong signature
	ErrNoSecret = errors.New("signing secret not configured")   // Verification required but no secret set
)

// Verifier checks HMAC-SHA256 signatures issued by the payment gateway.
// It is pure over its inputs and safe for concurrent use.
type Verifier struct {
	paymentSecret []byte // Signs checkout confirmations (the API key secret)
	webhookSecret []byte // Signs webhook bodies, may be empty in development
}

// NewVerifier builds a verifier from the configured shared secrets
func NewVerifier(paymentSecret, webhookSecret string) *Verifier {
	return &Verifier{
		paymentSecret: []byte(paymentSecret),
		webhookSecret: []byte(webhookSecret),
	}
}

// VerifyPayment checks a checkout confirmation signature. The canonical
// message is "orderId|paymentId"; gateway identifiers never contain the pipe
// character, so no escaping is applied.
func (v *Verifier) VerifyPayment(orderID, paymentID, signature string) error {
	if len(v.paymentSecret) == 0 {
		return ErrNoSecret // Payment verification is mandatory
	}
	return verify([]byte(orderID+"|"+paymentID), signature, v.paymentSecret)
}

// WebhookConfigured reports whether webhook signatures can be verified
func (v *Verifier) WebhookConfigured() bool {
	return len(v.webhookSecret) > 0
}

// VerifyWebhook checks a webhook signature over the exact raw body bytes as
// received. It must run before JSON decoding; any re-serialization could
// change the bytes and invalidate the signature.
func (v *Verifier) VerifyWebhook(body []byte, signature string) error {
	if len(v.webhookSecret) == 0 {
		return ErrNoSecret
	}
	return verify(body, signature, v.webhookSecret)
}

// Sign computes the hex HMAC-SHA256 of message under secret
func Sign(message, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

// verify compares the expected signature against the supplied one in
// constant time
func verify(message []byte, signature string, secret []byte) error {
	expected := Sign(message, secret)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrMismatch
	}
	return nil
}
