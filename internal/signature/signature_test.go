package signature

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyPayment(t *testing.T) {
	secret := "test_secret"
	v := NewVerifier(secret, "")

	sig := Sign([]byte("order_abc|pay_xyz"), []byte(secret))

	t.Run("valid signature passes", func(t *testing.T) {
		require.NoError(t, v.VerifyPayment("order_abc", "pay_xyz", sig))
	})

	t.Run("deterministic", func(t *testing.T) {
		require.Equal(t, sig, Sign([]byte("order_abc|pay_xyz"), []byte(secret)))
	})

	t.Run("different message fails", func(t *testing.T) {
		require.ErrorIs(t, v.VerifyPayment("order_abc", "pay_xy2", sig), ErrMismatch)
	})

	t.Run("single flipped signature byte fails", func(t *testing.T) {
		tampered := []byte(sig)
		if tampered[0] == 'a' {
			tampered[0] = 'b'
		} else {
			tampered[0] = 'a'
		}
		require.ErrorIs(t, v.VerifyPayment("order_abc", "pay_xyz", string(tampered)), ErrMismatch)
	})

	t.Run("wrong secret fails", func(t *testing.T) {
		other := NewVerifier("another_secret", "")
		require.ErrorIs(t, other.VerifyPayment("order_abc", "pay_xyz", sig), ErrMismatch)
	})
}

func TestVerifyPayment_NoSecret(t *testing.T) {
	v := NewVerifier("", "whsec")
	err := v.VerifyPayment("order_abc", "pay_xyz", "deadbeef")
	require.ErrorIs(t, err, ErrNoSecret)
}

func TestVerifyWebhook(t *testing.T) {
	secret := "whsec_123"
	v := NewVerifier("unused", secret)
	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1"}}}}`)
	sig := Sign(body, []byte(secret))

	t.Run("exact raw bytes pass", func(t *testing.T) {
		require.True(t, v.WebhookConfigured())
		require.NoError(t, v.VerifyWebhook(body, sig))
	})

	t.Run("re-serialized body fails", func(t *testing.T) {
		// Same JSON value, different bytes: verification must be byte-exact
		reserialized := []byte(`{"event": "payment.captured", "payload": {"payment": {"entity": {"id": "pay_1"}}}}`)
		require.ErrorIs(t, v.VerifyWebhook(reserialized, sig), ErrMismatch)
	})

	t.Run("no webhook secret configured", func(t *testing.T) {
		bare := NewVerifier("unused", "")
		require.False(t, bare.WebhookConfigured())
		require.ErrorIs(t, bare.VerifyWebhook(body, sig), ErrNoSecret)
	})
}
