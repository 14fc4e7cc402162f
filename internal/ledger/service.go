package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"     // Collision-resistant order receipts
	"github.com/sirupsen/logrus" // Structured logging

	"github.com/nprashanth1712/astroai-payment/internal/domain"
	"github.com/nprashanth1712/astroai-payment/internal/gateway"
	"github.com/nprashanth1712/astroai-payment/internal/signature"
	"github.com/nprashanth1712/astroai-payment/internal/store"
)

// Currency is fixed for this deployment; the gateway settles in INR.
const Currency = "INR"

// minorUnits converts between rupees and paise
const minorUnits = 100

// Sentinel errors surfaced to the HTTP layer.
var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidSignature   = errors.New("payment signature verification failed")
	ErrPaymentNotCaptured = errors.New("payment not captured")
)

// OrderRef is what a client needs to open the gateway checkout.
type OrderRef struct {
	OrderID     string // Gateway order identifier
	AmountMinor int64  // Order amount in minor units, as confirmed by the gateway
	Currency    string // ISO currency code
	Key         string // Public gateway key ID for the checkout widget
}

// Service converts verified payments into wallet credits. It is the sole
// writer of wallet documents; every mutation goes through the store's
// linearized Update.
type Service struct {
	store    store.WalletStore
	gateway  gateway.Client
	verifier *signature.Verifier
	keyID    string // Public gateway key returned with new orders
}

// NewService wires the ledger with its collaborators. All dependencies are
// injected at composition time; the service holds no ambient globals.
func NewService(st store.WalletStore, gw gateway.Client, verifier *signature.Verifier, keyID string) *Service {
	return &Service{store: st, gateway: gw, verifier: verifier, keyID: keyID}
}

// CreateOrder registers a new order with the gateway. The wallet is not
// touched; no credit exists until the payment is confirmed.
func (s *Service) CreateOrder(ctx context.Context, userID string, amount int64, questionCount int) (OrderRef, error) {
	if userID == "" || amount <= 0 || questionCount <= 0 {
		return OrderRef{}, ErrInvalidRequest
	}
	// Razorpay caps receipts at 40 characters; "ord_" plus a UUID is exactly
	// at the limit and unique per order.
	receipt := "ord_" + uuid.NewString()
	notes := map[string]interface{}{
		"userId":        userID,        // Audit metadata, read back during reconciliation
		"questionCount": questionCount, // Credits this order is expected to grant
	}
	order, err := s.gateway.CreateOrder(ctx, amount*minorUnits, Currency, receipt, notes)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"amount":  amount,
			"error":   err.Error(),
		}).Error("Order creation failed")
		return OrderRef{}, fmt.Errorf("create order: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"order_id": order.ID,
		"amount":   order.AmountMinor,
	}).Info("Order created")
	return OrderRef{OrderID: order.ID, AmountMinor: order.AmountMinor, Currency: order.Currency, Key: s.keyID}, nil
}

// ConfirmPayment verifies a checkout confirmation and credits the wallet.
// The sequence is: signature check, captured-status check against the
// gateway, then a linearized read-modify-write that is idempotent on the
// gateway payment ID — a replayed confirmation returns the previously
// appended transaction without a second credit.
func (s *Service) ConfirmPayment(ctx context.Context, userID, orderID, paymentID, sig string, questionCount int) (domain.Wallet, domain.Transaction, error) {
	if userID == "" || orderID == "" || paymentID == "" || sig == "" || questionCount <= 0 {
		return domain.Wallet{}, domain.Transaction{}, ErrInvalidRequest
	}

	if err := s.verifier.VerifyPayment(orderID, paymentID, sig); err != nil {
		if errors.Is(err, signature.ErrMismatch) {
			logrus.WithFields(logrus.Fields{
				"user_id":    userID,
				"order_id":   orderID,
				"payment_id": paymentID,
			}).Warn("Invalid payment signature")
			return domain.Wallet{}, domain.Transaction{}, ErrInvalidSignature
		}
		return domain.Wallet{}, domain.Transaction{}, err // Missing secret is a configuration fault
	}

	payment, err := s.gateway.FetchPayment(ctx, paymentID)
	if err != nil {
		return domain.Wallet{}, domain.Transaction{}, fmt.Errorf("fetch payment: %w", err)
	}
	if payment.Status != gateway.StatusCaptured {
		logrus.WithFields(logrus.Fields{
			"user_id":    userID,
			"payment_id": paymentID,
			"status":     payment.Status,
		}).Warn("Payment not captured")
		return domain.Wallet{}, domain.Transaction{}, fmt.Errorf("%w: status %s", ErrPaymentNotCaptured, payment.Status)
	}

	var txn domain.Transaction
	var replayed bool
	wallet, err := s.store.Update(ctx, userID, func(w *domain.Wallet) error {
		if existing, ok := w.FindPayment(paymentID); ok {
			txn = existing
			replayed = true
			return nil
		}
		txn = domain.Transaction{
			Amount:            float64(payment.AmountMinor) / minorUnits,
			Currency:          payment.Currency,
			QuestionCount:     questionCount,
			Timestamp:         time.Now().UTC(),
			Type:              domain.TypePayment,
			Status:            domain.StatusCompleted,
			RazorpayPaymentID: paymentID,
			RazorpayOrderID:   orderID,
		}
		w.Credit(txn)
		return nil
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id":    userID,
			"payment_id": paymentID,
			"error":      err.Error(),
		}).Error("Wallet update failed")
		return domain.Wallet{}, domain.Transaction{}, fmt.Errorf("update wallet: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":    userID,
		"payment_id": paymentID,
		"order_id":   orderID,
		"balance":    wallet.Balance,
		"replayed":   replayed,
	}).Info("Payment confirmed")
	return wallet, txn, nil
}

// RecordPayment is the legacy confirmation path: it trusts the caller's
// amount and skips gateway verification entirely. Retained for backward
// compatibility with older clients only; new integrations must use
// ConfirmPayment.
func (s *Service) RecordPayment(ctx context.Context, userID string, amount float64, questionCount int, paymentID string) (domain.Wallet, domain.Transaction, error) {
	if userID == "" || amount <= 0 || questionCount <= 0 {
		return domain.Wallet{}, domain.Transaction{}, ErrInvalidRequest
	}

	var txn domain.Transaction
	wallet, err := s.store.Update(ctx, userID, func(w *domain.Wallet) error {
		if existing, ok := w.FindPayment(paymentID); ok {
			txn = existing
			return nil
		}
		txn = domain.Transaction{
			Amount:            amount,
			Currency:          Currency,
			QuestionCount:     questionCount,
			Timestamp:         time.Now().UTC(),
			Type:              domain.TypePayment,
			Status:            domain.StatusCompleted,
			RazorpayPaymentID: paymentID,
		}
		w.Credit(txn)
		return nil
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"amount":  amount,
			"error":   err.Error(),
		}).Error("Legacy payment failed")
		return domain.Wallet{}, domain.Transaction{}, fmt.Errorf("update wallet: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":    userID,
		"amount":     amount,
		"payment_id": paymentID,
		"balance":    wallet.Balance,
		"path":       "legacy", // Unverified trust path, gated for removal
	}).Info("Payment recorded")
	return wallet, txn, nil
}

// Refund relays a refund request to the gateway and returns its reference.
// The wallet balance is intentionally left untouched: credits already
// granted stay spendable and the refund.created webhook lands in the journal
// for manual reconciliation.
func (s *Service) Refund(ctx context.Context, userID, paymentID string, amount int64, reason string) (gateway.Refund, error) {
	if userID == "" || paymentID == "" {
		return gateway.Refund{}, ErrInvalidRequest
	}
	amountMinor := amount * minorUnits
	if amount <= 0 {
		// No amount means a full refund; resolve it from the gateway's own
		// record of the payment.
		payment, err := s.gateway.FetchPayment(ctx, paymentID)
		if err != nil {
			return gateway.Refund{}, fmt.Errorf("fetch payment: %w", err)
		}
		amountMinor = payment.AmountMinor
	}
	if reason == "" {
		reason = "User requested refund"
	}
	receipt := fmt.Sprintf("refund_%s_%d", userID, time.Now().UnixMilli())
	notes := map[string]interface{}{
		"userId": userID,
		"reason": reason,
	}
	refund, err := s.gateway.CreateRefund(ctx, paymentID, amountMinor, receipt, notes)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id":    userID,
			"payment_id": paymentID,
			"error":      err.Error(),
		}).Error("Refund failed")
		return gateway.Refund{}, fmt.Errorf("create refund: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":    userID,
		"payment_id": paymentID,
		"refund_id":  refund.ID,
		"amount":     refund.AmountMinor,
	}).Info("Refund initiated")
	return refund, nil
}

// Balance is a pure read of the user's wallet
func (s *Service) Balance(ctx context.Context, userID string) (domain.Wallet, error) {
	if userID == "" {
		return domain.Wallet{}, ErrInvalidRequest
	}
	return s.store.Get(ctx, userID)
}
