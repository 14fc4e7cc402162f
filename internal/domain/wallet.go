package domain

// Wallet is the per-user document persisted in the remote store.
// Balance counts usable question credits; Transactions is append-only,
// insertion order is chronological order.
type Wallet struct {
	Balance      int           `json:"balance"`      // Current question credit balance
	Transactions []Transaction `json:"transactions"` // Full transaction history, oldest first
}

// NewWallet returns the default wallet used when no document exists yet.
func NewWallet() Wallet {
	return Wallet{Balance: 0, Transactions: []Transaction{}}
}

// FindPayment returns the transaction already recorded for a gateway payment
// ID, if any. Used to make payment confirmation idempotent.
func (w *Wallet) FindPayment(paymentID string) (Transaction, bool) {
	if paymentID == "" {
		return Transaction{}, false
	}
	for _, t := range w.Transactions {
		if t.RazorpayPaymentID == paymentID {
			return t, true
		}
	}
	return Transaction{}, false
}

// Credit appends a transaction and adds its question count to the balance.
func (w *Wallet) Credit(t Transaction) {
	w.Balance += t.QuestionCount
	w.Transactions = append(w.Transactions, t)
}
