package store

import (
	"context"
	"sync"

	"github.com/nprashanth1712/astroai-payment/internal/domain"
)

// MemoryStore keeps wallet documents in process memory. It exists for tests
// and local development; updates are serialized by a mutex, which gives the
// same per-user linearization guarantee as the Redis store.
type MemoryStore struct {
	mu      sync.Mutex
	wallets map[string]domain.Wallet
}

// NewMemoryStore returns an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{wallets: make(map[string]domain.Wallet)}
}

func (s *MemoryStore) Get(ctx context.Context, userID string) (domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[userID]
	if !ok {
		return domain.NewWallet(), nil
	}
	return cloneWallet(w), nil
}

func (s *MemoryStore) Update(ctx context.Context, userID string, apply func(*domain.Wallet) error) (domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[userID]
	if !ok {
		w = domain.NewWallet()
	} else {
		w = cloneWallet(w)
	}
	if err := apply(&w); err != nil {
		return domain.Wallet{}, err
	}
	s.wallets[userID] = cloneWallet(w)
	return w, nil
}

// cloneWallet copies the document so callers never share the stored slice
func cloneWallet(w domain.Wallet) domain.Wallet {
	out := domain.Wallet{Balance: w.Balance, Transactions: make([]domain.Transaction, len(w.Transactions))}
	copy(out.Transactions, w.Transactions)
	return out
}
