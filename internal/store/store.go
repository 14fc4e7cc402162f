package store

import (
	"context"
	"errors"

	"github.com/nprashanth1712/astroai-payment/internal/domain"
)

// Sentinel errors shared across all store implementations.
var (
	// ErrConcurrentModification is returned when an optimistic write keeps
	// losing against concurrent writers for the same wallet.
	ErrConcurrentModification = errors.New("concurrent wallet modification detected")
)

// WalletStore is the abstraction over the remote wallet document store.
// One document per user, shape {balance, transactions}.
type WalletStore interface {
	// Get returns the user's wallet, or the default empty wallet when no
	// document exists yet. Wallets are created lazily on first write.
	Get(ctx context.Context, userID string) (domain.Wallet, error)

	// Update runs apply inside a linearized read-modify-write on the user's
	// wallet and persists the result as a single logical write. An error
	// returned by apply aborts the update and leaves the document unchanged.
	Update(ctx context.Context, userID string, apply func(*domain.Wallet) error) (domain.Wallet, error)
}
