package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nprashanth1712/astroai-payment/internal/domain"
)

func TestMemoryStore_GetDefaults(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	w, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 0, w.Balance)
	require.NotNil(t, w.Transactions)
	require.Empty(t, w.Transactions)

	// Reads are idempotent without intervening writes
	again, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, w, again)
}

func TestMemoryStore_UpdateRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	updated, err := s.Update(ctx, "u1", func(w *domain.Wallet) error {
		w.Credit(domain.Transaction{QuestionCount: 5, Type: domain.TypePayment, Status: domain.StatusCompleted})
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 5, updated.Balance)
	require.Len(t, updated.Transactions, 1)

	// Mutating the returned document must not leak into the store
	updated.Transactions[0].QuestionCount = 99

	stored, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 5, stored.Transactions[0].QuestionCount)
}

func TestMemoryStore_UpdateApplyErrorLeavesDocument(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Update(ctx, "u1", func(w *domain.Wallet) error {
		w.Credit(domain.Transaction{QuestionCount: 5})
		return nil
	})
	require.NoError(t, err)

	_, err = s.Update(ctx, "u1", func(w *domain.Wallet) error {
		w.Balance = 0
		return context.Canceled
	})
	require.Error(t, err)

	w, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 5, w.Balance)
}

func TestMemoryStore_ConcurrentUpdatesLinearize(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	const writers = 50
	const credit = 2

	errs := make(chan error, writers)
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, "u1", func(w *domain.Wallet) error {
				w.Credit(domain.Transaction{QuestionCount: credit, Type: domain.TypePayment})
				return nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	w, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, writers*credit, w.Balance) // No lost updates
	require.Len(t, w.Transactions, writers)
}
