package store

import (
	"context"       // Context for Redis operations
	"encoding/json" // Wallet documents are stored as JSON
	"errors"

	"github.com/redis/go-redis/v9" // Redis client

	"github.com/nprashanth1712/astroai-payment/internal/domain"
)

const walletKeyPrefix = "wallet:user:" // One document per user under this prefix

// maxUpdateRetries bounds optimistic retries before giving up. Contention on
// a single user's wallet is short-lived, so a handful of attempts is plenty.
const maxUpdateRetries = 8

// RedisStore persists wallet documents in Redis. Updates use WATCH so that
// concurrent read-modify-write cycles on the same wallet cannot clobber each
// other: the losing writer retries against the fresh document.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps an already-connected Redis client
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Get fetches a wallet document, defaulting to the empty wallet
func (s *RedisStore) Get(ctx context.Context, userID string) (domain.Wallet, error) {
	val, err := s.rdb.Get(ctx, walletKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return domain.NewWallet(), nil // Lazily created on first write
	}
	if err != nil {
		return domain.Wallet{}, err
	}
	return decodeWallet([]byte(val))
}

// Update applies a mutation under optimistic concurrency control
func (s *RedisStore) Update(ctx context.Context, userID string, apply func(*domain.Wallet) error) (domain.Wallet, error) {
	key := walletKeyPrefix + userID
	var updated domain.Wallet

	txf := func(tx *redis.Tx) error {
		w := domain.NewWallet()
		val, err := tx.Get(ctx, key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil {
			if w, err = decodeWallet([]byte(val)); err != nil {
				return err
			}
		}
		if err := apply(&w); err != nil {
			return err
		}
		b, err := json.Marshal(w)
		if err != nil {
			return err
		}
		// A write that reaches Redis must be allowed to complete even if the
		// client has gone away; cancellation stops before the write, not
		// during it.
		writeCtx := context.WithoutCancel(ctx)
		_, err = tx.TxPipelined(writeCtx, func(pipe redis.Pipeliner) error {
			pipe.Set(writeCtx, key, b, 0)
			return nil
		})
		if err != nil {
			return err
		}
		updated = w
		return nil
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue // Another writer committed first, retry with fresh state
		}
		return domain.Wallet{}, err
	}
	return domain.Wallet{}, ErrConcurrentModification
}

// decodeWallet unmarshals a stored document and normalizes the history slice
func decodeWallet(b []byte) (domain.Wallet, error) {
	var w domain.Wallet
	if err := json.Unmarshal(b, &w); err != nil {
		return domain.Wallet{}, err
	}
	if w.Transactions == nil {
		w.Transactions = []domain.Transaction{}
	}
	return w, nil
}
