package journal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid" // Synthetic IDs for deliveries without an event header
	"gorm.io/gorm"           // GORM ORM library
)

// Event is one verified gateway webhook delivery, recorded append-only for
// audit and reconciliation. The gateway event ID is unique, which is what
// detects replayed deliveries.
type Event struct {
	ID         uint      `gorm:"primaryKey"`           // Primary key
	EventID    string    `gorm:"uniqueIndex;size:64"`  // Gateway event ID (X-Razorpay-Event-Id)
	EventType  string    `gorm:"size:64;index"`        // e.g. payment.captured
	PaymentID  string    `gorm:"size:64;index"`        // Gateway payment correlation ID, if present
	OrderID    string    `gorm:"size:64"`              // Gateway order correlation ID, if present
	Payload    string    `gorm:"type:text"`            // Raw body exactly as received
	ReceivedAt time.Time `gorm:"autoCreateTime"`       // Timestamp of receipt
}

// Recorder is the journal contract the webhook processor depends on.
type Recorder interface {
	// Record persists the event. It returns false when an event with the
	// same gateway event ID was already recorded.
	Record(ctx context.Context, e Event) (bool, error)
}

// Journal is the gorm-backed Recorder.
type Journal struct {
	db *gorm.DB
}

// New wraps an open gorm connection. The connection must be opened with
// error translation enabled so duplicate keys surface as gorm.ErrDuplicatedKey.
func New(db *gorm.DB) *Journal {
	return &Journal{db: db}
}

// Record appends one event, deduplicating on the gateway event ID
func (j *Journal) Record(ctx context.Context, e Event) (bool, error) {
	if e.EventID == "" {
		// Old gateway configurations omit the event ID header; such
		// deliveries cannot be deduplicated, only journaled.
		e.EventID = "local_" + uuid.NewString()
	}
	if err := j.db.WithContext(ctx).Create(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil // Replayed delivery
		}
		return false, err
	}
	return true, nil
}
