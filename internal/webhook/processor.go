package webhook

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus" // Structured logging

	"github.com/nprashanth1712/astroai-payment/internal/journal"
	"github.com/nprashanth1712/astroai-payment/internal/signature"
)

// Sentinel errors returned to the HTTP layer. Both map to a client error so
// the gateway retries the delivery.
var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedPayload = errors.New("malformed webhook payload")
)

// Event is the decoded envelope of a gateway webhook.
type Event struct {
	Event   string  `json:"event"`   // Event type tag, e.g. payment.captured
	Payload Payload `json:"payload"` // Entity payloads keyed by kind
}

// Payload carries whichever entity the event concerns.
type Payload struct {
	Payment *EntityWrapper `json:"payment,omitempty"`
	Refund  *EntityWrapper `json:"refund,omitempty"`
	Dispute *EntityWrapper `json:"dispute,omitempty"`
}

// EntityWrapper mirrors the gateway's {entity: {...}} nesting.
type EntityWrapper struct {
	Entity Entity `json:"entity"`
}

// Entity holds the fields shared by payment, refund and dispute entities.
type Entity struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id,omitempty"`
	PaymentID string `json:"payment_id,omitempty"`
	Amount    int64  `json:"amount,omitempty"`
	Status    string `json:"status,omitempty"`
}

// paymentID pulls the payment correlation ID out of whichever entity is set
func (e *Event) paymentID() string {
	if e.Payload.Payment != nil {
		return e.Payload.Payment.Entity.ID
	}
	if e.Payload.Refund != nil {
		return e.Payload.Refund.Entity.PaymentID
	}
	if e.Payload.Dispute != nil {
		return e.Payload.Dispute.Entity.PaymentID
	}
	return ""
}

// orderID pulls the order correlation ID if the event carries one
func (e *Event) orderID() string {
	if e.Payload.Payment != nil {
		return e.Payload.Payment.Entity.OrderID
	}
	return ""
}

// Processor verifies inbound gateway events and routes them by type.
// Transitions: Received -> Verified -> Dispatched, or Received -> Rejected.
// Dispatch is observational: handlers log the event but never mutate a
// wallet; synchronous confirmation owns the credit path.
type Processor struct {
	verifier *signature.Verifier
	journal  journal.Recorder // nil when no journal database is configured
}

// NewProcessor wires the processor with its collaborators
func NewProcessor(verifier *signature.Verifier, rec journal.Recorder) *Processor {
	return &Processor{verifier: verifier, journal: rec}
}

// Process handles one webhook delivery. The signature is checked over the
// raw body bytes before any decoding; skipping verification when no secret
// is configured is an explicit development fallback, never a production
// default.
func (p *Processor) Process(ctx context.Context, body []byte, sig, eventID string) error {
	if p.verifier.WebhookConfigured() {
		if err := p.verifier.VerifyWebhook(body, sig); err != nil {
			logrus.WithField("event_id", eventID).Warn("Invalid webhook signature")
			return ErrInvalidSignature
		}
	} else {
		logrus.Warn("Webhook secret not configured, skipping verification")
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil || event.Event == "" {
		return ErrMalformedPayload
	}

	if p.journal != nil {
		fresh, err := p.journal.Record(ctx, journal.Event{
			EventID:   eventID,
			EventType: event.Event,
			PaymentID: event.paymentID(),
			OrderID:   event.orderID(),
			Payload:   string(body),
		})
		if err != nil {
			// Journaling is advisory; a verified, routable event is still
			// acknowledged so the gateway does not retry-storm.
			logrus.WithField("error", err.Error()).Error("Webhook journal write failed")
		} else if !fresh {
			logrus.WithFields(logrus.Fields{
				"event_id": eventID,
				"event":    event.Event,
			}).Info("Duplicate webhook delivery, dispatch skipped")
			return nil
		}
	}

	p.dispatch(event)
	return nil
}

// dispatch routes a verified event by type tag
func (p *Processor) dispatch(e Event) {
	switch e.Event {
	case "payment.captured":
		logrus.WithField("payment_id", e.paymentID()).Info("Payment captured")
	case "payment.failed":
		logrus.WithField("payment_id", e.paymentID()).Info("Payment failed")
	case "refund.created":
		logrus.WithField("payment_id", e.paymentID()).Info("Refund created")
	case "dispute.created":
		logrus.WithField("payment_id", e.paymentID()).Info("Dispute created")
	default:
		logrus.WithField("event", e.Event).Info("Unhandled webhook event")
	}
}
