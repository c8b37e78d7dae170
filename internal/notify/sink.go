package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// Message is one outbound notification. A separate delivery worker drains the
// queue and fans out to mail or chat; this package only enqueues.
type Message struct {
	Type      string         `json:"type"`
	EntityID  string         `json:"entity_id"`
	EventID   string         `json:"event_id,omitempty"`
	Recipient string         `json:"recipient,omitempty"` // owner ref
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Notification types emitted by the registration and payment pipeline.
const (
	TypeRegistrationConfirmed = "registration.confirmed"
	TypeRegistrationWaitlist  = "registration.waitlisted"
	TypeRegistrationPromoted  = "registration.promoted"
	TypeRegistrationExpired   = "registration.promotion_expired"
	TypeRegistrationCancelled = "registration.cancelled"
	TypeRegistrationRejected  = "registration.rejected"
	TypePaymentSubmitted      = "payment.submitted"
	TypePaymentVerified       = "payment.verified"
	TypePaymentRejected       = "payment.rejected"
	TypePaymentRefunded       = "payment.refunded"
)

// Sink accepts notifications for asynchronous delivery.
type Sink interface {
	Publish(ctx context.Context, msg Message) error
}

const notificationQueue = "notification_queue"

// RedisSink enqueues notifications onto a Redis list. A nil client degrades
// to a no-op so the pipeline keeps working without Redis.
type RedisSink struct {
	client *redis.Client
}

func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{client: client}
}

func (s *RedisSink) Publish(ctx context.Context, msg Message) error {
	if s.client == nil {
		return nil
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, notificationQueue, data).Err()
}
