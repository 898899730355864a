package domain

import "time"

// Subscription event types pushed to admin clients.
const (
	EventSubscriberCreated     = "subscriber_created"
	EventSubscriberReactivated = "subscriber_reactivated"
	EventSubscriberDeactivated = "subscriber_deactivated"
)

type SubscriptionEvent struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}
