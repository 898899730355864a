package domain

import (
	"errors"
	"time"
)

// ErrDuplicateEmail is returned by the store when the email uniqueness
// constraint rejects a write.
var ErrDuplicateEmail = errors.New("email already subscribed")

type Subscriber struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SubscriberSummary is the listing projection of a Subscriber. The activity
// flag is left out since only active subscribers are ever listed.
type SubscriberSummary struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s Subscriber) Summary() SubscriberSummary {
	return SubscriberSummary{ID: s.ID, Email: s.Email, CreatedAt: s.CreatedAt}
}

type SubscribeRequest struct {
	Email string `json:"email"`
}

// SubscribeResponse is the structured response of the subscription endpoint.
type SubscribeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ListSubscribersResponse is the structured response of the listing endpoint.
// Failures are reported with Success false and a Message only.
type ListSubscribersResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    []SubscriberSummary `json:"data"`
	Count   int                 `json:"count"`
}
