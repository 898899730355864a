// Package signup holds the client side of newsletter signup: a small state
// machine over the subscription endpoint and a terminal form bound to it.
package signup

import (
	"context"

	"github.com/Priya8975/newsletter-service/internal/domain"
	"github.com/Priya8975/newsletter-service/internal/newsletter"
)

type Phase int

const (
	Idle Phase = iota
	Submitting
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the hook state. It is a plain value: every transition returns a
// new State and the caller decides where to keep it.
type State struct {
	Phase   Phase
	Error   string
	Success string
}

func (s State) IsLoading() bool {
	return s.Phase == Submitting
}

// Start begins a submission for email. It refuses while another submission
// is in flight, returning s unchanged. Otherwise messages are cleared and
// email is checked locally; ok reports whether the request should be sent.
func Start(s State, email string) (next State, ok bool) {
	if s.Phase == Submitting {
		return s, false
	}
	if err := newsletter.ValidateEmail(newsletter.NormalizeEmail(email)); err != nil {
		return State{Phase: Failed, Error: newsletter.MsgInvalidEmail}, false
	}
	return State{Phase: Submitting}, true
}

// Complete applies the outcome of a request started with Start. err is a
// transport failure; resp is the server's structured response otherwise.
func Complete(s State, resp *domain.SubscribeResponse, err error) (next State, ok bool) {
	if err != nil || resp == nil {
		return State{Phase: Failed, Error: newsletter.MsgInternal}, false
	}
	if resp.Success {
		return State{Phase: Succeeded, Success: resp.Message}, true
	}
	return State{Phase: Failed, Error: resp.Message}, false
}

// ClearMessages drops both messages. An in-flight submission stays in flight.
func ClearMessages(s State) State {
	if s.Phase == Submitting {
		return State{Phase: Submitting}
	}
	return State{Phase: Idle}
}

// Subscriber is the transport the hook calls.
type Subscriber interface {
	Subscribe(ctx context.Context, email string) (*domain.SubscribeResponse, error)
}

type Hook struct {
	client Subscriber
}

func NewHook(c Subscriber) *Hook {
	return &Hook{client: c}
}

// Subscribe runs Start, the request and Complete in one call.
func (h *Hook) Subscribe(ctx context.Context, s State, email string) (State, bool) {
	next, ok := Start(s, email)
	if !ok {
		return next, false
	}
	resp, err := h.client.Subscribe(ctx, email)
	return Complete(next, resp, err)
}
