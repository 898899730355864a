package newsletter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Priya8975/newsletter-service/internal/domain"
)

// Outcome distinguishes a fresh signup from a reactivation.
type Outcome string

const (
	OutcomeCreated     Outcome = "created"
	OutcomeReactivated Outcome = "ok"
	OutcomeDeactivated Outcome = "deactivated"
)

// Store is the persistence the service needs. Lookups return nil, nil when
// no matching row exists.
type Store interface {
	GetSubscriberByEmail(ctx context.Context, email string) (*domain.Subscriber, error)
	CreateSubscriber(ctx context.Context, email string) (*domain.Subscriber, error)
	ReactivateSubscriber(ctx context.Context, email string) (*domain.Subscriber, error)
	DeactivateSubscriber(ctx context.Context, email string) (*domain.Subscriber, error)
	ListActiveSubscribers(ctx context.Context) ([]domain.SubscriberSummary, error)
}

// ListingCache holds the active subscriber listing between writes. Every
// read reports the cache generation; a fill for an older generation than
// the current one must be dropped, and every invalidation advances it.
type ListingCache interface {
	GetActiveSubscribers(ctx context.Context) (subs []domain.SubscriberSummary, generation int64, ok bool, err error)
	SetActiveSubscribers(ctx context.Context, generation int64, subs []domain.SubscriberSummary) error
	InvalidateActiveSubscribers(ctx context.Context) error
}

// Notifier receives an event after every successful write.
type Notifier interface {
	Broadcast(event domain.SubscriptionEvent)
}

type Result struct {
	Outcome    Outcome
	Message    string
	Subscriber *domain.Subscriber
}

type Service struct {
	store    Store
	cache    ListingCache
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithCache(c ListingCache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

func NewService(store Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe creates a subscriber for email or reactivates an inactive one.
// Failures are *Error values carrying a user-facing message.
func (s *Service) Subscribe(ctx context.Context, email string) (*Result, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	existing, err := s.store.GetSubscriberByEmail(ctx, email)
	if err != nil {
		s.logger.Error("newsletter lookup failed", "error", err)
		return nil, internalError(MsgInternal, err)
	}

	if existing != nil {
		if existing.IsActive {
			return nil, duplicateError(email)
		}

		sub, err := s.store.ReactivateSubscriber(ctx, email)
		if err != nil {
			s.logger.Error("newsletter reactivation failed", "error", err, "subscriber_id", existing.ID)
			return nil, internalError(MsgInternal, err)
		}
		if sub == nil {
			// Another request reactivated it between the lookup and the update.
			return nil, duplicateError(email)
		}

		s.afterWrite(ctx, domain.EventSubscriberReactivated, sub)
		s.logger.Info("subscriber reactivated", "subscriber_id", sub.ID)
		return &Result{Outcome: OutcomeReactivated, Message: MsgReactivated, Subscriber: sub}, nil
	}

	sub, err := s.store.CreateSubscriber(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, duplicateError(email)
		}
		s.logger.Error("newsletter signup failed", "error", err)
		return nil, internalError(MsgInternal, err)
	}

	s.afterWrite(ctx, domain.EventSubscriberCreated, sub)
	s.logger.Info("subscriber created", "subscriber_id", sub.ID)
	return &Result{Outcome: OutcomeCreated, Message: MsgCreated, Subscriber: sub}, nil
}

// Unsubscribe marks an active subscriber inactive. The row is kept so a
// later Subscribe reactivates it.
func (s *Service) Unsubscribe(ctx context.Context, email string) (*Result, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	sub, err := s.store.DeactivateSubscriber(ctx, email)
	if err != nil {
		s.logger.Error("newsletter deactivation failed", "error", err)
		return nil, internalError(MsgInternal, err)
	}
	if sub == nil {
		return nil, &Error{Kind: KindNotFound, Message: MsgNotSubscribed, Err: fmt.Errorf("no active subscriber %q", email)}
	}

	s.afterWrite(ctx, domain.EventSubscriberDeactivated, sub)
	s.logger.Info("subscriber deactivated", "subscriber_id", sub.ID)
	return &Result{Outcome: OutcomeDeactivated, Message: MsgUnsubscribed, Subscriber: sub}, nil
}

// ListActive returns active subscribers, newest first. The result is never nil.
func (s *Service) ListActive(ctx context.Context) ([]domain.SubscriberSummary, error) {
	// The generation is read before the store so a write committed during
	// the query invalidates this fill.
	var (
		generation int64
		fill       bool
	)
	if s.cache != nil {
		subs, gen, ok, err := s.cache.GetActiveSubscribers(ctx)
		switch {
		case err != nil:
			s.logger.Warn("listing cache read failed", "error", err)
		case ok:
			return subs, nil
		default:
			generation, fill = gen, true
		}
	}

	subs, err := s.store.ListActiveSubscribers(ctx)
	if err != nil {
		s.logger.Error("listing subscribers failed", "error", err)
		return nil, internalError(MsgListInternal, err)
	}
	if subs == nil {
		subs = []domain.SubscriberSummary{}
	}

	if fill {
		if err := s.cache.SetActiveSubscribers(ctx, generation, subs); err != nil {
			s.logger.Warn("listing cache write failed", "error", err)
		}
	}

	return subs, nil
}

func (s *Service) afterWrite(ctx context.Context, eventType string, sub *domain.Subscriber) {
	if s.cache != nil {
		if err := s.cache.InvalidateActiveSubscribers(ctx); err != nil {
			s.logger.Warn("listing cache invalidation failed", "error", err)
		}
	}
	if s.notifier != nil {
		s.notifier.Broadcast(domain.SubscriptionEvent{
			Type:      eventType,
			ID:        sub.ID,
			Email:     sub.Email,
			Timestamp: s.now(),
		})
	}
}
