package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Priya8975/newsletter-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE unique_violation
const uniqueViolation = "23505"

const subscriberColumns = `id, email, is_active, created_at, updated_at`

func scanSubscriber(row pgx.Row) (*domain.Subscriber, error) {
	var sub domain.Subscriber
	var id uuid.UUID
	if err := row.Scan(&id, &sub.Email, &sub.IsActive, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return nil, err
	}
	sub.ID = id.String()
	return &sub, nil
}

// CreateSubscriber inserts an active subscriber. A concurrent insert of the
// same email surfaces as domain.ErrDuplicateEmail.
func (s *PostgresStore) CreateSubscriber(ctx context.Context, email string) (*domain.Subscriber, error) {
	sub, err := scanSubscriber(s.pool.QueryRow(ctx, `
		INSERT INTO newsletter_subscribers (id, email, is_active)
		VALUES ($1, $2, TRUE)
		RETURNING `+subscriberColumns,
		uuid.New(), email,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("inserting subscriber: %w", domain.ErrDuplicateEmail)
		}
		return nil, fmt.Errorf("inserting subscriber: %w", err)
	}
	return sub, nil
}

// GetSubscriberByEmail returns the subscriber for email, or nil, nil if none exists.
func (s *PostgresStore) GetSubscriberByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	sub, err := scanSubscriber(s.pool.QueryRow(ctx, `
		SELECT `+subscriberColumns+`
		FROM newsletter_subscribers WHERE email = $1
	`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying subscriber: %w", err)
	}
	return sub, nil
}

// ReactivateSubscriber flips an inactive subscriber back to active. It
// returns nil, nil when no inactive row matched. created_at is left alone.
func (s *PostgresStore) ReactivateSubscriber(ctx context.Context, email string) (*domain.Subscriber, error) {
	return s.setActive(ctx, email, true)
}

// DeactivateSubscriber marks an active subscriber inactive without removing
// the row. It returns nil, nil when no active row matched.
func (s *PostgresStore) DeactivateSubscriber(ctx context.Context, email string) (*domain.Subscriber, error) {
	return s.setActive(ctx, email, false)
}

func (s *PostgresStore) setActive(ctx context.Context, email string, active bool) (*domain.Subscriber, error) {
	sub, err := scanSubscriber(s.pool.QueryRow(ctx, `
		UPDATE newsletter_subscribers
		SET is_active = $2, updated_at = NOW()
		WHERE email = $1 AND is_active <> $2
		RETURNING `+subscriberColumns,
		email, active,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("updating subscriber: %w", err)
	}
	return sub, nil
}

// ListActiveSubscribers returns active subscribers, newest first.
func (s *PostgresStore) ListActiveSubscribers(ctx context.Context) ([]domain.SubscriberSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, email, created_at
		FROM newsletter_subscribers
		WHERE is_active = TRUE
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying subscribers: %w", err)
	}
	defer rows.Close()

	subscribers := []domain.SubscriberSummary{}
	for rows.Next() {
		var sub domain.SubscriberSummary
		var id uuid.UUID
		if err := rows.Scan(&id, &sub.Email, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning subscriber: %w", err)
		}
		sub.ID = id.String()
		subscribers = append(subscribers, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subscribers: %w", err)
	}

	return subscribers, nil
}
