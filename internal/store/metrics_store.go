package store

import (
	"context"
	"fmt"
)

// SubscriberMetrics holds aggregated subscriber counts.
type SubscriberMetrics struct {
	TotalSubscribers    int `json:"total_subscribers"`
	ActiveSubscribers   int `json:"active_subscribers"`
	InactiveSubscribers int `json:"inactive_subscribers"`
}

// GetSubscriberMetrics returns subscriber counts straight from the table.
func (s *PostgresStore) GetSubscriberMetrics(ctx context.Context) (*SubscriberMetrics, error) {
	var m SubscriberMetrics

	err := s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE is_active) AS active
		FROM newsletter_subscribers
	`).Scan(&m.TotalSubscribers, &m.ActiveSubscribers)
	if err != nil {
		return nil, fmt.Errorf("querying subscriber metrics: %w", err)
	}

	m.InactiveSubscribers = m.TotalSubscribers - m.ActiveSubscribers
	return &m, nil
}
