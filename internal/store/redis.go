package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Priya8975/newsletter-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	activeSubscribersKey = "newsletter:active_subscribers"
	listingGenerationKey = "newsletter:active_subscribers:generation"
)

// RedisStore caches the active subscriber listing in Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return NewRedisFromClient(client, ttl), nil
}

// NewRedisFromClient wraps an existing client. A non-positive ttl keeps
// entries until they are invalidated.
func NewRedisFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// GetActiveSubscribers returns the cached listing and the current cache
// generation. ok is false on a miss; the generation is valid either way.
func (s *RedisStore) GetActiveSubscribers(ctx context.Context) ([]domain.SubscriberSummary, int64, bool, error) {
	vals, err := s.client.MGet(ctx, activeSubscribersKey, listingGenerationKey).Result()
	if err != nil {
		return nil, 0, false, fmt.Errorf("reading cached listing: %w", err)
	}

	gen, err := parseGeneration(vals[1])
	if err != nil {
		return nil, 0, false, err
	}

	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, false, nil
	}

	var subs []domain.SubscriberSummary
	if err := json.Unmarshal([]byte(raw), &subs); err != nil {
		return nil, gen, false, fmt.Errorf("decoding cached listing: %w", err)
	}
	if subs == nil {
		subs = []domain.SubscriberSummary{}
	}
	return subs, gen, true, nil
}

// SetActiveSubscribers caches subs if the generation is still gen. A
// listing read before an invalidation is silently dropped.
func (s *RedisStore) SetActiveSubscribers(ctx context.Context, gen int64, subs []domain.SubscriberSummary) error {
	data, err := json.Marshal(subs)
	if err != nil {
		return fmt.Errorf("encoding listing: %w", err)
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, listingGenerationKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		curGen, err := parseGeneration(cur)
		if err != nil {
			return err
		}
		if curGen != gen {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, activeSubscribersKey, data, s.ttl)
			return nil
		})
		return err
	}, listingGenerationKey)

	// The generation moved between WATCH and EXEC.
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("caching listing: %w", err)
	}
	return nil
}

// InvalidateActiveSubscribers drops the cached listing and bumps the
// generation so in-flight fills are discarded.
func (s *RedisStore) InvalidateActiveSubscribers(ctx context.Context) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, listingGenerationKey)
		pipe.Del(ctx, activeSubscribersKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidating cached listing: %w", err)
	}
	return nil
}

func parseGeneration(v any) (int64, error) {
	switch g := v.(type) {
	case nil:
		return 0, nil
	case string:
		if g == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(g, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("decoding listing generation: %w", err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unexpected listing generation type %T", v)
	}
}
