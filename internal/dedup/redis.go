package dedup

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// processedValue is the sentinel stored under a handled event ID. Only key
// existence matters; the value is for humans inspecting the store.
const processedValue = "processed"

// RedisConfig configures the Redis-backed store.
type RedisConfig struct {
	Addr   string
	TLS    bool // managed Redis endpoints terminate TLS with certs we don't pin
	TTL    time.Duration
	Logger *slog.Logger
}

// RedisStore implements Store over a shared Redis instance, so concurrent
// bridge processes agree on which events were handled.
type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedis creates a Redis-backed dedup store.
func NewRedis(cfg RedisConfig) *RedisStore {
	opts := &redis.Options{Addr: cfg.Addr}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	return &RedisStore{
		rdb:    redis.NewClient(opts),
		ttl:    cfg.TTL,
		logger: cfg.Logger,
	}
}

// Seen reports whether the event ID exists in the store. Expired keys read as
// never seen.
func (s *RedisStore) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, eventID).Result()
	if err != nil {
		return false, fmt.Errorf("%w: EXISTS %s: %v", ErrRead, eventID, err)
	}
	return n > 0, nil
}

// Mark records the event ID with the configured TTL. The key is never deleted
// explicitly; expiry bounds store growth and matches the upstream redelivery
// window.
func (s *RedisStore) Mark(ctx context.Context, eventID string) error {
	if err := s.rdb.SetEx(ctx, eventID, processedValue, s.ttl).Err(); err != nil {
		s.logger.Error("failed to mark event processed", "event_id", eventID, "err", err)
		return fmt.Errorf("%w: SETEX %s: %v", ErrWrite, eventID, err)
	}
	return nil
}

// Ping verifies store connectivity; used by the check command, not per request.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
