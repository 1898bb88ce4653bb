package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hotelhaven/booking-backend/internal/config"
)

// NewClient connects to Redis using the given configuration. Redis is
// optional infrastructure: when no address is configured or the server is
// unreachable, nil is returned and callers degrade by disabling dedup and
// caching.
func NewClient(cfg config.RedisConfig, logger *logrus.Logger) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Redis unreachable, webhook dedup and listing cache disabled")
		return nil
	}

	return client
}

// EventDeduper remembers processed gateway event IDs so exact webhook replays
// can be short-circuited. Best effort only: reconciliation stays idempotent
// without it.
type EventDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEventDeduper creates an EventDeduper. A nil client disables dedup.
func NewEventDeduper(client *redis.Client, ttl time.Duration) *EventDeduper {
	return &EventDeduper{client: client, ttl: ttl}
}

// Seen marks the event ID as processed and reports whether it had already
// been seen within the TTL window. Errors count as not seen.
func (d *EventDeduper) Seen(ctx context.Context, eventID string) bool {
	if d == nil || d.client == nil || eventID == "" {
		return false
	}

	key := fmt.Sprintf("webhook:event:%s", eventID)
	set, err := d.client.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		return false
	}
	return !set
}
