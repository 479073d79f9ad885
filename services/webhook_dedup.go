package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stripe retries deliveries for days, but near-term retries dominate.
const dedupTTL = 24 * time.Hour

// EventDeduper records processed webhook event IDs so processor redeliveries
// can be acknowledged without publishing twice. Implementations fail open:
// when in doubt, the delivery counts as first.
type EventDeduper interface {
	FirstDelivery(ctx context.Context, eventID string) bool
}

// RedisEventDeduper guards event IDs with a SETNX-and-TTL key per event.
type RedisEventDeduper struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisEventDeduper(client *redis.Client, logger *zap.Logger) *RedisEventDeduper {
	return &RedisEventDeduper{client: client, logger: logger}
}

func (d *RedisEventDeduper) FirstDelivery(ctx context.Context, eventID string) bool {
	first, err := d.client.SetNX(ctx, "stripe:event:"+eventID, 1, dedupTTL).Result()
	if err != nil {
		d.logger.Warn("Event dedup check failed, processing anyway",
			zap.String("event_id", eventID),
			zap.Error(err),
		)
		return true
	}
	return first
}

// NoopEventDeduper treats every delivery as first. Used when Redis is not
// configured.
type NoopEventDeduper struct{}

func (NoopEventDeduper) FirstDelivery(context.Context, string) bool { return true }
