package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hazelbrook/bookline/pkg/logging"
)

// closedMarker is cached when a provider has no rule for a weekday so the
// absence is also served without a database round trip.
const closedMarker = "closed"

// CachedStore is a Redis read-through cache in front of a RuleSource.
// Cache failures degrade to the underlying source rather than erroring.
type CachedStore struct {
	source RuleSource
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedStore wraps source with a Redis cache. A nil client disables
// caching and the store delegates directly.
func NewCachedStore(source RuleSource, client *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedStore {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedStore{source: source, redis: client, ttl: ttl, logger: logger}
}

// GetRule serves the rule from cache when possible, populating on miss.
func (c *CachedStore) GetRule(ctx context.Context, providerID uuid.UUID, weekday time.Weekday) (Rule, bool, error) {
	if c.redis == nil {
		return c.source.GetRule(ctx, providerID, weekday)
	}

	key := c.key(providerID, weekday)
	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == closedMarker {
			return Rule{}, false, nil
		}
		var r Rule
		if err := json.Unmarshal(data, &r); err == nil {
			return r, true, nil
		}
		c.logger.Warn("schedule cache: corrupt entry, falling through", "key", key)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("schedule cache: read failed", "key", key, "error", err)
	}

	rule, ok, err := c.source.GetRule(ctx, providerID, weekday)
	if err != nil {
		return Rule{}, false, err
	}
	c.populate(ctx, key, rule, ok)
	return rule, ok, nil
}

// Invalidate drops the cached entry after an upsert or delete.
func (c *CachedStore) Invalidate(ctx context.Context, providerID uuid.UUID, weekday time.Weekday) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, c.key(providerID, weekday)).Err(); err != nil {
		c.logger.Warn("schedule cache: invalidate failed", "error", err)
	}
}

func (c *CachedStore) populate(ctx context.Context, key string, rule Rule, ok bool) {
	var payload []byte
	if ok {
		data, err := json.Marshal(rule)
		if err != nil {
			return
		}
		payload = data
	} else {
		payload = []byte(closedMarker)
	}
	if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("schedule cache: write failed", "key", key, "error", err)
	}
}

func (c *CachedStore) key(providerID uuid.UUID, weekday time.Weekday) string {
	return fmt.Sprintf("workhours:%s:%d", providerID, int(weekday))
}
