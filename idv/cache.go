package idv

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL bounds oracle load during bulk sweeps; the underlying
// status rarely changes within a few minutes.
const DefaultCacheTTL = 300 * time.Second

// VerdictCache stores verdicts keyed by user id. The key is tier-independent
// because the oracle status is; tier comparison happens in the caller.
type VerdictCache interface {
	Get(ctx context.Context, userID string) (Verdict, bool)
	Put(ctx context.Context, userID string, v Verdict)
}

type memoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

type memoryEntry struct {
	verdict Verdict
	expires time.Time
}

// NewMemoryCache returns an in-process TTL cache, the default when no redis
// is configured.
func NewMemoryCache(ttl time.Duration) VerdictCache {
	return &memoryCache{ttl: ttl, entries: make(map[string]memoryEntry)}
}

func (c *memoryCache) Get(_ context.Context, userID string) (Verdict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[userID]
	if !ok {
		return NotEligible, false
	}
	if time.Now().After(entry.expires) {
		delete(c.entries, userID)
		return NotEligible, false
	}
	return entry.verdict, true
}

func (c *memoryCache) Put(_ context.Context, userID string, v Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = memoryEntry{verdict: v, expires: time.Now().Add(c.ttl)}
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache shares verdicts across restarts via redis.
func NewRedisCache(client *redis.Client, ttl time.Duration) VerdictCache {
	return &redisCache{client: client, ttl: ttl}
}

func verdictKey(userID string) string {
	return fmt.Sprintf("idv_verdict:%s", userID)
}

func (c *redisCache) Get(ctx context.Context, userID string) (Verdict, bool) {
	val, err := c.client.Get(ctx, verdictKey(userID)).Result()
	if err != nil {
		return NotEligible, false
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return NotEligible, false
	}
	return Verdict(n), true
}

func (c *redisCache) Put(ctx context.Context, userID string, v Verdict) {
	c.client.Set(ctx, verdictKey(userID), strconv.Itoa(int(v)), c.ttl)
}
