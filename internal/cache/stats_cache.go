package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// DashboardStats is the cached snapshot rendered on the admin dashboard.
// Revenue figures are whole rupees.
type DashboardStats struct {
	SalesToday       int       `json:"salesToday"`
	RevenueToday     int       `json:"revenueToday"`
	EyeTestsToday    int       `json:"eyeTestsToday"`
	NewPatientsToday int       `json:"newPatientsToday"`
	PendingLabOrders int       `json:"pendingLabOrders"`
	LowStockSKUs     int       `json:"lowStockSkus"`
	TopSellingSKU    string    `json:"topSellingSku,omitempty"`
	CachedAt         time.Time `json:"cachedAt"`
}

// StatsCache caches daily dashboard snapshots per branch. Entries expire at
// end of day IST so a stale snapshot never leaks into the next business day;
// the report worker refreshes them on a much shorter cycle.
type StatsCache struct {
	redis *RedisClient
}

// NewStatsCache creates a new StatsCache.
func NewStatsCache(redis *RedisClient) *StatsCache {
	return &StatsCache{
		redis: redis,
	}
}

// ScopeAll aggregates every branch into a single snapshot.
const ScopeAll = "all"

// calculateTTL calculates TTL until end of day in IST timezone.
func (c *StatsCache) calculateTTL() time.Duration {
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Now().In(ist)
	eod := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, ist)
	return time.Until(eod)
}

// key returns the Redis key for a branch scope ("all" or a branch code).
func (c *StatsCache) key(scope string) string {
	return fmt.Sprintf("dashboard:stats:%s", scope)
}

// Set stores a dashboard snapshot for the given scope.
func (c *StatsCache) Set(ctx context.Context, scope string, stats *DashboardStats) error {
	stats.CachedAt = time.Now()

	jsonData, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard stats: %w", err)
	}

	if err := c.redis.Set(ctx, c.key(scope), string(jsonData), c.calculateTTL()); err != nil {
		return fmt.Errorf("failed to set stats key: %w", err)
	}

	return nil
}

// Get retrieves the cached snapshot for a scope. A cache miss surfaces as the
// underlying redis error so callers can fall back to a live computation.
func (c *StatsCache) Get(ctx context.Context, scope string) (*DashboardStats, error) {
	jsonData, err := c.redis.Get(ctx, c.key(scope))
	if err != nil {
		return nil, err
	}

	var stats DashboardStats
	if err := json.Unmarshal([]byte(jsonData), &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dashboard stats: %w", err)
	}

	return &stats, nil
}

// Invalidate removes a scope's snapshot, forcing the next read to recompute.
func (c *StatsCache) Invalidate(ctx context.Context, scopes ...string) error {
	keys := make([]string, 0, len(scopes))
	for _, s := range scopes {
		keys = append(keys, c.key(s))
	}
	return c.redis.Delete(ctx, keys...)
}
