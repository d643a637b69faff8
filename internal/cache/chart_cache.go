package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/merchlab/acc-dashboard/backend-go/internal/config"
	"github.com/merchlab/acc-dashboard/backend-go/internal/domain"
)

const (
	chartKeyPrefix     = "dashboard:chart"
	chartScanBatchSize = 100
)

// ChartKey identifies one cached chart payload. Forecast runs are never
// cached; only the combined chart series built from warehouse aggregates
// and default assumptions is.
type ChartKey struct {
	Brand     string
	Category  domain.Category
	WeeksType string
	From      domain.Period
	To        domain.Period
}

type ChartCache interface {
	Get(ctx context.Context, key ChartKey) (*domain.ChartData, bool, error)
	Set(ctx context.Context, key ChartKey, data *domain.ChartData) error
	Invalidate(ctx context.Context, key ChartKey) error
	InvalidateAll(ctx context.Context) error
}

type redisChartCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopChartCache struct{}

func NewChartCache(cfg config.CacheConfig) (ChartCache, error) {
	if !cfg.Enabled {
		return &noopChartCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisChartCache{client: client, ttl: ttl}, nil
}

func NewNoopChartCache() ChartCache {
	return &noopChartCache{}
}

func (c *redisChartCache) Get(ctx context.Context, key ChartKey) (*domain.ChartData, bool, error) {
	payload, err := c.client.Get(ctx, buildChartKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var data domain.ChartData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, false, fmt.Errorf("decode chart cache: %w", err)
	}
	return &data, true, nil
}

func (c *redisChartCache) Set(ctx context.Context, key ChartKey, data *domain.ChartData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode chart cache: %w", err)
	}

	if err := c.client.Set(ctx, buildChartKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisChartCache) Invalidate(ctx context.Context, key ChartKey) error {
	return c.client.Del(ctx, buildChartKey(key)).Err()
}

func (c *redisChartCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, chartKeyPrefix, chartScanBatchSize)
}

func (n *noopChartCache) Get(ctx context.Context, key ChartKey) (*domain.ChartData, bool, error) {
	return nil, false, nil
}

func (n *noopChartCache) Set(ctx context.Context, key ChartKey, data *domain.ChartData) error {
	return nil
}

func (n *noopChartCache) Invalidate(ctx context.Context, key ChartKey) error {
	return nil
}

func (n *noopChartCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildChartKey(key ChartKey) string {
	return fmt.Sprintf("%s:%s", chartKeyPrefix, chartKeyHash(key))
}

func chartKeyHash(key ChartKey) string {
	parts := []string{
		"brand=" + strings.ToUpper(strings.TrimSpace(key.Brand)),
		"category=" + strings.ToLower(string(key.Category)),
		"weeks_type=" + strings.ToLower(strings.TrimSpace(key.WeeksType)),
		"from=" + key.From.String(),
		"to=" + key.To.String(),
	}
	sort.Strings(parts)
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
