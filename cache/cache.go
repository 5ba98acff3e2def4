package cache

import (
	"time"

	"github.com/dhchun1203/Trend-Analyzer-project/config"
	"github.com/dhchun1203/Trend-Analyzer-project/model"

	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog/log"
)

const (
	popularKey        = "products:popular"
	categoryKeyPrefix = "products:category:"
)

// Cache wraps Ristretto with product listing helpers. A nil *Cache or a
// disabled one behaves as an always-missing cache.
type Cache struct {
	client *ristretto.Cache
	ttl    time.Duration
}

// New creates a new cache instance with the given configuration
func New(cfg config.CacheConfig) (*Cache, error) {
	if !cfg.Enabled {
		log.Info().Msg("Product cache disabled")
		return &Cache{ttl: time.Duration(cfg.TTLSeconds) * time.Second}, nil
	}

	maxCost := int64(cfg.MaxSizeMB) * 1024 * 1024

	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: int64(cfg.CounterSize), // keys tracked for admission
		MaxCost:     maxCost,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("max_size_mb", cfg.MaxSizeMB).
		Int("ttl_seconds", cfg.TTLSeconds).
		Int("counter_size", cfg.CounterSize).
		Msg("Cache initialized successfully")

	return &Cache{
		client: client,
		ttl:    time.Duration(cfg.TTLSeconds) * time.Second,
	}, nil
}

// Get retrieves a value from the cache
func (c *Cache) Get(key string) (interface{}, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	return c.client.Get(key)
}

// Set stores a value with the configured TTL. cost is in bytes.
func (c *Cache) Set(key string, value interface{}, cost int64) bool {
	if c == nil || c.client == nil {
		return false
	}
	return c.client.SetWithTTL(key, value, cost, c.ttl)
}

func (c *Cache) Delete(key string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(key)
}

// Wait blocks until buffered writes are applied.
func (c *Cache) Wait() {
	if c == nil || c.client == nil {
		return
	}
	c.client.Wait()
}

// Close cleanly shuts down the cache
func (c *Cache) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
		log.Info().Msg("Cache closed")
	}
}

// CategoryKey is the cache key of one category listing.
func CategoryKey(category string) string {
	return categoryKeyPrefix + category
}

// PopularKey is the cache key of the popular products listing.
func PopularKey() string {
	return popularKey
}

// GetProductList returns a cached listing.
func (c *Cache) GetProductList(key string) (*model.ProductList, bool) {
	v, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	list, ok := v.(*model.ProductList)
	return list, ok
}

// SetProductList caches list under key, costed by its approximate size.
func (c *Cache) SetProductList(key string, list *model.ProductList) bool {
	if list == nil {
		return false
	}
	return c.Set(key, list, listCost(list))
}

func listCost(list *model.ProductList) int64 {
	cost := int64(64)
	for _, p := range list.Items {
		cost += int64(len(p.ProductName) + len(p.Price) + len(p.ProductURL) + len(p.ImageURL) + len(p.MallName) + len(p.Category) + len(p.Keyword) + 16)
	}
	return cost
}

type MetricsSnapshot struct {
	Enabled      bool    `json:"enabled"`
	Hits         uint64  `json:"hits"`
	Misses       uint64  `json:"misses"`
	KeysAdded    uint64  `json:"keys_added"`
	KeysEvicted  uint64  `json:"keys_evicted"`
	CostAdded    uint64  `json:"cost_added"`
	CostEvicted  uint64  `json:"cost_evicted"`
	SetsDropped  uint64  `json:"sets_dropped"`
	SetsRejected uint64  `json:"sets_rejected"`
	GetsDropped  uint64  `json:"gets_dropped"`
	HitRatio     float64 `json:"hit_ratio"`
	TTLSeconds   int     `json:"ttl_seconds"`
}

// GetMetricsSnapshot returns current cache metrics as a snapshot
func (c *Cache) GetMetricsSnapshot() MetricsSnapshot {
	if c == nil {
		return MetricsSnapshot{}
	}
	if c.client == nil || c.client.Metrics == nil {
		return MetricsSnapshot{TTLSeconds: int(c.ttl.Seconds())}
	}

	m := c.client.Metrics
	hits := m.Hits()
	misses := m.Misses()
	total := hits + misses

	hitRatio := 0.0
	if total > 0 {
		hitRatio = float64(hits) / float64(total)
	}

	return MetricsSnapshot{
		Enabled:      true,
		Hits:         hits,
		Misses:       misses,
		KeysAdded:    m.KeysAdded(),
		KeysEvicted:  m.KeysEvicted(),
		CostAdded:    m.CostAdded(),
		CostEvicted:  m.CostEvicted(),
		SetsDropped:  m.SetsDropped(),
		SetsRejected: m.SetsRejected(),
		GetsDropped:  m.GetsDropped(),
		HitRatio:     hitRatio,
		TTLSeconds:   int(c.ttl.Seconds()),
	}
}
