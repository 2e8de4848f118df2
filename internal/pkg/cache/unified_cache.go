package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/FACorreiaa/go-wander/internal/app/observability/metrics"
)

// CacheMetrics tracks cache performance
type CacheMetrics struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
}

// UnifiedCache is a typed view over a go-cache store.
type UnifiedCache[T any] struct {
	store  *gocache.Cache
	ttl    time.Duration
	name   string
	logger *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

// NewUnifiedCache creates a cache whose entries expire after ttl.
func NewUnifiedCache[T any](ttl time.Duration, name string, logger *zap.Logger) *UnifiedCache[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnifiedCache[T]{
		store:  gocache.New(ttl, cleanupInterval(ttl)),
		ttl:    ttl,
		name:   name,
		logger: logger,
	}
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return time.Minute
	}
	return max(ttl/2, time.Second)
}

func (c *UnifiedCache[T]) Set(key string, value T) {
	c.store.SetDefault(key, value)
	c.sets.Add(1)
	c.logger.Debug("Cache set",
		zap.String("cache", c.name),
		zap.String("key", key),
		zap.Duration("ttl", c.ttl))
}

func (c *UnifiedCache[T]) Get(key string) (T, bool) {
	var zero T
	v, found := c.store.Get(key)
	if !found {
		c.misses.Add(1)
		c.logger.Debug("Cache miss", zap.String("cache", c.name), zap.String("key", key))
		return zero, false
	}
	value, ok := v.(T)
	if !ok {
		c.misses.Add(1)
		c.store.Delete(key)
		return zero, false
	}

	c.hits.Add(1)
	metrics.Get().CacheHitsTotal.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("cache", c.name)))
	c.logger.Debug("Cache hit", zap.String("cache", c.name), zap.String("key", key))
	return value, true
}

func (c *UnifiedCache[T]) Delete(key string) {
	c.store.Delete(key)
}

// Clear removes all items from the cache
func (c *UnifiedCache[T]) Clear() {
	c.store.Flush()
	c.logger.Info("Cache cleared", zap.String("cache", c.name))
}

func (c *UnifiedCache[T]) GetMetrics() CacheMetrics {
	return CacheMetrics{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Sets:   c.sets.Load(),
	}
}

// Size counts unexpired and not yet collected items.
func (c *UnifiedCache[T]) Size() int {
	return c.store.ItemCount()
}

// CacheKeyBuilder builds stable keys out of request components.
type CacheKeyBuilder struct {
	components []map[string]any
}

func NewCacheKeyBuilder() *CacheKeyBuilder {
	return &CacheKeyBuilder{components: make([]map[string]any, 0, 8)}
}

func (b *CacheKeyBuilder) Add(key string, value any) *CacheKeyBuilder {
	if s, ok := value.(string); ok {
		value = strings.ToLower(strings.TrimSpace(s))
	}
	b.components = append(b.components, map[string]any{key: value})
	return b
}

func (b *CacheKeyBuilder) AddDestination(destination string) *CacheKeyBuilder {
	return b.Add("destination", destination)
}

func (b *CacheKeyBuilder) AddDomain(domain string) *CacheKeyBuilder {
	return b.Add("domain", domain)
}

// Build hashes the components with BLAKE2b-256.
func (b *CacheKeyBuilder) Build() (string, error) {
	jsonBytes, err := json.Marshal(b.components)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cache key components: %w", err)
	}
	sum := blake2b.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// BuildOrDefault builds the key and returns "" on error. Callers skip the
// cache for an empty key.
func (b *CacheKeyBuilder) BuildOrDefault() string {
	key, err := b.Build()
	if err != nil {
		return ""
	}
	return key
}
