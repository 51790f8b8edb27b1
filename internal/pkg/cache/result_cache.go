package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Metrics tracks cache performance.
type Metrics struct {
	Hits   int64
	Misses int64
	Sets   int64
}

// ResultCache memoizes gateway call results for a fixed TTL. Generic
// over the result type so each operation keeps a typed cache.
type ResultCache[T any] struct {
	mu      sync.RWMutex
	items   map[string]entry[T]
	ttl     time.Duration
	name    string // for logging/debugging
	metrics Metrics
	logger  *zap.Logger
}

type entry[T any] struct {
	value      T
	expiration int64
}

// NewResultCache creates a typed cache with the given TTL and name.
func NewResultCache[T any](ttl time.Duration, name string, logger *zap.Logger) *ResultCache[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &ResultCache[T]{
		items:  make(map[string]entry[T]),
		ttl:    ttl,
		name:   name,
		logger: logger,
	}
	go c.cleanup()
	return c
}

// Set stores a result under the given key.
func (c *ResultCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[T]{
		value:      value,
		expiration: time.Now().Add(c.ttl).UnixNano(),
	}
	c.metrics.Sets++

	c.logger.Debug("Cache set",
		zap.String("cache", c.name),
		zap.String("key", key),
		zap.Duration("ttl", c.ttl),
	)
}

// Get retrieves a non-expired result.
func (c *ResultCache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[key]
	if !found || time.Now().UnixNano() > item.expiration {
		c.metrics.Misses++
		var zero T
		c.logger.Debug("Cache miss",
			zap.String("cache", c.name),
			zap.String("key", key),
		)
		return zero, false
	}

	c.metrics.Hits++
	return item.value, true
}

// Clear removes every item.
func (c *ResultCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]entry[T])
	c.logger.Info("Cache cleared", zap.String("cache", c.name))
}

// GetMetrics returns current counters.
func (c *ResultCache[T]) GetMetrics() Metrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metrics
}

// Size returns the number of items, expired ones included.
func (c *ResultCache[T]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// cleanup runs twice per TTL period and drops expired items.
func (c *ResultCache[T]) cleanup() {
	ticker := time.NewTicker(c.ttl / 2)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now().UnixNano()
		expired := 0

		for key, item := range c.items {
			if now > item.expiration {
				delete(c.items, key)
				expired++
			}
		}

		if expired > 0 {
			c.logger.Debug("Cache cleanup",
				zap.String("cache", c.name),
				zap.Int("expired_items", expired),
				zap.Int("remaining_items", len(c.items)),
			)
		}
		c.mu.Unlock()
	}
}

// KeyBuilder builds consistent cache keys from a gateway operation
// name plus its normalized arguments.
type KeyBuilder struct {
	components []interface{}
}

// NewKeyBuilder starts a key for the named operation.
func NewKeyBuilder(operation string) *KeyBuilder {
	b := &KeyBuilder{components: make([]interface{}, 0, 8)}
	return b.add("op", operation)
}

func (b *KeyBuilder) add(key string, value interface{}) *KeyBuilder {
	b.components = append(b.components, map[string]interface{}{key: value})
	return b
}

// AddQuery adds a free-text argument, normalized so that case and
// surrounding whitespace do not fragment the cache.
func (b *KeyBuilder) AddQuery(query string) *KeyBuilder {
	return b.add("query", strings.ToLower(strings.TrimSpace(query)))
}

// AddPlaceID adds an opaque place identifier.
func (b *KeyBuilder) AddPlaceID(placeID string) *KeyBuilder {
	return b.add("place_id", placeID)
}

// AddLatLng adds coordinates rounded to the upstream's precision.
func (b *KeyBuilder) AddLatLng(lat, lng float64) *KeyBuilder {
	return b.add("location", fmt.Sprintf("%.6f,%.6f", lat, lng))
}

// AddFields adds a details field allow-list.
func (b *KeyBuilder) AddFields(fields []string) *KeyBuilder {
	return b.add("fields", strings.Join(fields, ","))
}

// Add adds an arbitrary named argument.
func (b *KeyBuilder) Add(key string, value interface{}) *KeyBuilder {
	return b.add(key, value)
}

// Build generates the final key as an MD5 hex digest of the component
// list, so equal (operation, arguments) always map to the same entry.
func (b *KeyBuilder) Build() string {
	jsonBytes, err := json.Marshal(b.components)
	if err != nil {
		// Components are maps of strings and numbers; this cannot
		// realistically fail, but an empty key just means a miss.
		return ""
	}
	hash := md5.Sum(jsonBytes)
	return hex.EncodeToString(hash[:])
}
