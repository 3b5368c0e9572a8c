package graph

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/taste-curator/internal/taste"
)

// DefaultCacheTTL bounds how long a lookup result is reused. Graph
// entities change rarely; fifteen minutes keeps repeated resolutions of
// popular terms off the network.
const DefaultCacheTTL = 15 * time.Minute

// CacheConfig holds configuration for the caching client.
type CacheConfig struct {
	TTL       time.Duration
	SkipCache bool // For testing or forcing fresh lookups
}

// DefaultCacheConfig returns sensible defaults.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{TTL: DefaultCacheTTL}
}

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

// Cache wraps a graph client with in-memory memoization. Searches are
// deterministic for a given query, so repeated requests within the TTL
// are served from memory. Only successful lookups are cached; failures
// always retry against the live API.
type Cache struct {
	client    *Client
	ttl       time.Duration
	skipCache bool

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCache creates a caching wrapper around a graph client. A nil config
// uses defaults.
func NewCache(client *Client, config *CacheConfig) *Cache {
	if config == nil {
		config = DefaultCacheConfig()
	}
	ttl := config.TTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		client:    client,
		ttl:       ttl,
		skipCache: config.SkipCache,
		entries:   make(map[string]cacheEntry),
	}
}

// SearchEntity resolves a term to an entity id, serving repeats from cache.
func (c *Cache) SearchEntity(ctx context.Context, category taste.Category, query string) (string, error) {
	key := "entity:" + string(category) + ":" + query
	return c.cachedString(ctx, key, func() (string, error) {
		return c.client.SearchEntity(ctx, category, query)
	})
}

// SearchTag resolves a term to a tag id, serving repeats from cache.
func (c *Cache) SearchTag(ctx context.Context, category taste.Category, query string) (string, error) {
	key := "tag:" + string(category) + ":" + query
	return c.cachedString(ctx, key, func() (string, error) {
		return c.client.SearchTag(ctx, category, query)
	})
}

// SearchAudience resolves a term to an audience id, serving repeats from cache.
func (c *Cache) SearchAudience(ctx context.Context, query string) (string, error) {
	return c.cachedString(ctx, "audience:"+query, func() (string, error) {
		return c.client.SearchAudience(ctx, query)
	})
}

// Insights runs a recommendation query, serving repeats from cache.
func (c *Cache) Insights(ctx context.Context, q InsightsQuery) ([]Entity, error) {
	// Signal ids are urn strings containing ":", so each field is quoted
	// to keep distinct queries from sharing a key.
	key := fmt.Sprintf("insights:%q:%q:%q:%q:%q:%d",
		q.Category, q.EntityID, q.TagID, q.AudienceID, q.LocationQuery, q.Take)

	if !c.skipCache {
		if value, ok := c.get(key); ok {
			return value.([]Entity), nil
		}
	}

	entities, err := c.client.Insights(ctx, q)
	if err != nil {
		return nil, err
	}
	c.put(key, entities)
	return entities, nil
}

// EntityDetails fetches full entity metadata, serving repeats from cache.
func (c *Cache) EntityDetails(ctx context.Context, id string) (*Entity, error) {
	key := "details:" + id

	if !c.skipCache {
		if value, ok := c.get(key); ok {
			return value.(*Entity), nil
		}
	}

	entity, err := c.client.EntityDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	c.put(key, entity)
	return entity, nil
}

func (c *Cache) cachedString(_ context.Context, key string, lookup func() (string, error)) (string, error) {
	if !c.skipCache {
		if value, ok := c.get(key); ok {
			return value.(string), nil
		}
	}

	result, err := lookup()
	if err != nil {
		return "", err
	}
	c.put(key, result)
	return result, nil
}

func (c *Cache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.value, true
}

func (c *Cache) put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expiresAt: time.Now().Add(c.ttl)}
}
