package graph

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/taste-curator/internal/taste"
)

func newCountingServer(t *testing.T, body string) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestCache_SearchEntityMemoized(t *testing.T) {
	srv, calls := newCountingServer(t, `{"entities": [{"entity_id": "ent-1", "name": "Jazz"}]}`)

	cache := NewCache(New(&Options{BaseURL: srv.URL, InsightsURL: srv.URL, APIKey: "k"}), nil)

	for i := 0; i < 3; i++ {
		id, err := cache.SearchEntity(context.Background(), taste.CategoryMusic, "jazz")
		require.NoError(t, err)
		assert.Equal(t, "ent-1", id)
	}

	assert.Equal(t, int64(1), calls.Load(), "repeat lookups should hit the cache")
}

func TestCache_DistinctQueriesNotShared(t *testing.T) {
	srv, calls := newCountingServer(t, `{"entities": [{"entity_id": "ent-1", "name": "Jazz"}]}`)

	cache := NewCache(New(&Options{BaseURL: srv.URL, InsightsURL: srv.URL, APIKey: "k"}), nil)

	_, err := cache.SearchEntity(context.Background(), taste.CategoryMusic, "jazz")
	require.NoError(t, err)
	_, err = cache.SearchEntity(context.Background(), taste.CategoryBooks, "jazz")
	require.NoError(t, err)
	_, err = cache.SearchTag(context.Background(), taste.CategoryMusic, "jazz")
	require.NoError(t, err)

	assert.Equal(t, int64(3), calls.Load())
}

func TestCache_ErrorsNotCached(t *testing.T) {
	srv, calls := newCountingServer(t, `{"entities": []}`)

	cache := NewCache(New(&Options{BaseURL: srv.URL, InsightsURL: srv.URL, APIKey: "k"}), nil)

	for i := 0; i < 2; i++ {
		_, err := cache.SearchEntity(context.Background(), taste.CategoryMusic, "obscure")
		require.Error(t, err)
	}

	assert.Equal(t, int64(2), calls.Load(), "failed lookups must retry")
}

func TestCache_InsightsMemoized(t *testing.T) {
	srv, calls := newCountingServer(t, `{"results": [{"name": "Blue Train", "popularity": 0.9}]}`)

	cache := NewCache(New(&Options{BaseURL: srv.URL, InsightsURL: srv.URL, APIKey: "k"}), nil)
	q := InsightsQuery{Category: taste.CategoryMusic, EntityID: "ent-1", Take: 6}

	for i := 0; i < 2; i++ {
		entities, err := cache.Insights(context.Background(), q)
		require.NoError(t, err)
		require.Len(t, entities, 1)
		assert.Equal(t, "Blue Train", entities[0].Name)
	}

	assert.Equal(t, int64(1), calls.Load())
}

func TestCache_InsightsSignalsNotConflated(t *testing.T) {
	srv, calls := newCountingServer(t, `{"results": [{"name": "Blue Train", "popularity": 0.9}]}`)

	cache := NewCache(New(&Options{BaseURL: srv.URL, InsightsURL: srv.URL, APIKey: "k"}), nil)

	// Ids carry ":" themselves; these two queries must not share a cache slot.
	q1 := InsightsQuery{Category: taste.CategoryMusic, EntityID: "urn:entity:a", Take: 6}
	q2 := InsightsQuery{Category: taste.CategoryMusic, EntityID: "urn", TagID: "entity:a", Take: 6}

	_, err := cache.Insights(context.Background(), q1)
	require.NoError(t, err)
	_, err = cache.Insights(context.Background(), q2)
	require.NoError(t, err)

	assert.Equal(t, int64(2), calls.Load())
}

func TestCache_Expiry(t *testing.T) {
	srv, calls := newCountingServer(t, `{"entities": [{"entity_id": "ent-1", "name": "Jazz"}]}`)

	cache := NewCache(New(&Options{BaseURL: srv.URL, InsightsURL: srv.URL, APIKey: "k"}),
		&CacheConfig{TTL: 10 * time.Millisecond})

	_, err := cache.SearchEntity(context.Background(), taste.CategoryMusic, "jazz")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = cache.SearchEntity(context.Background(), taste.CategoryMusic, "jazz")
	require.NoError(t, err)

	assert.Equal(t, int64(2), calls.Load(), "expired entries refetch")
}

func TestCache_SkipCache(t *testing.T) {
	srv, calls := newCountingServer(t, `{"entities": [{"entity_id": "ent-1", "name": "Jazz"}]}`)

	cache := NewCache(New(&Options{BaseURL: srv.URL, InsightsURL: srv.URL, APIKey: "k"}),
		&CacheConfig{SkipCache: true})

	for i := 0; i < 2; i++ {
		_, err := cache.SearchEntity(context.Background(), taste.CategoryMusic, "jazz")
		require.NoError(t, err)
	}

	assert.Equal(t, int64(2), calls.Load())
}
