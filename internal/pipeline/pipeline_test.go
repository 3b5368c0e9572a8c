package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/taste-curator/internal/aggregate"
	"github.com/jonathan/taste-curator/internal/extract"
	"github.com/jonathan/taste-curator/internal/graph"
	"github.com/jonathan/taste-curator/internal/region"
	"github.com/jonathan/taste-curator/internal/resolve"
	"github.com/jonathan/taste-curator/internal/taste"
)

// fakeGraph implements both the resolver and aggregator graph interfaces.
// Categories listed in failing get errors on every call.
type fakeGraph struct {
	mu       sync.Mutex
	failing  map[taste.Category]bool
	insights map[taste.Category][]graph.Entity
}

func (f *fakeGraph) SearchEntity(_ context.Context, c taste.Category, _ string) (string, error) {
	if f.failing[c] {
		return "", errors.New("search down")
	}
	return "ent-" + string(c), nil
}

func (f *fakeGraph) SearchTag(_ context.Context, c taste.Category, _ string) (string, error) {
	if f.failing[c] {
		return "", errors.New("search down")
	}
	return "tag-" + string(c), nil
}

func (f *fakeGraph) SearchAudience(_ context.Context, _ string) (string, error) {
	return "aud-1", nil
}

func (f *fakeGraph) Insights(_ context.Context, q graph.InsightsQuery) ([]graph.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[q.Category] {
		return nil, errors.New("insights down")
	}
	return f.insights[q.Category], nil
}

// newTestPipeline builds a pipeline with no credentials (lexical
// extraction) over the given fake graph.
func newTestPipeline(g *fakeGraph) *Pipeline {
	table := region.DefaultTable()
	return New(
		extract.NewOrchestrator(nil, extract.NewSemantic(nil), extract.NewLexical(table)),
		resolve.New(g),
		aggregate.New(g, table),
	)
}

func liveEntities(name string) []graph.Entity {
	return []graph.Entity{{ID: "e-" + name, Name: name, Description: "desc", Popularity: 0.8}}
}

func TestResolve_AllCategoriesPresent(t *testing.T) {
	g := &fakeGraph{insights: map[taste.Category][]graph.Entity{
		taste.CategoryMusic:  liveEntities("Blue Note"),
		taste.CategoryFood:   liveEntities("Som Tum"),
		taste.CategoryBooks:  liveEntities("And Then There Were None"),
		taste.CategoryTravel: liveEntities("Bangkok"),
	}}

	resp, err := newTestPipeline(g).Resolve(context.Background(),
		"I enjoy Agatha Christie mysteries, jazz, and Thai street food")
	require.NoError(t, err)

	require.Len(t, resp.Recommendations, len(taste.Categories()))
	require.Len(t, resp.Synthetic, len(taste.Categories()))
	for _, c := range taste.Categories() {
		result, ok := resp.Recommendations[c]
		require.True(t, ok, "category %s missing", c)
		assert.NotEmpty(t, result.Items, "category %s empty", c)
	}
	assert.Equal(t, taste.SourceLexical, resp.Source)
}

func TestResolve_PartialGraphFailureIsolated(t *testing.T) {
	g := &fakeGraph{
		failing: map[taste.Category]bool{taste.CategoryFood: true},
		insights: map[taste.Category][]graph.Entity{
			taste.CategoryMusic:  liveEntities("Blue Note"),
			taste.CategoryBooks:  liveEntities("Poirot Investigates"),
			taste.CategoryTravel: liveEntities("Bangkok"),
		},
	}

	resp, err := newTestPipeline(g).Resolve(context.Background(),
		"jazz, murder mysteries and Thai food in Bangkok")
	require.NoError(t, err)

	assert.False(t, resp.Synthetic[taste.CategoryMusic])
	assert.True(t, resp.Synthetic[taste.CategoryFood])
	assert.Equal(t, taste.ProvenanceSynthetic, resp.Recommendations[taste.CategoryFood].Provenance)
	assert.Equal(t, taste.ProvenanceLive, resp.Recommendations[taste.CategoryMusic].Provenance)
	assert.NotEmpty(t, resp.Recommendations[taste.CategoryFood].Items)
}

func TestResolve_TotalGraphFailureAllSynthetic(t *testing.T) {
	g := &fakeGraph{failing: map[taste.Category]bool{
		taste.CategoryMusic:  true,
		taste.CategoryFood:   true,
		taste.CategoryBooks:  true,
		taste.CategoryTravel: true,
	}}

	resp, err := newTestPipeline(g).Resolve(context.Background(), "jazz and sushi")
	require.NoError(t, err)

	for _, c := range taste.Categories() {
		assert.True(t, resp.Synthetic[c], "category %s should be synthetic", c)
		assert.NotEmpty(t, resp.Recommendations[c].Items)
	}
}

func TestResolve_EmptyInputStillAnswers(t *testing.T) {
	g := &fakeGraph{}

	resp, err := newTestPipeline(g).Resolve(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, taste.SourceDefault, resp.Source)
	for _, c := range taste.Categories() {
		assert.NotEmpty(t, resp.Recommendations[c].Items, "category %s", c)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	g := &fakeGraph{failing: map[taste.Category]bool{
		taste.CategoryMusic:  true,
		taste.CategoryFood:   true,
		taste.CategoryBooks:  true,
		taste.CategoryTravel: true,
	}}
	p := newTestPipeline(g)

	input := "jazz and murder mysteries"
	first, err := p.Resolve(context.Background(), input)
	require.NoError(t, err)
	second, err := p.Resolve(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolve_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPipeline(&fakeGraph{}).Resolve(ctx, "jazz")
	assert.Error(t, err)
}
