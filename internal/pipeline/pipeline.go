// Package pipeline provides the high-level orchestration for taste
// resolution: one extraction pass, then per-category signal resolution and
// aggregation fanned out concurrently, then response assembly.
package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/taste-curator/internal/aggregate"
	"github.com/jonathan/taste-curator/internal/extract"
	"github.com/jonathan/taste-curator/internal/resolve"
	"github.com/jonathan/taste-curator/internal/taste"
)

// Pipeline wires the extraction orchestrator, signal resolver, and
// recommendation aggregator into a single resolution flow.
type Pipeline struct {
	orchestrator *extract.Orchestrator
	resolver     *resolve.Resolver
	aggregator   *aggregate.Aggregator
}

// New creates a pipeline from its three stages.
func New(orchestrator *extract.Orchestrator, resolver *resolve.Resolver, aggregator *aggregate.Aggregator) *Pipeline {
	return &Pipeline{
		orchestrator: orchestrator,
		resolver:     resolver,
		aggregator:   aggregator,
	}
}

// Resolve runs the full taste resolution for one raw input. Taste is
// extracted once, then each category resolves and aggregates independently
// so one category's graph trouble never degrades its siblings. The returned
// response always carries every category.
func (p *Pipeline) Resolve(ctx context.Context, rawInput string) (*taste.FinalResponse, error) {
	ct := p.orchestrator.Parse(ctx, rawInput)

	categories := taste.Categories()
	results := make([]taste.CategoryResult, len(categories))

	g, gCtx := errgroup.WithContext(ctx)
	for i, category := range categories {
		i, category := i, category
		g.Go(func() error {
			signals := p.resolver.Resolve(gCtx, category, ct)
			results[i] = p.aggregator.Aggregate(gCtx, category, signals, ct, rawInput)
			return nil
		})
	}
	// Category workers absorb their own failures; Wait only surfaces
	// context cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return assemble(ct, categories, results), nil
}

// assemble builds the final response, guaranteeing a result and a synthetic
// flag for every category.
func assemble(ct taste.CanonicalTaste, categories []taste.Category, results []taste.CategoryResult) *taste.FinalResponse {
	resp := &taste.FinalResponse{
		Recommendations: make(taste.AggregationResult, len(categories)),
		Synthetic:       make(map[taste.Category]bool, len(categories)),
		Source:          ct.OverallSource(),
	}
	for i, category := range categories {
		resp.Recommendations[category] = results[i]
		resp.Synthetic[category] = results[i].Provenance == taste.ProvenanceSynthetic
	}
	return resp
}
