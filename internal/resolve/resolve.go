// Package resolve maps extracted taste terms onto knowledge graph signal
// ids. Every lookup is independently fallible: a missing entity, tag, or
// audience narrows the downstream query instead of failing it.
package resolve

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/jonathan/taste-curator/internal/taste"
)

// Searcher is the subset of the graph client used for signal resolution.
type Searcher interface {
	SearchEntity(ctx context.Context, category taste.Category, query string) (string, error)
	SearchTag(ctx context.Context, category taste.Category, query string) (string, error)
	SearchAudience(ctx context.Context, query string) (string, error)
}

// Resolver turns a category's taste terms into a SignalSet.
type Resolver struct {
	graph Searcher
}

// New creates a signal resolver backed by the given graph searcher.
func New(graph Searcher) *Resolver {
	return &Resolver{graph: graph}
}

// Resolve performs the entity, tag, and audience lookups for one category.
// An empty term set yields an empty SignalSet with no network calls. Lookup
// failures are logged and never returned; the SignalSet simply carries
// fewer signals.
func (r *Resolver) Resolve(ctx context.Context, category taste.Category, ct taste.CanonicalTaste) taste.SignalSet {
	var signals taste.SignalSet

	term := ct.FirstTerm(category)
	if term == "" {
		return signals
	}

	entityID, err := r.graph.SearchEntity(ctx, category, term)
	if err != nil {
		log.WithFields(log.Fields{"category": category, "term": term}).
			WithError(err).Warn("entity lookup failed")
	} else {
		signals.EntityID = entityID
	}

	tagID, err := r.graph.SearchTag(ctx, category, term)
	if err != nil {
		log.WithFields(log.Fields{"category": category, "term": term}).
			WithError(err).Warn("tag lookup failed")
	} else {
		signals.TagID = tagID
	}

	// Audiences are demographic clusters keyed off broad interests rather
	// than category-specific terms, so the travel term stands in as the
	// interest hint.
	if hint := ct.FirstTerm(taste.CategoryTravel); hint != "" {
		audienceID, err := r.graph.SearchAudience(ctx, hint)
		if err != nil {
			log.WithFields(log.Fields{"category": category, "hint": hint}).
				WithError(err).Warn("audience lookup failed")
		} else {
			signals.AudienceID = audienceID
		}
	}

	signals.LocationQuery = locationQuery(category, term, ct)

	return signals
}

// locationQuery derives the location signal: an explicit region hint wins,
// then the travel category's own term.
func locationQuery(category taste.Category, term string, ct taste.CanonicalTaste) string {
	if ct.Region != "" {
		return ct.Region
	}
	if category == taste.CategoryTravel {
		return term
	}
	return ""
}
