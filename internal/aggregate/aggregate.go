// Package aggregate collects recommendations per category, preferring live
// knowledge graph results and synthesizing regional defaults when the graph
// is unavailable or empty. A request never observes an aggregation failure.
package aggregate

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/jonathan/taste-curator/internal/graph"
	"github.com/jonathan/taste-curator/internal/region"
	"github.com/jonathan/taste-curator/internal/taste"
)

// DefaultTake is the page size requested from the graph per category.
const DefaultTake = 6

// Match scores are reported in a narrow high-confidence band: the graph's
// raw popularity is scaled into [ScoreFloor, ScoreCeil] so weak matches do
// not read as noise and strong ones never claim certainty.
const (
	ScoreFloor = 75
	ScoreCeil  = 99
)

// maxDescriptionLen bounds item descriptions after HTML stripping.
const maxDescriptionLen = 200

// Insighter is the subset of the graph client used for aggregation.
type Insighter interface {
	Insights(ctx context.Context, q graph.InsightsQuery) ([]graph.Entity, error)
}

// Aggregator produces the recommendation list for a single category.
type Aggregator struct {
	graph Insighter
	table *region.Table
	take  int
}

// New creates an aggregator backed by the given graph client and fallback
// table.
func New(insighter Insighter, table *region.Table) *Aggregator {
	return &Aggregator{graph: insighter, table: table, take: DefaultTake}
}

// Aggregate returns the recommendations for one category. The live graph
// path is tried first when any signal resolved; every failure mode falls
// back to synthetic regional data, so the result always carries at least
// one item.
func (a *Aggregator) Aggregate(ctx context.Context, category taste.Category, signals taste.SignalSet, ct taste.CanonicalTaste, rawInput string) taste.CategoryResult {
	if !signals.Empty() {
		items, err := a.live(ctx, category, signals)
		if err != nil {
			log.WithField("category", category).WithError(err).
				Warn("live aggregation failed, synthesizing")
		} else if len(items) > 0 {
			return taste.CategoryResult{Items: items, Provenance: taste.ProvenanceLive}
		}
	}

	return taste.CategoryResult{
		Items:      a.synthesize(category, ct, rawInput),
		Provenance: taste.ProvenanceSynthetic,
	}
}

// live runs the multi-signal graph query and maps the results.
func (a *Aggregator) live(ctx context.Context, category taste.Category, signals taste.SignalSet) ([]taste.RecommendationItem, error) {
	entities, err := a.graph.Insights(ctx, graph.InsightsQuery{
		Category:      category,
		EntityID:      signals.EntityID,
		TagID:         signals.TagID,
		AudienceID:    signals.AudienceID,
		LocationQuery: signals.LocationQuery,
		Take:          a.take,
	})
	if err != nil {
		return nil, err
	}

	items := make([]taste.RecommendationItem, 0, len(entities))
	seen := make(map[string]bool, len(entities))
	for _, e := range entities {
		if e.Name == "" {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(e.Name))
		if seen[key] {
			continue
		}
		seen[key] = true

		items = append(items, taste.RecommendationItem{
			ID:          e.Identifier(),
			Name:        e.Name,
			Description: cleanDescription(e.Description),
			Category:    category,
			MatchScore:  scaleScore(e.Popularity),
			Provenance:  taste.ProvenanceLive,
		})
	}
	return items, nil
}

// synthesize builds deterministic fallback items from the regional table.
// Entries overlapping the extracted terms are preferred; otherwise a stable
// pseudo-random pick seeded from the raw input keeps repeated requests
// byte-identical.
func (a *Aggregator) synthesize(category taste.Category, ct taste.CanonicalTaste, rawInput string) []taste.RecommendationItem {
	detected := detectRegion(ct, rawInput)
	entries := a.table.Entries(detected, category)

	picked := overlapping(entries, ct, rawInput)
	if len(picked) == 0 {
		picked = seededPick(entries, rawInput)
	}

	items := make([]taste.RecommendationItem, 0, len(picked))
	for i, e := range picked {
		items = append(items, taste.RecommendationItem{
			ID:          syntheticID(detected, category, i),
			Name:        e.Name,
			Description: e.Description,
			Category:    category,
			MatchScore:  e.Match,
			Provenance:  taste.ProvenanceSynthetic,
		})
	}
	return items
}

// detectRegion prefers the extractor's explicit region hint, then keyword
// and script detection over terms and raw input.
func detectRegion(ct taste.CanonicalTaste, rawInput string) region.Region {
	if ct.Region != "" {
		if r := region.Detect(ct.Region); r != region.Global {
			return r
		}
	}
	if r := region.DetectTerms(ct.AllTerms()); r != region.Global {
		return r
	}
	return region.Detect(rawInput)
}

// overlapping returns the entries whose name or description shares a word
// with the extracted terms or the raw input, preserving table order.
func overlapping(entries []region.DefaultEntry, ct taste.CanonicalTaste, rawInput string) []region.DefaultEntry {
	haystack := strings.ToLower(rawInput + " " + strings.Join(ct.AllTerms(), " "))

	var matched []region.DefaultEntry
	for _, e := range entries {
		if wordOverlap(haystack, e.Name) || wordOverlap(haystack, e.Description) {
			matched = append(matched, e)
		}
	}
	return matched
}

// wordOverlap reports whether any word of text appears in the haystack.
// Short words are skipped to avoid matching on articles and prepositions.
func wordOverlap(haystack, text string) bool {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if len(word) < 4 {
			continue
		}
		if strings.Contains(haystack, word) {
			return true
		}
	}
	return false
}

// seededPick rotates the entry list by an FNV hash of the raw input so the
// same input always yields the same fallback items.
func seededPick(entries []region.DefaultEntry, rawInput string) []region.DefaultEntry {
	if len(entries) == 0 {
		return nil
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(rawInput))
	offset := int(h.Sum32() % uint32(len(entries)))

	picked := make([]region.DefaultEntry, 0, len(entries))
	for i := range entries {
		picked = append(picked, entries[(offset+i)%len(entries)])
	}
	return picked
}

func syntheticID(r region.Region, category taste.Category, i int) string {
	return fmt.Sprintf("synthetic:%s:%s:%d", r, category, i+1)
}

// scaleScore maps the graph's popularity metric, a fraction in [0,1], into
// the [ScoreFloor, ScoreCeil] band. Out-of-range values clamp.
func scaleScore(popularity float64) int {
	if popularity < 0 {
		popularity = 0
	}
	if popularity > 1 {
		popularity = 1
	}
	score := ScoreFloor + int(math.Round(popularity*float64(ScoreCeil-ScoreFloor)))
	if score > ScoreCeil {
		score = ScoreCeil
	}
	return score
}
