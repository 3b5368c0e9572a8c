// Package taste defines the data model shared across the taste resolution
// pipeline: canonical taste categories, resolved signals, and recommendation
// results.
package taste

import "strings"

// Category is one of the fixed taste categories the pipeline resolves.
type Category string

// The canonical category vocabulary. Upstream sources are inconsistent about
// singular vs plural ("book" vs "books") and "travel" vs "place"; this set is
// canonical and GraphType holds the mapping to knowledge-graph entity types.
const (
	CategoryMusic  Category = "music"
	CategoryFood   Category = "food"
	CategoryBooks  Category = "books"
	CategoryTravel Category = "travel"
)

// Categories returns the configured category set in stable order.
func Categories() []Category {
	return []Category{CategoryMusic, CategoryFood, CategoryBooks, CategoryTravel}
}

// GraphType returns the knowledge-graph entity type for a category.
func (c Category) GraphType() string {
	switch c {
	case CategoryBooks:
		return "book"
	case CategoryTravel:
		return "place"
	default:
		return string(c)
	}
}

// Valid reports whether c is part of the configured category set.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Source identifies which extractor produced a category's terms.
type Source string

// Extraction sources, in decreasing order of fidelity.
const (
	SourceSemantic Source = "semantic"
	SourceLexical  Source = "lexical"
	SourceDefault  Source = "default"
)

// CategoryTaste holds the extracted terms for one category.
type CategoryTaste struct {
	Terms  []string `json:"terms"`
	Source Source   `json:"source"`
}

// CanonicalTaste is the normalized output of parsing, independent of which
// extractor produced it. Every configured category key is always present,
// even when its term list is empty. Built once per request and read-only
// afterwards.
type CanonicalTaste struct {
	Categories map[Category]CategoryTaste `json:"categories"`
	// Region is an optional cultural/geographic hint detected during
	// extraction, used for location signals and synthetic fallback.
	Region string `json:"region,omitempty"`
}

// NewCanonicalTaste returns a CanonicalTaste with every configured category
// present and empty, tagged with the given source.
func NewCanonicalTaste(source Source) CanonicalTaste {
	cats := make(map[Category]CategoryTaste, len(Categories()))
	for _, c := range Categories() {
		cats[c] = CategoryTaste{Terms: []string{}, Source: source}
	}
	return CanonicalTaste{Categories: cats}
}

// Normalize fills in any category missing from partial so the canonical
// shape invariant holds, and drops unknown categories. Term lists are
// cleaned of empty and duplicate entries, preserving order.
func Normalize(partial map[Category][]string, source Source) CanonicalTaste {
	ct := NewCanonicalTaste(source)
	for c, terms := range partial {
		if !c.Valid() {
			continue
		}
		ct.Categories[c] = CategoryTaste{Terms: CleanTerms(terms), Source: source}
	}
	return ct
}

// FirstTerm returns the first non-empty term for a category, or "".
func (ct CanonicalTaste) FirstTerm(c Category) string {
	for _, term := range ct.Categories[c].Terms {
		if strings.TrimSpace(term) != "" {
			return term
		}
	}
	return ""
}

// AllTerms returns every term across all categories, in category order.
// Used for region detection, which inspects the whole taste.
func (ct CanonicalTaste) AllTerms() []string {
	var all []string
	for _, c := range Categories() {
		all = append(all, ct.Categories[c].Terms...)
	}
	return all
}

// CleanTerms removes empty, whitespace-only, and duplicate terms while
// preserving first-occurrence order. Comparison is case-insensitive.
func CleanTerms(terms []string) []string {
	cleaned := make([]string, 0, len(terms))
	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		key := strings.ToLower(term)
		if seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, term)
	}
	return cleaned
}

// OverallSource reports the highest-fidelity extractor that contributed any
// category's terms, for response-level provenance.
func (ct CanonicalTaste) OverallSource() Source {
	source := SourceDefault
	for _, c := range Categories() {
		switch ct.Categories[c].Source {
		case SourceSemantic:
			return SourceSemantic
		case SourceLexical:
			source = SourceLexical
		}
	}
	return source
}

// SignalSet holds the knowledge-graph identifiers resolved for one category.
// Every field is independently optional; partial resolution is expected.
type SignalSet struct {
	EntityID      string `json:"entity_id,omitempty"`
	TagID         string `json:"tag_id,omitempty"`
	AudienceID    string `json:"audience_id,omitempty"`
	LocationQuery string `json:"location_query,omitempty"`
}

// Empty reports whether no signal resolved at all. This is legal: the
// aggregator skips the live query and synthesizes regional results.
func (s SignalSet) Empty() bool {
	return s.EntityID == "" && s.TagID == "" && s.AudienceID == "" && s.LocationQuery == ""
}

// Provenance indicates whether recommendations came from a live graph query
// or a synthesized fallback.
type Provenance string

// Provenance values. Mixed applies only at the category-result level when a
// list contains both live and synthetic items.
const (
	ProvenanceLive      Provenance = "live"
	ProvenanceSynthetic Provenance = "synthetic"
	ProvenanceMixed     Provenance = "mixed"
)

// RecommendationItem is one recommendation within a category.
type RecommendationItem struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    Category   `json:"category"`
	MatchScore  int        `json:"match_score"`
	Provenance  Provenance `json:"provenance"`
}

// CategoryResult is the aggregated recommendation list for one category.
type CategoryResult struct {
	Items      []RecommendationItem `json:"items"`
	Provenance Provenance           `json:"provenance"`
}

// AggregationResult maps each category to its aggregated recommendations.
// Built once per request and discarded after assembly.
type AggregationResult map[Category]CategoryResult

// FinalResponse is the assembled payload returned to callers. Every
// configured category key is present, even with an empty item list.
type FinalResponse struct {
	Recommendations map[Category]CategoryResult `json:"recommendations"`
	// Synthetic summarizes provenance per category: true when the category
	// contains any synthesized items.
	Synthetic map[Category]bool `json:"synthetic"`
	Source    Source            `json:"source"`
}
