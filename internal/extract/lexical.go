// Package extract turns raw free-text taste descriptions into the canonical
// category-keyed structure, via a semantic (LLM) extractor with a lexical
// keyword extractor as the guaranteed-terminating fallback.
package extract

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/jonathan/taste-curator/internal/region"
	"github.com/jonathan/taste-curator/internal/taste"
)

// termRule maps a keyword pattern to the canonical term it yields. Rules
// are evaluated in table order so more specific patterns must precede
// broader ones ("Thai street food" before "Thai cuisine").
type termRule struct {
	Term    string
	Pattern *regexp.Regexp
}

var musicRules = []termRule{
	{"lo-fi", regexp.MustCompile(`(?i)lo-?fi`)},
	{"jazz", regexp.MustCompile(`(?i)jazz`)},
	{"classical", regexp.MustCompile(`(?i)classical`)},
	{"hip-hop", regexp.MustCompile(`(?i)hip-?hop|rap\b`)},
	{"electronic", regexp.MustCompile(`(?i)electronic|edm|techno`)},
	{"rock", regexp.MustCompile(`(?i)rock`)},
	{"pop", regexp.MustCompile(`(?i)\bpop\b`)},
	{"folk", regexp.MustCompile(`(?i)folk`)},
	{"blues", regexp.MustCompile(`(?i)blues`)},
	{"country", regexp.MustCompile(`(?i)country music`)},
	{"reggae", regexp.MustCompile(`(?i)reggae`)},
	{"indie", regexp.MustCompile(`(?i)indie`)},
}

var bookRules = []termRule{
	{"Agatha Christie", regexp.MustCompile(`(?i)agatha\s+christie`)},
	{"Hercule Poirot", regexp.MustCompile(`(?i)poirot`)},
	{"Haruki Murakami", regexp.MustCompile(`(?i)murakami`)},
	{"Stephen King", regexp.MustCompile(`(?i)stephen\s+king`)},
	{"George Orwell", regexp.MustCompile(`(?i)orwell`)},
	{"Jane Austen", regexp.MustCompile(`(?i)austen`)},
	{"mystery", regexp.MustCompile(`(?i)mystery|detective|crime|thriller|murder|sleuth`)},
	{"literary fiction", regexp.MustCompile(`(?i)literary\s+fiction|complex\s+narratives`)},
	{"contemporary fiction", regexp.MustCompile(`(?i)contemporary\s+fiction|modern\s+fiction`)},
}

var foodRules = []termRule{
	{"Thai street food", regexp.MustCompile(`(?i)thai\s+street\s+food`)},
	{"Thai cuisine", regexp.MustCompile(`(?i)thai(?:\s+(?:food|cuisine))?\b`)},
	{"Neapolitan pizza", regexp.MustCompile(`(?i)neapolitan\s+pizza`)},
	{"Italian cuisine", regexp.MustCompile(`(?i)italian|pasta|carbonara`)},
	{"pizza", regexp.MustCompile(`(?i)pizza`)},
	{"Ethiopian cuisine", regexp.MustCompile(`(?i)ethiopian|injera`)},
	{"Japanese omakase", regexp.MustCompile(`(?i)omakase`)},
	{"Japanese cuisine", regexp.MustCompile(`(?i)japanese\s+(?:food|cuisine)|sushi|ramen`)},
	{"Indian cuisine", regexp.MustCompile(`(?i)indian\s+(?:food|cuisine)|curry|biryani`)},
	{"Chinese cuisine", regexp.MustCompile(`(?i)chinese\s+(?:food|cuisine)|dim\s+sum`)},
	{"Mexican cuisine", regexp.MustCompile(`(?i)mexican|taco|burrito`)},
	{"French cuisine", regexp.MustCompile(`(?i)french\s+(?:food|cuisine)|croissant|baguette`)},
}

// travelRules infer destinations from cultural context, not just explicit
// travel talk: loving Japanese food is a Japan travel hint.
var travelRules = []termRule{
	{"Japan", regexp.MustCompile(`(?i)japan|tokyo|kyoto|osaka`)},
	{"Italy", regexp.MustCompile(`(?i)italian|italy|rome|venice|florence|neapolitan`)},
	{"Thailand", regexp.MustCompile(`(?i)thai|thailand|bangkok`)},
	{"Ethiopia", regexp.MustCompile(`(?i)ethiopian|ethiopia`)},
	{"India", regexp.MustCompile(`(?i)india\b|mumbai|delhi`)},
	{"France", regexp.MustCompile(`(?i)france|paris`)},
	{"China", regexp.MustCompile(`(?i)china\b|beijing`)},
	{"Mexico", regexp.MustCompile(`(?i)mexico`)},
	{"street food tours", regexp.MustCompile(`(?i)street\s+food`)},
	{"culinary tours", regexp.MustCompile(`(?i)food|cuisine|dining|restaurant`)},
	{"literary tours", regexp.MustCompile(`(?i)book|author|literature`)},
	{"cultural exploration", regexp.MustCompile(`(?i)culture|cultural|heritage|history`)},
}

var categoryRules = map[taste.Category][]termRule{
	taste.CategoryMusic:  musicRules,
	taste.CategoryBooks:  bookRules,
	taste.CategoryFood:   foodRules,
	taste.CategoryTravel: travelRules,
}

// Lexical extracts taste terms by keyword matching alone. It never calls
// out, always terminates, and always returns a non-empty structure: any
// category with no match is seeded from the locale default table.
type Lexical struct {
	table *region.Table
}

// NewLexical creates a lexical extractor backed by the given fallback
// table.
func NewLexical(table *region.Table) *Lexical {
	return &Lexical{table: table}
}

// Extract runs the rule tables over the input and returns a complete
// CanonicalTaste. Matched categories are tagged lexical; seeded categories
// are tagged default.
func (l *Lexical) Extract(input string) taste.CanonicalTaste {
	input = NormalizeInput(input)
	detected := region.Detect(input)

	ct := taste.NewCanonicalTaste(taste.SourceDefault)
	if detected != region.Global {
		ct.Region = string(detected)
	}

	for _, c := range taste.Categories() {
		var terms []string
		for _, rule := range categoryRules[c] {
			if rule.Pattern.MatchString(input) {
				terms = append(terms, rule.Term)
			}
		}
		if len(terms) > 0 {
			ct.Categories[c] = taste.CategoryTaste{
				Terms:  taste.CleanTerms(terms),
				Source: taste.SourceLexical,
			}
			continue
		}
		// No keyword matched: seed locale defaults so the pipeline never
		// proceeds with zero signal for a category.
		ct.Categories[c] = taste.CategoryTaste{
			Terms:  l.table.Terms(detected, c),
			Source: taste.SourceDefault,
		}
	}

	return ct
}

// NormalizeInput applies Unicode NFKC normalization, trims whitespace, and
// strips control characters other than newline and tab.
func NormalizeInput(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.TrimSpace(normed)
	normed = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
	return normed
}
