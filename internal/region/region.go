// Package region provides cultural region detection and the static
// per-region recommendation tables used by the synthetic fallback tier.
//
// Detection is a prioritized rule table evaluated in fixed order: keyword
// rules first, then script/diacritic rules. Precedence is explicit in the
// table order, not implicit in code order.
package region

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Region identifies a cultural region used for fallback defaults.
type Region string

// Known regions. Global is the default when no hint is found.
const (
	Bengali   Region = "bengali"
	Japanese  Region = "japanese"
	French    Region = "french"
	Brazilian Region = "brazilian"
	Chinese   Region = "chinese"
	Global    Region = "global"
)

// Rule maps a keyword pattern to a region. Rules are evaluated in order;
// the first match wins.
type Rule struct {
	Region  Region
	Pattern *regexp.Regexp
}

// keywordRules is the prioritized keyword rule table. Process-wide
// read-only data; safe for concurrent use.
var keywordRules = []Rule{
	{Bengali, regexp.MustCompile(`(?i)rabindra|hilsa|humayun|sundarbans|bengali|bangladesh|dhaka`)},
	{Japanese, regexp.MustCompile(`(?i)j-pop|sushi|ramen|murakami|kyoto|tokyo|omakase|japan`)},
	{French, regexp.MustCompile(`(?i)chanson|croissant|victor hugo|paris|france|french`)},
	{Brazilian, regexp.MustCompile(`(?i)samba|feijoada|coelho|rio de janeiro|bossa|brazil`)},
	{Chinese, regexp.MustCompile(`(?i)mandopop|peking|mo yan|beijing|dim sum|china|chinese`)},
}

// Rules returns the keyword rule table. Exposed for tests that assert
// precedence.
func Rules() []Rule {
	return keywordRules
}

// Detect returns the region for a piece of text, checking keyword rules
// first and falling back to script detection. Returns Global when nothing
// matches.
func Detect(text string) Region {
	for _, rule := range keywordRules {
		if rule.Pattern.MatchString(text) {
			return rule.Region
		}
	}
	return DetectScript(text)
}

// DetectTerms runs Detect over joined taste terms.
func DetectTerms(terms []string) Region {
	return Detect(strings.Join(terms, " "))
}

// DetectScript inspects the input's script and diacritics to guess a
// cultural region when no keyword matched. The input is NFD-decomposed so
// accented Latin letters can be classified by their combining marks.
func DetectScript(text string) Region {
	var (
		hasBengali bool
		hasKana    bool
		hasHan     bool
		hasTilde   bool // combining tilde over a/o, typical of Portuguese
		hasAccent  bool // acute/grave/circumflex/cedilla, typical of French
	)

	decomposed := norm.NFD.String(text)
	prev := rune(0)
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Bengali, r):
			hasBengali = true
		case unicode.Is(unicode.Hiragana, r), unicode.Is(unicode.Katakana, r):
			hasKana = true
		case unicode.Is(unicode.Han, r):
			hasHan = true
		case r == '̃' && (prev == 'a' || prev == 'o' || prev == 'A' || prev == 'O'):
			hasTilde = true
		case r == '́' || r == '̀' || r == '̂' || r == '̧':
			hasAccent = true
		}
		prev = r
	}

	switch {
	case hasBengali:
		return Bengali
	case hasKana:
		return Japanese
	case hasHan:
		return Chinese
	case hasTilde:
		return Brazilian
	case hasAccent:
		return French
	}
	return Global
}
