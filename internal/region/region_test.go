package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/taste-curator/internal/taste"
)

func TestDetect_Keywords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Region
	}{
		{"bengali by cuisine", "I love hilsa fish curry", Bengali},
		{"bengali by place", "grew up near the Sundarbans", Bengali},
		{"japanese by music", "J-Pop and city pop playlists", Japanese},
		{"japanese by author", "anything by Murakami", Japanese},
		{"french by food", "fresh croissants every morning", French},
		{"brazilian by music", "samba and bossa nova", Brazilian},
		{"chinese by food", "dim sum on weekends", Chinese},
		{"no hint", "I like reading and long walks", Global},
		{"empty", "", Global},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.input))
		})
	}
}

func TestDetect_KeywordsWinOverScript(t *testing.T) {
	// Keyword rules have priority even when the text carries another
	// script's characters.
	assert.Equal(t, Japanese, Detect("sushi 北京"))
}

func TestDetectScript(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Region
	}{
		{"bengali script", "আমি গান ভালোবাসি", Bengali},
		{"hiragana", "おんがくがすき", Japanese},
		{"katakana", "ジャズ", Japanese},
		{"han", "我喜欢音乐", Chinese},
		{"kana wins over han", "音楽が好きです", Japanese},
		{"portuguese tilde", "adoro canção e pão", Brazilian},
		{"french accents", "j'aime la musique et le café", French},
		{"plain ascii", "plain english text", Global},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectScript(tt.input))
		})
	}
}

func TestDetectTerms(t *testing.T) {
	assert.Equal(t, Japanese, DetectTerms([]string{"jazz", "sushi"}))
	assert.Equal(t, Global, DetectTerms(nil))
}

func TestDefaultTable_EntriesForKnownRegions(t *testing.T) {
	table := DefaultTable()

	for _, r := range []Region{Bengali, Japanese, French, Brazilian, Chinese, Global} {
		for _, c := range taste.Categories() {
			entries := table.Entries(r, c)
			require.NotEmpty(t, entries, "region %s category %s", r, c)
			for _, e := range entries {
				assert.NotEmpty(t, e.Name)
				assert.NotEmpty(t, e.Description)
				assert.GreaterOrEqual(t, e.Match, 75)
				assert.LessOrEqual(t, e.Match, 99)
			}
		}
	}
}

func TestTableEntries_UnknownRegionFallsBackToGlobal(t *testing.T) {
	table := DefaultTable()

	entries := table.Entries(Region("martian"), taste.CategoryMusic)
	assert.Equal(t, table.Entries(Global, taste.CategoryMusic), entries)
}

func TestTableTerms(t *testing.T) {
	table := DefaultTable()

	terms := table.Terms(Bengali, taste.CategoryMusic)
	require.NotEmpty(t, terms)
	assert.Equal(t, "Rabindra Sangeet", terms[0])
}
