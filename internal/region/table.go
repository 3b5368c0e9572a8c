package region

import "github.com/jonathan/taste-curator/internal/taste"

// DefaultEntry is one synthetic recommendation candidate.
type DefaultEntry struct {
	Name        string
	Description string
	Match       int
}

// Table holds the immutable per-region, per-category fallback entries.
// Loaded once at startup and injected into the aggregator; shared across
// concurrent requests without locking.
type Table struct {
	entries map[Region]map[taste.Category][]DefaultEntry
}

// DefaultTable builds the built-in fallback table.
func DefaultTable() *Table {
	return &Table{entries: map[Region]map[taste.Category][]DefaultEntry{
		Bengali: {
			taste.CategoryMusic: {
				{"Rabindra Sangeet", "Classic Bengali songs by Rabindranath Tagore", 99},
				{"Baul folk music", "Mystic minstrel tradition of Bengal", 91},
			},
			taste.CategoryFood: {
				{"Hilsa Fish", "A beloved delicacy in Bengali cuisine", 99},
				{"Kolkata street food", "Puchka, kathi rolls and jhalmuri", 90},
			},
			taste.CategoryBooks: {
				{"Humayun Ahmed novels", "Works by the celebrated Bangladeshi author", 99},
				{"Rabindranath Tagore poetry", "Nobel-winning Bengali verse", 93},
			},
			taste.CategoryTravel: {
				{"Sundarbans", "The world's largest mangrove forest, home of the Royal Bengal Tiger", 99},
				{"Cox's Bazar", "The world's longest natural sea beach", 89},
			},
		},
		Japanese: {
			taste.CategoryMusic: {
				{"J-Pop", "Popular music from Japan", 95},
				{"City pop", "Retro Japanese pop rediscovered worldwide", 88},
			},
			taste.CategoryFood: {
				{"Sushi", "Iconic Japanese dish of vinegared rice and seafood", 95},
				{"Ramen", "Rich noodle soup with regional styles across Japan", 92},
			},
			taste.CategoryBooks: {
				{"Haruki Murakami novels", "Surreal and magical realist works from Japan", 95},
				{"Yukio Mishima novels", "Classics of modern Japanese literature", 87},
			},
			taste.CategoryTravel: {
				{"Kyoto", "Historic city known for its temples and cherry blossoms", 95},
				{"Tokyo", "Japan's vast, neon-lit capital", 92},
			},
		},
		French: {
			taste.CategoryMusic: {
				{"Chanson française", "French lyrical song tradition", 92},
				{"French touch", "Electronic music from Paris", 86},
			},
			taste.CategoryFood: {
				{"Croissant", "Buttery French pastry", 92},
				{"Coq au vin", "Classic braise of French country cooking", 88},
			},
			taste.CategoryBooks: {
				{"Victor Hugo novels", "French classics like Les Misérables", 93},
				{"Marcel Proust novels", "In Search of Lost Time and beyond", 89},
			},
			taste.CategoryTravel: {
				{"Paris", "The romantic capital of France", 93},
				{"Provence", "Lavender fields and hilltop villages", 87},
			},
		},
		Brazilian: {
			taste.CategoryMusic: {
				{"Samba", "Lively Brazilian music and dance style", 88},
				{"Bossa nova", "Cool jazz-inflected sound of Rio", 90},
			},
			taste.CategoryFood: {
				{"Feijoada", "Hearty Brazilian stew of beans and pork", 92},
				{"Pão de queijo", "Chewy Brazilian cheese bread", 85},
			},
			taste.CategoryBooks: {
				{"Paulo Coelho novels", "Brazilian author of The Alchemist", 89},
				{"Clarice Lispector novels", "Modernist Brazilian fiction", 88},
			},
			taste.CategoryTravel: {
				{"Rio de Janeiro", "Vibrant city famous for Carnival and beaches", 92},
				{"Salvador", "Afro-Brazilian culture on the Bahian coast", 86},
			},
		},
		Chinese: {
			taste.CategoryMusic: {
				{"Mandopop", "Mandarin-language pop music", 93},
				{"Guqin music", "Ancient Chinese zither tradition", 84},
			},
			taste.CategoryFood: {
				{"Peking Duck", "Famous roasted duck dish from Beijing", 93},
				{"Dim sum", "Cantonese small plates and tea", 91},
			},
			taste.CategoryBooks: {
				{"Mo Yan novels", "Works by the Chinese Nobel laureate", 94},
				{"Liu Cixin novels", "Chinese science fiction including The Three-Body Problem", 90},
			},
			taste.CategoryTravel: {
				{"Beijing", "China's capital, home to the Great Wall and Forbidden City", 94},
				{"Guilin", "Karst peaks along the Li River", 87},
			},
		},
		Global: {
			taste.CategoryMusic: {
				{"Jazz", "American-born genre with global influence", 97},
				{"Classical", "Timeless orchestral music", 91},
				{"Afrobeat", "West African styles fused with jazz and funk", 90},
			},
			taste.CategoryFood: {
				{"Authentic Italian Pizza", "Traditional Neapolitan-style pizza", 94},
				{"Tacos", "Mexican street food favorite", 91},
				{"Paella", "Spanish rice dish with seafood and saffron", 90},
			},
			taste.CategoryBooks: {
				{"Contemporary Fiction", "Modern literary works", 90},
				{"Gabriel García Márquez novels", "Magical realism from Colombia", 92},
				{"Jane Austen novels", "Timeless English classics", 88},
			},
			taste.CategoryTravel: {
				{"Cultural City Tours", "Explore local culture and history", 93},
				{"Hidden Local Gems", "Off-the-beaten-path destinations", 90},
				{"Barcelona", "Art, architecture, and cuisine on the Mediterranean", 90},
			},
		},
	}}
}

// Entries returns the fallback entries for a region and category, falling
// back to the Global region when the specific region has none.
func (t *Table) Entries(r Region, c taste.Category) []DefaultEntry {
	if byCategory, ok := t.entries[r]; ok {
		if entries := byCategory[c]; len(entries) > 0 {
			return entries
		}
	}
	return t.entries[Global][c]
}

// Terms returns the entry names for a region and category, used by the
// lexical extractor to seed locale-default terms.
func (t *Table) Terms(r Region, c taste.Category) []string {
	entries := t.Entries(r, c)
	terms := make([]string, 0, len(entries))
	for _, e := range entries {
		terms = append(terms, e.Name)
	}
	return terms
}
