package extract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/taste-curator/internal/llm"
	"github.com/jonathan/taste-curator/internal/prompts"
	"github.com/jonathan/taste-curator/internal/schemas"
	"github.com/jonathan/taste-curator/internal/taste"
)

// extractionPayload is the wire shape the semantic extractor asks the model
// to return. It is validated against the embedded canonical taste schema
// before being trusted.
type extractionPayload struct {
	Music  []string `json:"music"`
	Food   []string `json:"food"`
	Books  []string `json:"books"`
	Travel []string `json:"travel"`
	Region string   `json:"region"`
}

func (p *extractionPayload) empty() bool {
	return len(p.Music) == 0 && len(p.Food) == 0 && len(p.Books) == 0 && len(p.Travel) == 0
}

// Semantic extracts taste terms by prompting a generative-language model
// with a strict-schema prompt. One call is made per credential attempt.
type Semantic struct {
	factory llm.Factory
}

// NewSemantic creates a semantic extractor that builds clients with the
// given factory.
func NewSemantic(factory llm.Factory) *Semantic {
	if factory == nil {
		factory = llm.NewGemini
	}
	return &Semantic{factory: factory}
}

// Extract calls the model with one credential and returns a complete
// CanonicalTaste tagged as semantic. API failures, unparseable output, and
// schema violations are all returned as errors so the orchestrator can
// rotate to the next credential.
func (s *Semantic) Extract(ctx context.Context, input, apiKey string) (taste.CanonicalTaste, error) {
	client, err := s.factory(ctx, apiKey)
	if err != nil {
		return taste.CanonicalTaste{}, &APICallError{Message: "failed to create LLM client", Cause: err}
	}
	defer func() { _ = client.Close() }()

	prompt := buildExtractionPrompt(input)

	responseText, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return taste.CanonicalTaste{}, &APICallError{Message: "failed to generate content", Cause: err}
	}

	payload, err := decodeExtraction(responseText)
	if err != nil {
		return taste.CanonicalTaste{}, err
	}
	if payload.empty() {
		return taste.CanonicalTaste{}, &ParseError{Message: "extraction returned no terms"}
	}

	ct := taste.Normalize(map[taste.Category][]string{
		taste.CategoryMusic:  payload.Music,
		taste.CategoryFood:   payload.Food,
		taste.CategoryBooks:  payload.Books,
		taste.CategoryTravel: payload.Travel,
	}, taste.SourceSemantic)
	ct.Region = strings.ToLower(strings.TrimSpace(payload.Region))

	return ct, nil
}

// buildExtractionPrompt constructs the strict-schema prompt for the model.
func buildExtractionPrompt(input string) string {
	template := prompts.MustGet("extraction.json", "extract-canonical-taste")
	return prompts.Format(template, map[string]string{
		"Input": input,
	})
}

// decodeExtraction parses model output defensively: direct decode first,
// then an embedded {...} block, then give up. Whatever decodes must also
// pass schema validation.
func decodeExtraction(text string) (*extractionPayload, error) {
	text = llm.CleanJSONBlock(text)

	if payload, err := decodeValidated(text); err == nil {
		return payload, nil
	}

	// The model sometimes wraps the JSON in prose. Try the outermost brace
	// pair before failing.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		if payload, err := decodeValidated(text[start : end+1]); err == nil {
			return payload, nil
		}
	}

	return nil, &ParseError{Message: "no valid JSON object in model response"}
}

// decodeValidated validates candidate JSON against the canonical schema and
// unmarshals it.
func decodeValidated(candidate string) (*extractionPayload, error) {
	if err := schemas.ValidateCanonicalTaste(candidate); err != nil {
		return nil, &ParseError{Message: "response does not match canonical schema", Cause: err}
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return nil, &ParseError{Message: "failed to unmarshal response", Cause: err}
	}

	return &payload, nil
}
