package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/taste-curator/internal/llm"
	"github.com/jonathan/taste-curator/internal/taste"
)

// fakeClient returns a canned response or error for every call.
type fakeClient struct {
	response string
	err      error
	calls    int
}

func (f *fakeClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeClient) Close() error { return nil }

func fakeFactory(client llm.Client, err error) llm.Factory {
	return func(_ context.Context, _ string) (llm.Client, error) {
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

const validExtraction = `{
	"music": ["jazz"],
	"food": ["Thai street food"],
	"books": ["Agatha Christie"],
	"travel": ["Bangkok"],
	"region": ""
}`

func TestSemanticExtract_Success(t *testing.T) {
	s := NewSemantic(fakeFactory(&fakeClient{response: validExtraction}, nil))

	ct, err := s.Extract(context.Background(), "some taste text", "key-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"jazz"}, ct.Categories[taste.CategoryMusic].Terms)
	assert.Equal(t, []string{"Thai street food"}, ct.Categories[taste.CategoryFood].Terms)
	assert.Equal(t, []string{"Agatha Christie"}, ct.Categories[taste.CategoryBooks].Terms)
	assert.Equal(t, []string{"Bangkok"}, ct.Categories[taste.CategoryTravel].Terms)
	assert.Equal(t, taste.SourceSemantic, ct.OverallSource())
	assert.Empty(t, ct.Region)
}

func TestSemanticExtract_FencedResponse(t *testing.T) {
	s := NewSemantic(fakeFactory(&fakeClient{
		response: "```json\n" + validExtraction + "\n```",
	}, nil))

	ct, err := s.Extract(context.Background(), "text", "key-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"jazz"}, ct.Categories[taste.CategoryMusic].Terms)
}

func TestSemanticExtract_ProseWrappedResponse(t *testing.T) {
	s := NewSemantic(fakeFactory(&fakeClient{
		response: "Here is the extraction you asked for: " + validExtraction + " hope that helps!",
	}, nil))

	ct, err := s.Extract(context.Background(), "text", "key-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bangkok"}, ct.Categories[taste.CategoryTravel].Terms)
}

func TestSemanticExtract_RegionLowercased(t *testing.T) {
	s := NewSemantic(fakeFactory(&fakeClient{
		response: `{"music":[],"food":["sushi"],"books":[],"travel":[],"region":" Japanese "}`,
	}, nil))

	ct, err := s.Extract(context.Background(), "text", "key-1")
	require.NoError(t, err)
	assert.Equal(t, "japanese", ct.Region)
}

func TestSemanticExtract_FactoryFailure(t *testing.T) {
	s := NewSemantic(fakeFactory(nil, errors.New("bad credential")))

	_, err := s.Extract(context.Background(), "text", "key-1")
	require.Error(t, err)

	var apiErr *APICallError
	assert.ErrorAs(t, err, &apiErr)
}

func TestSemanticExtract_GenerationFailure(t *testing.T) {
	s := NewSemantic(fakeFactory(&fakeClient{err: errors.New("quota exceeded")}, nil))

	_, err := s.Extract(context.Background(), "text", "key-1")
	require.Error(t, err)

	var apiErr *APICallError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Error(), "quota exceeded")
}

func TestSemanticExtract_MalformedJSON(t *testing.T) {
	s := NewSemantic(fakeFactory(&fakeClient{response: "not json at all"}, nil))

	_, err := s.Extract(context.Background(), "text", "key-1")
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestSemanticExtract_SchemaViolation(t *testing.T) {
	// music must be an array of strings.
	s := NewSemantic(fakeFactory(&fakeClient{
		response: `{"music":"jazz","food":[],"books":[],"travel":[],"region":""}`,
	}, nil))

	_, err := s.Extract(context.Background(), "text", "key-1")
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestSemanticExtract_EmptyExtractionIsError(t *testing.T) {
	s := NewSemantic(fakeFactory(&fakeClient{
		response: `{"music":[],"food":[],"books":[],"travel":[],"region":""}`,
	}, nil))

	_, err := s.Extract(context.Background(), "text", "key-1")
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestDecodeExtraction_UnknownKeyRejected(t *testing.T) {
	_, err := decodeExtraction(`{"music":["jazz"],"food":[],"books":[],"travel":[],"region":"","extra":true}`)
	require.Error(t, err)
}
