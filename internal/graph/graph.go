// Package graph provides a client for the cultural knowledge graph API.
// This package centralizes the HTTP access used by signal resolution and
// recommendation aggregation.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jonathan/taste-curator/internal/taste"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// DefaultBaseURL is the public search API host.
const DefaultBaseURL = "https://api.qloo.com"

// DefaultInsightsURL is the host serving the multi-signal insights API.
const DefaultInsightsURL = "https://hackathon.api.qloo.com"

// Error represents an error from a knowledge graph request.
type Error struct {
	Endpoint string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("graph error for %s: %s: %v", e.Endpoint, e.Message, e.Cause)
	}
	return fmt.Sprintf("graph error for %s: %s", e.Endpoint, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Entity is a single node returned by search or insights queries.
type Entity struct {
	ID          string   `json:"id"`
	EntityID    string   `json:"entity_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Popularity  float64  `json:"popularity"`
	Types       []string `json:"types"`
}

// Identifier returns the entity's canonical id, preferring the insights
// form over the search form.
func (e Entity) Identifier() string {
	if e.EntityID != "" {
		return e.EntityID
	}
	return e.ID
}

// Tag is a taxonomy node usable as an affinity signal.
type Tag struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Types []string `json:"types"`
}

// Audience is a demographic cluster usable as an affinity signal.
type Audience struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// InsightsQuery carries the optional signals for a recommendation query.
// Zero-valued signals are omitted from the request.
type InsightsQuery struct {
	Category      taste.Category
	EntityID      string
	TagID         string
	AudienceID    string
	LocationQuery string
	Take          int
}

// Options configures the graph client.
type Options struct {
	BaseURL     string
	InsightsURL string
	APIKey      string
	Timeout     time.Duration
}

// DefaultOptions returns sensible defaults for graph access.
func DefaultOptions() *Options {
	return &Options{
		BaseURL:     DefaultBaseURL,
		InsightsURL: DefaultInsightsURL,
		Timeout:     DefaultTimeout,
	}
}

// Client performs authenticated knowledge graph lookups.
type Client struct {
	baseURL     string
	insightsURL string
	apiKey      string
	httpClient  *http.Client
}

// New creates a graph client. Nil options use defaults.
func New(opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	insightsURL := opts.InsightsURL
	if insightsURL == "" {
		insightsURL = baseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:     baseURL,
		insightsURL: insightsURL,
		apiKey:      opts.APIKey,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// SearchEntity finds the best entity match for a free-text query within a
// category and returns its id.
func (c *Client) SearchEntity(ctx context.Context, category taste.Category, query string) (string, error) {
	params := url.Values{}
	params.Set("query", query)
	if t := category.GraphType(); t != "" {
		params.Set("type", t)
	}

	var payload struct {
		Entities []Entity `json:"entities"`
	}
	if err := c.doGet(ctx, c.baseURL, "/entities", params, &payload); err != nil {
		return "", err
	}
	if len(payload.Entities) == 0 {
		return "", &Error{Endpoint: "/entities", Message: fmt.Sprintf("no entity found for %q", query)}
	}
	return payload.Entities[0].Identifier(), nil
}

// SearchTag finds the best tag match for a free-text query within a
// category and returns its id.
func (c *Client) SearchTag(ctx context.Context, category taste.Category, query string) (string, error) {
	params := url.Values{}
	params.Set("query", query)
	if t := category.GraphType(); t != "" {
		params.Set("type", t)
	}

	var payload struct {
		Tags []Tag `json:"tags"`
	}
	if err := c.doGet(ctx, c.baseURL, "/tags", params, &payload); err != nil {
		return "", err
	}
	if len(payload.Tags) == 0 {
		return "", &Error{Endpoint: "/tags", Message: fmt.Sprintf("no tag found for %q", query)}
	}
	return payload.Tags[0].ID, nil
}

// SearchAudience finds the best audience match for a free-text query and
// returns its id. Audiences are not category-scoped.
func (c *Client) SearchAudience(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("query", query)

	var payload struct {
		Audiences []Audience `json:"audiences"`
	}
	if err := c.doGet(ctx, c.baseURL, "/audiences", params, &payload); err != nil {
		return "", err
	}
	if len(payload.Audiences) == 0 {
		return "", &Error{Endpoint: "/audiences", Message: fmt.Sprintf("no audience found for %q", query)}
	}
	return payload.Audiences[0].ID, nil
}

// Insights runs the multi-signal recommendation query and returns the
// matched entities ordered by affinity.
func (c *Client) Insights(ctx context.Context, q InsightsQuery) ([]Entity, error) {
	params := url.Values{}
	params.Set("filter.type", "urn:entity:"+q.Category.GraphType())
	if q.EntityID != "" {
		params.Set("signal.interests.entities", q.EntityID)
	}
	if q.TagID != "" {
		params.Set("signal.tags", q.TagID)
	}
	if q.AudienceID != "" {
		params.Set("signal.demographics.audiences", q.AudienceID)
	}
	if q.LocationQuery != "" {
		params.Set("signal.location.query", q.LocationQuery)
	}
	if q.Take > 0 {
		params.Set("take", strconv.Itoa(q.Take))
	}

	var payload struct {
		Results []Entity `json:"results"`
	}
	if err := c.doGet(ctx, c.insightsURL, "/v2/insights", params, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// EntityDetails fetches the full record for a single entity id.
func (c *Client) EntityDetails(ctx context.Context, id string) (*Entity, error) {
	var payload Entity
	endpoint := "/entities/" + url.PathEscape(id)
	if err := c.doGet(ctx, c.baseURL, endpoint, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// doGet executes an authenticated GET and decodes the JSON response into out.
func (c *Client) doGet(ctx context.Context, host, endpoint string, params url.Values, out any) error {
	reqURL := host + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return &Error{Endpoint: endpoint, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Endpoint: endpoint, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Endpoint: endpoint, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return &Error{Endpoint: endpoint, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Endpoint: endpoint, Message: "failed to decode response", Cause: err}
	}
	return nil
}
