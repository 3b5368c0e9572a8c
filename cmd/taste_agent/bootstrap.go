package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/jonathan/taste-curator/internal/aggregate"
	"github.com/jonathan/taste-curator/internal/config"
	"github.com/jonathan/taste-curator/internal/extract"
	"github.com/jonathan/taste-curator/internal/graph"
	"github.com/jonathan/taste-curator/internal/llm"
	"github.com/jonathan/taste-curator/internal/pipeline"
	"github.com/jonathan/taste-curator/internal/region"
	"github.com/jonathan/taste-curator/internal/resolve"
)

// loadConfig merges an optional config file underneath environment values.
func loadConfig(configPath string) (*config.Config, error) {
	cfg := config.FromEnv()

	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if err := fileCfg.Validate(); err != nil {
			return nil, err
		}
		merged := cfg.MergeWithDefaults(*fileCfg)
		cfg = &merged
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildPipeline wires the extraction, resolution, and aggregation stages
// from configuration. A missing credential pool or graph key is allowed:
// the pipeline degrades to lexical extraction and synthetic data.
func buildPipeline(cfg *config.Config) *pipeline.Pipeline {
	if len(cfg.GeminiAPIKeys) == 0 {
		log.Warn("no Gemini credentials configured, extraction will be lexical only")
	}
	if cfg.GraphAPIKey == "" {
		log.Warn("no graph API key configured, recommendations will be synthetic")
	}

	table := region.DefaultTable()

	orchestrator := extract.NewOrchestrator(
		cfg.GeminiAPIKeys,
		extract.NewSemantic(llm.NewGemini),
		extract.NewLexical(table),
	).WithAttemptTimeout(cfg.AttemptTimeout())

	graphClient := newGraphClient(cfg)

	return pipeline.New(
		orchestrator,
		resolve.New(graphClient),
		aggregate.New(graphClient, table),
	)
}

// graphAPI is the lookup surface the pipeline needs from the graph layer.
type graphAPI interface {
	resolve.Searcher
	aggregate.Insighter
}

// newGraphClient builds the knowledge graph client. Lookup memoization is
// opt-in: by default every request resolves signals and queries the graph
// fresh.
func newGraphClient(cfg *config.Config) graphAPI {
	client := graph.New(&graph.Options{
		BaseURL:     cfg.GraphBaseURL,
		InsightsURL: cfg.GraphInsightsURL,
		APIKey:      cfg.GraphAPIKey,
		Timeout:     cfg.GraphTimeout(),
	})
	if cfg.GraphCache {
		return graph.NewCache(client, nil)
	}
	return client
}

// configureLogging sets the global log level for the process.
func configureLogging(verbose bool) {
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}
