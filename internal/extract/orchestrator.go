package extract

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jonathan/taste-curator/internal/taste"
)

// DefaultAttemptTimeout bounds each semantic extraction attempt. A timed
// out credential is treated like any other failure and the next one is
// tried.
const DefaultAttemptTimeout = 25 * time.Second

// Orchestrator rotates the semantic extractor across an ordered credential
// pool and falls back to the lexical extractor when the pool is exhausted
// or empty. Parse never fails outward.
type Orchestrator struct {
	credentials    []string
	semantic       *Semantic
	lexical        *Lexical
	attemptTimeout time.Duration
}

// NewOrchestrator creates a parse orchestrator. The credential slice is an
// explicit ordered pool; an empty pool is valid and simply means lexical
// extraction only.
func NewOrchestrator(credentials []string, semantic *Semantic, lexical *Lexical) *Orchestrator {
	return &Orchestrator{
		credentials:    credentials,
		semantic:       semantic,
		lexical:        lexical,
		attemptTimeout: DefaultAttemptTimeout,
	}
}

// WithAttemptTimeout overrides the per-credential timeout. Used by tests.
func (o *Orchestrator) WithAttemptTimeout(d time.Duration) *Orchestrator {
	o.attemptTimeout = d
	return o
}

// Parse extracts a complete CanonicalTaste from raw input. Credentials are
// tried strictly in order — the pool may be rate-limited as a unit, so
// attempts are never made concurrently. Exhaustion is a normal outcome,
// not an error.
func (o *Orchestrator) Parse(ctx context.Context, rawInput string) taste.CanonicalTaste {
	rawInput = NormalizeInput(rawInput)

	if rawInput != "" {
		for i, credential := range o.credentials {
			if ctx.Err() != nil {
				break
			}

			attemptCtx, cancel := context.WithTimeout(ctx, o.attemptTimeout)
			ct, err := o.semantic.Extract(attemptCtx, rawInput, credential)
			cancel()

			if err == nil {
				log.WithFields(log.Fields{
					"credential": i + 1,
					"source":     taste.SourceSemantic,
				}).Debug("semantic extraction succeeded")
				return ct
			}

			log.WithFields(log.Fields{
				"credential": i + 1,
				"of":         len(o.credentials),
			}).WithError(err).Warn("semantic extraction attempt failed")
		}
	}

	log.WithField("source", taste.SourceLexical).Debug("falling back to lexical extraction")
	return o.lexical.Extract(rawInput)
}
