package advisor

import (
	"context"
	"strings"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/genai"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/logger"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/metrics"
)

// DefaultHistoryWindow is the number of recent turns the enhancer folds
// into the rewritten query.
const DefaultHistoryWindow = 5

// QueryEnhancer rewrites a raw user query into a retrieval-friendly one
// using recent conversation context. It degrades, never fails: any problem
// reading history or calling the model returns the original query.
type QueryEnhancer struct {
	store     Store
	completer Completer
	window    int
	log       *logger.Logger
}

// NewQueryEnhancer creates an enhancer. window <= 0 selects the default.
func NewQueryEnhancer(store Store, completer Completer, window int, log *logger.Logger) *QueryEnhancer {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	return &QueryEnhancer{
		store:     store,
		completer: completer,
		window:    window,
		log:       log.WithModule("enhancer"),
	}
}

// Enhance returns a rewritten query, or the original when history is too
// short (fewer than 2 turns) or the rewrite fails.
func (e *QueryEnhancer) Enhance(ctx context.Context, userID, query string) string {
	history, err := e.store.GetHistory(ctx, userID)
	if err != nil {
		e.log.WithError(err).Warn("history read failed, using raw query")
		metrics.EnhanceFallbacks.Inc()
		return query
	}

	turns := history.Turns
	if len(turns) < 2 {
		return query
	}
	if len(turns) > e.window {
		turns = turns[len(turns)-e.window:]
	}

	prompt := genai.EnhancementPrompt(roleLines(turns), query)
	enhanced, err := e.completer.Generate(ctx, prompt, "", genai.EnhancementConfig)
	if err != nil {
		e.log.WithError(err).Warn("query enhancement failed, using raw query")
		metrics.EnhanceFallbacks.Inc()
		return query
	}

	enhanced = strings.TrimSpace(enhanced)
	if enhanced == "" {
		metrics.EnhanceFallbacks.Inc()
		return query
	}
	e.log.WithFields(map[string]any{
		"raw":      query,
		"enhanced": enhanced,
	}).Debug("query enhanced")
	return enhanced
}
