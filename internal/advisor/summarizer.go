package advisor

import (
	"context"
	"strings"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/genai"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/logger"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/metrics"
)

// DefaultSummaryThreshold is the turn count that triggers history
// compaction.
const DefaultSummaryThreshold = 20

// Summarizer compacts long chat histories into a summary. It runs on the
// background path only; failures are logged and the history is left as is
// for the next attempt.
type Summarizer struct {
	store     Store
	completer Completer
	threshold int
	log       *logger.Logger
}

// NewSummarizer creates a summarizer. threshold <= 0 selects the default.
func NewSummarizer(store Store, completer Completer, threshold int, log *logger.Logger) *Summarizer {
	if threshold <= 0 {
		threshold = DefaultSummaryThreshold
	}
	return &Summarizer{
		store:     store,
		completer: completer,
		threshold: threshold,
		log:       log.WithModule("summarizer"),
	}
}

// MaybeSummarize compacts the user's history when it has reached the
// threshold. Compaction replaces the turn list with the generated summary
// in one step; concurrent appends follow last-write-wins.
func (s *Summarizer) MaybeSummarize(ctx context.Context, userID string) {
	history, err := s.store.GetHistory(ctx, userID)
	if err != nil {
		s.log.WithError(err).Warn("history read failed, skipping summarization")
		metrics.SummarizationsTotal.WithLabelValues("error").Inc()
		return
	}
	if len(history.Turns) < s.threshold {
		metrics.SummarizationsTotal.WithLabelValues("skipped").Inc()
		return
	}

	prompt := genai.SummaryPrompt(renderConversation(history.Turns))
	summary, err := s.completer.Generate(ctx, prompt, "", genai.SummaryConfig)
	if err != nil {
		s.log.WithError(err).Warn("summary generation failed")
		metrics.SummarizationsTotal.WithLabelValues("error").Inc()
		return
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		s.log.Warn("summary generation returned empty text")
		metrics.SummarizationsTotal.WithLabelValues("error").Inc()
		return
	}

	if err := s.store.Compact(ctx, userID, summary); err != nil {
		s.log.WithError(err).Warn("history compaction failed")
		metrics.SummarizationsTotal.WithLabelValues("error").Inc()
		return
	}
	s.log.WithField("turns", len(history.Turns)).Info("chat history compacted")
	metrics.SummarizationsTotal.WithLabelValues("success").Inc()
}
