package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/config"
	apperrors "github.com/CSEN-174-W25/csen-174-thebteam/internal/errors"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/genai"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/logger"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/metrics"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/rag"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/storage"
)

// CourseRetriever is the similarity search capability. *rag.Retriever
// satisfies it.
type CourseRetriever interface {
	Retrieve(ctx context.Context, query string) ([]rag.Doc, error)
}

// EngineConfig wires the pipeline dependencies.
type EngineConfig struct {
	Store      Store
	Enhancer   *QueryEnhancer
	Retriever  CourseRetriever
	Completer  Completer
	Summarizer *Summarizer
	Logger     *logger.Logger

	// SystemInstruction overrides the advisor persona. Empty selects the
	// default.
	SystemInstruction string

	// RecordEnhanced records the enhanced query in chat history instead
	// of the raw one. Default is the raw query: it is what the student
	// actually said, and the enhanced form is a retrieval detail.
	RecordEnhanced bool

	EnhanceTimeout    time.Duration
	CapabilityTimeout time.Duration
	SummarizeTimeout  time.Duration
}

// Engine sequences one advisor request: authenticate, record the query,
// enhance, retrieve, assemble, complete, record the response, and kick off
// background summarization.
type Engine struct {
	store      Store
	enhancer   *QueryEnhancer
	retriever  CourseRetriever
	completer  Completer
	summarizer *Summarizer
	log        *logger.Logger

	systemInstruction string
	recordEnhanced    bool
	enhanceTimeout    time.Duration
	capabilityTimeout time.Duration
	summarizeTimeout  time.Duration
}

// NewEngine creates the request pipeline.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.SystemInstruction == "" {
		cfg.SystemInstruction = genai.AdvisorSystemInstruction
	}
	if cfg.EnhanceTimeout <= 0 {
		cfg.EnhanceTimeout = config.DefaultEnhanceTimeout
	}
	if cfg.CapabilityTimeout <= 0 {
		cfg.CapabilityTimeout = config.DefaultCapabilityTimeout
	}
	if cfg.SummarizeTimeout <= 0 {
		cfg.SummarizeTimeout = config.DefaultSummarizeTimeout
	}
	return &Engine{
		store:             cfg.Store,
		enhancer:          cfg.Enhancer,
		retriever:         cfg.Retriever,
		completer:         cfg.Completer,
		summarizer:        cfg.Summarizer,
		log:               cfg.Logger.WithModule("advisor"),
		systemInstruction: cfg.SystemInstruction,
		recordEnhanced:    cfg.RecordEnhanced,
		enhanceTimeout:    cfg.EnhanceTimeout,
		capabilityTimeout: cfg.CapabilityTimeout,
		summarizeTimeout:  cfg.SummarizeTimeout,
	}
}

// Ask answers one authenticated query. An empty userID fails closed before
// any side effect. Retrieval and completion failures surface as capability
// errors; the HTTP layer turns those into a generic message.
func (e *Engine) Ask(ctx context.Context, userID, query string) (response string, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.WithField("panic", fmt.Sprint(r)).Error("advisor pipeline panic")
			metrics.RagRequestsTotal.WithLabelValues("error").Inc()
			response = ""
			err = fmt.Errorf("advisor pipeline panic: %v", r)
		}
	}()

	if strings.TrimSpace(userID) == "" {
		metrics.RagRequestsTotal.WithLabelValues("auth_error").Inc()
		return "", apperrors.ErrUnauthorized
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return "", apperrors.ErrEmptyQuery
	}
	log := e.log.WithField("user_id", userID)

	if !e.recordEnhanced {
		if err := e.store.AppendTurn(ctx, userID, storage.RoleUser, query); err != nil {
			metrics.RagRequestsTotal.WithLabelValues("error").Inc()
			return "", fmt.Errorf("failed to record query: %w", err)
		}
	}

	enhanced := e.enhance(ctx, userID, query)

	if e.recordEnhanced {
		if err := e.store.AppendTurn(ctx, userID, storage.RoleUser, enhanced); err != nil {
			metrics.RagRequestsTotal.WithLabelValues("error").Inc()
			return "", fmt.Errorf("failed to record query: %w", err)
		}
	}

	docs, err := e.retrieve(ctx, enhanced)
	if err != nil {
		log.WithError(err).Error("retrieval failed")
		metrics.RagRequestsTotal.WithLabelValues("error").Inc()
		return "", err
	}

	prompt, err := e.assemble(ctx, userID, query, docs)
	if err != nil {
		log.WithError(err).Error("prompt assembly failed")
		metrics.RagRequestsTotal.WithLabelValues("error").Inc()
		return "", err
	}

	answer, err := e.complete(ctx, prompt)
	if err != nil {
		log.WithError(err).Error("completion failed")
		metrics.RagRequestsTotal.WithLabelValues("error").Inc()
		return "", err
	}

	// The response is already determined; a failed append loses one turn
	// of history but must not fail the request.
	if err := e.store.AppendTurn(ctx, userID, storage.RoleBot, answer); err != nil {
		log.WithError(err).Warn("failed to record response")
	}

	e.scheduleSummarization(ctx, userID)

	metrics.RagRequestsTotal.WithLabelValues("success").Inc()
	return answer, nil
}

func (e *Engine) enhance(ctx context.Context, userID, query string) string {
	defer observeStep("enhance", time.Now())
	ctx, cancel := context.WithTimeout(ctx, e.enhanceTimeout)
	defer cancel()
	return e.enhancer.Enhance(ctx, userID, query)
}

func (e *Engine) retrieve(ctx context.Context, query string) ([]rag.Doc, error) {
	defer observeStep("retrieve", time.Now())
	ctx, cancel := context.WithTimeout(ctx, e.capabilityTimeout)
	defer cancel()
	return e.retriever.Retrieve(ctx, query)
}

func (e *Engine) assemble(ctx context.Context, userID, query string, docs []rag.Doc) (string, error) {
	defer observeStep("assemble", time.Now())
	history, err := e.store.GetHistory(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to read history: %w", err)
	}
	return AssemblePrompt(history.Summary, docs, history.Turns, query), nil
}

func (e *Engine) complete(ctx context.Context, prompt string) (string, error) {
	defer observeStep("complete", time.Now())
	ctx, cancel := context.WithTimeout(ctx, e.capabilityTimeout)
	defer cancel()
	answer, err := e.completer.Generate(ctx, prompt, e.systemInstruction, genai.AdvisorConfig)
	if err != nil {
		return "", apperrors.NewCapabilityError("completion", err)
	}
	return answer, nil
}

// scheduleSummarization runs compaction detached from the request: the
// response path never waits for it and cancelling the request must not
// cancel it.
func (e *Engine) scheduleSummarization(ctx context.Context, userID string) {
	if e.summarizer == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				e.log.WithField("panic", fmt.Sprint(r)).Error("summarization panic")
			}
		}()
		ctx, cancel := context.WithTimeout(detached, e.summarizeTimeout)
		defer cancel()
		e.summarizer.MaybeSummarize(ctx, userID)
	}()
}

func observeStep(step string, start time.Time) {
	metrics.RagStepSeconds.WithLabelValues(step).Observe(time.Since(start).Seconds())
}
