package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/config"
	apperrors "github.com/CSEN-174-W25/csen-174-thebteam/internal/errors"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/rag"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/storage"
)

func newTestEngine(store Store, retriever CourseRetriever, completer Completer, mutate func(*EngineConfig)) *Engine {
	enhancer := NewQueryEnhancer(store, &fakeCompleter{err: errors.New("enhancement off")}, 0, testLogger())
	cfg := EngineConfig{
		Store:     store,
		Enhancer:  enhancer,
		Retriever: retriever,
		Completer: completer,
		Logger:    testLogger(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewEngine(cfg)
}

func TestAskEndToEndPromptContainsCourse(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	retriever := &fakeRetriever{docs: []rag.Doc{{Course: csen174(), Score: 0.9}}}
	completer := &fakeCompleter{response: "You need [CSEN-146 Computer Networks] first."}
	e := newTestEngine(store, retriever, completer, nil)

	answer, err := e.Ask(ctx, "u1", "What are the prerequisites for CSEN 174?")
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}
	if answer != "You need [CSEN-146 Computer Networks] first." {
		t.Errorf("Ask() = %q", answer)
	}

	prompt := completer.lastPrompt()
	if !strings.Contains(prompt, "CSEN-174") {
		t.Errorf("prompt missing CSEN-174:\n%s", prompt)
	}
	if !strings.Contains(prompt, "CSEN 146") {
		t.Errorf("prompt missing CSEN 146:\n%s", prompt)
	}

	history, err := store.GetHistory(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(history.Turns) != 2 {
		t.Fatalf("history has %d turns, want 2", len(history.Turns))
	}
	if history.Turns[0].Role != storage.RoleUser || history.Turns[1].Role != storage.RoleBot {
		t.Errorf("history roles = %s, %s", history.Turns[0].Role, history.Turns[1].Role)
	}
}

func TestAskEmptyUserFailsClosed(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	retriever := &fakeRetriever{}
	e := newTestEngine(store, retriever, &fakeCompleter{response: "ok"}, nil)

	_, err := e.Ask(ctx, "  ", "anything")
	if !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("Ask() error = %v, want ErrUnauthorized", err)
	}

	// Fails closed: nothing recorded, nothing retrieved.
	if n, _ := store.TurnCount(ctx, "  "); n != 0 {
		t.Errorf("turns recorded for unauthenticated request: %d", n)
	}
	if len(retriever.queries) != 0 {
		t.Error("retriever called for unauthenticated request")
	}
}

func TestAskEmptyQuery(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	e := newTestEngine(store, &fakeRetriever{}, &fakeCompleter{response: "ok"}, nil)

	_, err := e.Ask(ctx, "u1", "   ")
	if !errors.Is(err, apperrors.ErrEmptyQuery) {
		t.Fatalf("Ask() error = %v, want ErrEmptyQuery", err)
	}
	if n, _ := store.TurnCount(ctx, "u1"); n != 0 {
		t.Errorf("turns recorded for empty query: %d", n)
	}
}

func TestAskRetrievalFailure(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	retriever := &fakeRetriever{err: errors.New("backend down")}
	completer := &fakeCompleter{response: "ok"}
	e := newTestEngine(store, retriever, completer, nil)

	_, err := e.Ask(ctx, "u1", "query")
	if err == nil {
		t.Fatal("Ask() succeeded despite retrieval failure")
	}
	if completer.calls() != 0 {
		t.Error("completion called after retrieval failure")
	}
	// The query append happened before the failure.
	if n, _ := store.TurnCount(ctx, "u1"); n != 1 {
		t.Errorf("TurnCount() = %d, want 1", n)
	}
}

func TestAskRecordsRawQueryByDefault(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedTurns(t, store, "u1", 2)

	retriever := &fakeRetriever{docs: []rag.Doc{{Course: csen174(), Score: 0.9}}}
	e := newTestEngine(store, retriever, &fakeCompleter{response: "ok"}, func(cfg *EngineConfig) {
		cfg.Enhancer = NewQueryEnhancer(store, &fakeCompleter{response: "ENHANCED"}, 0, testLogger())
	})

	if _, err := e.Ask(ctx, "u1", "what about its prereqs?"); err != nil {
		t.Fatalf("Ask() error: %v", err)
	}

	if len(retriever.queries) != 1 || retriever.queries[0] != "ENHANCED" {
		t.Errorf("retriever queries = %v, want the enhanced query", retriever.queries)
	}

	history, _ := store.GetHistory(ctx, "u1")
	var sawRaw, sawEnhanced bool
	for _, turn := range history.Turns {
		if turn.Message == "what about its prereqs?" {
			sawRaw = true
		}
		if turn.Message == "ENHANCED" {
			sawEnhanced = true
		}
	}
	if !sawRaw || sawEnhanced {
		t.Errorf("history records raw=%v enhanced=%v, want the raw query only", sawRaw, sawEnhanced)
	}
}

func TestAskRecordsEnhancedQueryWhenConfigured(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedTurns(t, store, "u1", 2)

	retriever := &fakeRetriever{docs: []rag.Doc{{Course: csen174(), Score: 0.9}}}
	e := newTestEngine(store, retriever, &fakeCompleter{response: "ok"}, func(cfg *EngineConfig) {
		cfg.Enhancer = NewQueryEnhancer(store, &fakeCompleter{response: "ENHANCED"}, 0, testLogger())
		cfg.RecordEnhanced = true
	})

	if _, err := e.Ask(ctx, "u1", "what about its prereqs?"); err != nil {
		t.Fatalf("Ask() error: %v", err)
	}

	history, _ := store.GetHistory(ctx, "u1")
	var sawEnhanced bool
	for _, turn := range history.Turns {
		if turn.Role == storage.RoleUser && turn.Message == "ENHANCED" {
			sawEnhanced = true
		}
	}
	if !sawEnhanced {
		t.Error("enhanced query not recorded despite RecordEnhanced")
	}
}

func TestAskSchedulesSummarization(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	retriever := &fakeRetriever{docs: []rag.Doc{{Course: csen174(), Score: 0.9}}}
	e := newTestEngine(store, retriever, &fakeCompleter{response: "ok"}, func(cfg *EngineConfig) {
		cfg.Summarizer = NewSummarizer(store, &fakeCompleter{response: "compact summary"}, 2, testLogger())
	})

	if _, err := e.Ask(ctx, "u1", "query"); err != nil {
		t.Fatalf("Ask() error: %v", err)
	}

	// Compaction runs detached; poll for it.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		history, err := store.GetHistory(ctx, "u1")
		if err != nil {
			t.Fatal(err)
		}
		if len(history.Turns) == 0 && history.Summary == "compact summary" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("history never compacted by background summarization")
}

func TestNewEngineDefaultTimeoutsFromConfig(t *testing.T) {
	store := newTestStore(t)
	e := newTestEngine(store, &fakeRetriever{}, &fakeCompleter{}, nil)

	if e.enhanceTimeout != config.DefaultEnhanceTimeout {
		t.Errorf("enhance timeout = %v, want %v", e.enhanceTimeout, config.DefaultEnhanceTimeout)
	}
	if e.capabilityTimeout != config.DefaultCapabilityTimeout {
		t.Errorf("capability timeout = %v, want %v", e.capabilityTimeout, config.DefaultCapabilityTimeout)
	}
	if e.summarizeTimeout != config.DefaultSummarizeTimeout {
		t.Errorf("summarize timeout = %v, want %v", e.summarizeTimeout, config.DefaultSummarizeTimeout)
	}
}
