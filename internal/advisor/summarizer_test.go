package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/storage"
)

func seedTurns(t *testing.T, store Store, userID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		role := storage.RoleUser
		if i%2 == 1 {
			role = storage.RoleBot
		}
		if err := store.AppendTurn(context.Background(), userID, role, "message"); err != nil {
			t.Fatal(err)
		}
	}
}

func TestMaybeSummarizeBelowThreshold(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	completer := &fakeCompleter{response: "a summary"}
	s := NewSummarizer(store, completer, 5, testLogger())

	seedTurns(t, store, "u1", 4)
	s.MaybeSummarize(ctx, "u1")

	if completer.calls() != 0 {
		t.Errorf("completer called below threshold")
	}
	if n, _ := store.TurnCount(ctx, "u1"); n != 4 {
		t.Errorf("TurnCount() = %d, want 4 (no compaction)", n)
	}
}

func TestMaybeSummarizeCompactsAtThreshold(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	completer := &fakeCompleter{response: "the student discussed engineering courses"}
	s := NewSummarizer(store, completer, 5, testLogger())

	seedTurns(t, store, "u1", 5)
	s.MaybeSummarize(ctx, "u1")

	history, err := store.GetHistory(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(history.Turns) != 0 {
		t.Errorf("turns after compaction = %d, want 0", len(history.Turns))
	}
	if history.Summary != "the student discussed engineering courses" {
		t.Errorf("summary = %q", history.Summary)
	}

	// The summary prompt carried the rendered conversation.
	if !strings.Contains(completer.lastPrompt(), "user: message") {
		t.Errorf("summary prompt missing conversation:\n%s", completer.lastPrompt())
	}
}

func TestMaybeSummarizeLeavesHistoryOnFailure(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	completer := &fakeCompleter{err: errors.New("model unavailable")}
	s := NewSummarizer(store, completer, 5, testLogger())

	seedTurns(t, store, "u1", 6)
	s.MaybeSummarize(ctx, "u1")

	if n, _ := store.TurnCount(ctx, "u1"); n != 6 {
		t.Errorf("TurnCount() = %d, want 6 (failed summarization must not compact)", n)
	}
}
