package advisor

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/genai"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/logger"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/rag"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/storage"
)

func testLogger() *logger.Logger {
	return logger.NewWithWriter("error", io.Discard)
}

func newTestStore(t *testing.T) *storage.ChatRepository {
	t.Helper()
	db, err := storage.NewTestDB()
	if err != nil {
		t.Fatalf("NewTestDB() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return storage.NewChatRepository(db)
}

// fakeCompleter records every call and replies with a canned response or
// error. Safe for the detached summarization goroutine.
type fakeCompleter struct {
	mu        sync.Mutex
	response  string
	err       error
	prompts   []string
	sysInstrs []string
}

func (f *fakeCompleter) Generate(_ context.Context, prompt, systemInstruction string, _ genai.GenerationConfig) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.sysInstrs = append(f.sysInstrs, systemInstruction)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeCompleter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func (f *fakeCompleter) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type fakeRetriever struct {
	mu      sync.Mutex
	docs    []rag.Doc
	err     error
	queries []string
}

func (f *fakeRetriever) Retrieve(_ context.Context, query string) ([]rag.Doc, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

func csen174() storage.Course {
	return storage.Course{
		DocID:       "CSEN-174",
		College:     "School of Engineering",
		Department:  "Computer Science and Engineering",
		Number:      "174",
		Title:       "Software Engineering",
		Description: "Software development lifecycle models.",
		Tag:         "CSEN",
		PreReqs:     "CSEN 146",
	}
}
