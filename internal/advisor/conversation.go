// Package advisor implements the conversational pipeline: query
// enhancement from chat history, course retrieval, prompt assembly,
// completion, and threshold-triggered history compaction.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/genai"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/storage"
)

// Store is the conversation history contract the pipeline depends on.
// *storage.ChatRepository satisfies it; tests may substitute their own.
type Store interface {
	AppendTurn(ctx context.Context, userID string, role storage.Role, message string) error
	GetHistory(ctx context.Context, userID string) (*storage.ChatHistory, error)
	TurnCount(ctx context.Context, userID string) (int, error)
	Compact(ctx context.Context, userID, summary string) error
}

// Completer is the text completion capability. *genai.CompletionClient
// satisfies it.
type Completer interface {
	Generate(ctx context.Context, prompt, systemInstruction string, cfg genai.GenerationConfig) (string, error)
}

// roleLines renders turns as "role: message" lines, oldest first.
func roleLines(turns []storage.ChatTurn) []string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, fmt.Sprintf("%s: %s", t.Role, t.Message))
	}
	return lines
}

// renderConversation joins all turns into one block for summarization.
func renderConversation(turns []storage.ChatTurn) string {
	return strings.Join(roleLines(turns), "\n")
}
