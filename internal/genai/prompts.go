package genai

import (
	"fmt"
	"strings"
)

// AdvisorSystemInstruction is the fixed persona for advisor responses.
// It is passed as the system instruction, never embedded in the prompt
// body.
const AdvisorSystemInstruction = `You are an academic advisor for college students.
Your task is to help college students find and understand relevant courses.
Answer the QUERY in an informative and concise manner.
Make sure your response is grounded in the facts provided in the DOCUMENTS.
When referencing courses, it should be in the format [tag-number course].
If the user has previously communicated with you, the chat history will be available for reference with your messages and the users' messages.`

// EnhancementConfig keeps query rewriting cheap and deterministic.
var EnhancementConfig = GenerationConfig{
	Temperature:     0.1,
	MaxOutputTokens: 100,
}

// AdvisorConfig is the generation configuration for advisor responses.
var AdvisorConfig = GenerationConfig{
	Temperature:     0.7,
	TopP:            0.95,
	TopK:            40,
	MaxOutputTokens: 1024,
}

// SummaryConfig bounds conversation summarization.
var SummaryConfig = GenerationConfig{
	Temperature:     0.3,
	MaxOutputTokens: 512,
}

// EnhancementPrompt asks the model to rewrite a query for retrieval,
// folding in the recent conversation.
func EnhancementPrompt(historyLines []string, query string) string {
	var b strings.Builder
	b.WriteString("Given the recent conversation between a student and an academic advisor:\n\n")
	b.WriteString(strings.Join(historyLines, "\n"))
	b.WriteString("\n\nRewrite the student's latest question as a single standalone search query ")
	b.WriteString("for a course catalog. Capture both the historical context and the current intent. ")
	b.WriteString("Respond with only the rewritten query, no explanation.\n\n")
	b.WriteString("Latest question: ")
	b.WriteString(query)
	return b.String()
}

// SummaryPrompt asks the model to compact a conversation.
func SummaryPrompt(conversation string) string {
	return fmt.Sprintf("Summarize the following conversation in a concise manner:\n\n%s\n\nSummary:", conversation)
}
