package advisor

import (
	"fmt"
	"strings"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/rag"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/storage"
)

// closingInstruction ends every prompt so the model answers the query
// instead of continuing the conversation transcript.
const closingInstruction = "Answer the QUERY helpfully and concisely, grounded in the DOCUMENTS above."

// AssemblePrompt builds the completion prompt in fixed order: prior
// conversation summary (when present), the retrieved course documents,
// the recent conversation, the literal query, and a closing instruction.
// The advisor persona lives in the system instruction, not in this body.
func AssemblePrompt(summary string, docs []rag.Doc, turns []storage.ChatTurn, query string) string {
	var b strings.Builder

	if summary = strings.TrimSpace(summary); summary != "" {
		b.WriteString("Previous conversation summary: ")
		b.WriteString(summary)
		b.WriteString("\n\n")
	}

	b.WriteString("DOCUMENTS:\n")
	for i, d := range docs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(formatCourse(d.Course))
	}

	if len(turns) > 0 {
		b.WriteString("\nConversation so far:\n")
		for _, t := range turns {
			fmt.Fprintf(&b, "%s: %s\n", personaLabel(t.Role), t.Message)
		}
	}

	b.WriteString("\nQUERY: ")
	b.WriteString(query)
	b.WriteString("\n\n")
	b.WriteString(closingInstruction)
	return b.String()
}

// formatCourse renders one retrieved course as a labeled block.
func formatCourse(c storage.Course) string {
	label := c.Tag + "-" + c.Number
	if c.Tag == "" {
		label = c.DocID
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", label, c.Title)
	fmt.Fprintf(&b, "Department: %s\n", c.Department)
	fmt.Fprintf(&b, "Description: %s\n", c.Description)
	fmt.Fprintf(&b, "Prerequisites: %s\n", c.PreReqs)
	return b.String()
}

// personaLabel maps storage roles to the labels shown to the model.
func personaLabel(r storage.Role) string {
	if r == storage.RoleBot {
		return "Advisor"
	}
	return "Student"
}
