package prereq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/logger"
)

// Group is a boolean combination of course requirements. Courses holds
// course codes or nested groups.
type Group struct {
	Type     string  `json:"type"` // "AND" or "OR"
	Courses  []Entry `json:"courses"`
	MinGrade string  `json:"min_grade,omitempty"`
}

// Entry is either a plain course code or a nested group.
type Entry struct {
	Course string
	Group  *Group
}

// Requirements is the structured relationship set for one course.
type Requirements struct {
	Prerequisites *Group   `json:"prerequisites,omitempty"`
	Corequisites  []string `json:"corequisites,omitempty"`
	CrossListed   []string `json:"cross_listed,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var course string
	if err := json.Unmarshal(data, &course); err == nil {
		e.Course = course
		return nil
	}

	var group Group
	if err := json.Unmarshal(data, &group); err != nil {
		return fmt.Errorf("prerequisite entry is neither a course code nor a group: %w", err)
	}
	e.Group = &group
	return nil
}

func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Group != nil {
		return json.Marshal(e.Group)
	}
	return json.Marshal(e.Course)
}

const structuredPrompt = `Extract course relationships from this description. Return a JSON object with this structure:
{
    "prerequisites": {
        "type": "AND",
        "courses": ["MATH 101", {"type": "OR", "courses": ["MATH 102", "AMTH 108"], "min_grade": "C-"}],
        "min_grade": "C-"
    },
    "corequisites": ["MATH 101L"],
    "cross_listed": ["CSCI 147"],
    "notes": "Permission of instructor required"
}

For complex prerequisites, use nested groups with their own type (AND/OR).
Each group can have its own grade requirement.
If any field is not applicable, use null or empty array.

Course: %s %s
Description: %s

Provide only valid JSON as response, no other text.`

// StructuredExtractor derives structured requirement groups from course
// descriptions with an LLM. It complements the pattern extractor: the
// pattern pass isolates the requirement text, this pass parses its
// AND/OR structure.
type StructuredExtractor struct {
	client openai.Client
	model  string
	log    *logger.Logger
}

// NewStructuredExtractor creates an extractor. Returns nil when apiKey
// is empty, which disables structured extraction.
func NewStructuredExtractor(apiKey, model string, log *logger.Logger) *StructuredExtractor {
	if apiKey == "" {
		return nil
	}
	return &StructuredExtractor{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		log:    log.WithModule("prereq"),
	}
}

// Enabled reports whether structured extraction is available.
func (e *StructuredExtractor) Enabled() bool {
	return e != nil
}

// Extract parses one course's requirement structure.
func (e *StructuredExtractor) Extract(ctx context.Context, tag, number, description string) (*Requirements, error) {
	if e == nil {
		return nil, errors.New("structured extractor is disabled")
	}

	params := openai.ChatCompletionNewParams{
		Model: e.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("Extract course relationships in JSON format."),
			openai.UserMessage(fmt.Sprintf(structuredPrompt, tag, number, description)),
		},
		Temperature: openai.Float(0),
	}

	start := time.Now()
	resp, err := e.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("empty response from model")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var reqs Requirements
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &reqs); err != nil {
		return nil, fmt.Errorf("failed to parse requirements for %s %s: %w", tag, number, err)
	}

	e.log.WithFields(map[string]any{
		"course":      tag + " " + number,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debugf("Structured extraction complete")

	return &reqs, nil
}
