package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/logger"
)

// DefaultCompletionModel is the Gemini model used for advisor
// responses, query enhancement, and summarization.
const DefaultCompletionModel = "gemini-2.0-flash-001"

// GenerationConfig bounds one completion call.
type GenerationConfig struct {
	Temperature     float32
	TopP            float32
	TopK            float32
	MaxOutputTokens int32
}

// CompletionClient generates text with the Gemini API.
type CompletionClient struct {
	client *genai.Client
	model  string
	log    *logger.Logger
}

// NewCompletionClient creates a completion client. An empty model
// falls back to the default.
func NewCompletionClient(ctx context.Context, apiKey, model string, log *logger.Logger) (*CompletionClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key not configured")
	}
	if model == "" {
		model = DefaultCompletionModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &CompletionClient{
		client: client,
		model:  model,
		log:    log.WithModule("genai"),
	}, nil
}

// Generate produces a completion for the prompt. systemInstruction may
// be empty; it is never interleaved into the prompt body.
func (c *CompletionClient) Generate(ctx context.Context, prompt, systemInstruction string, cfg GenerationConfig) (string, error) {
	config := &genai.GenerateContentConfig{}
	if systemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}
	if cfg.Temperature > 0 {
		config.Temperature = genai.Ptr[float32](cfg.Temperature)
	}
	if cfg.TopP > 0 {
		config.TopP = genai.Ptr[float32](cfg.TopP)
	}
	if cfg.TopK > 0 {
		config.TopK = genai.Ptr[float32](cfg.TopK)
	}
	if cfg.MaxOutputTokens > 0 {
		config.MaxOutputTokens = cfg.MaxOutputTokens
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	duration := time.Since(start)

	if err != nil {
		c.log.WithError(err).WithFields(map[string]any{
			"model":         c.model,
			"prompt_length": len(prompt),
			"duration_ms":   duration.Milliseconds(),
		}).Warnf("Completion call failed")
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("empty response from model")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			out.WriteString(part.Text)
		}
	}

	result := strings.TrimSpace(out.String())
	if result == "" {
		return "", errors.New("model returned no text")
	}

	if resp.UsageMetadata != nil {
		c.log.WithFields(map[string]any{
			"model":         c.model,
			"input_tokens":  resp.UsageMetadata.PromptTokenCount,
			"output_tokens": resp.UsageMetadata.CandidatesTokenCount,
			"duration_ms":   duration.Milliseconds(),
		}).Debugf("Completion call finished")
	}

	return result, nil
}

// Model returns the configured model name.
func (c *CompletionClient) Model() string {
	return c.model
}
