package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewEmbeddingClient(t *testing.T) {
	client := NewEmbeddingClient("test-api-key")
	if client == nil {
		t.Fatal("NewEmbeddingClient returned nil")
	}
	if !client.IsConfigured() {
		t.Error("client with key should be configured")
	}
	if NewEmbeddingClient("").IsConfigured() {
		t.Error("client without key should not be configured")
	}
}

func TestEmbedEmptyKey(t *testing.T) {
	_, err := NewEmbeddingClient("").Embed(context.Background(), "test text")
	if err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestEmbedEmptyText(t *testing.T) {
	_, err := NewEmbeddingClient("test-key").Embed(context.Background(), "   ")
	if err == nil {
		t.Error("expected error for whitespace-only text")
	}
}

func TestEmbedSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.TaskType != "RETRIEVAL_DOCUMENT" {
			t.Errorf("taskType = %q", req.TaskType)
		}
		if req.OutputDimensionality != GeminiEmbeddingDimensions {
			t.Errorf("outputDimensionality = %d", req.OutputDimensionality)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"embedding": map[string]any{"values": []float32{0.1, 0.2, 0.3}},
		})
	}))
	defer srv.Close()

	client := NewEmbeddingClient("test-key")
	client.baseURL = srv.URL

	vec, err := client.Embed(context.Background(), "Course Name: Software Engineering")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("vector length = %d", len(vec))
	}
}

func TestEmbedRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"embedding": map[string]any{"values": []float32{0.5}},
		})
	}))
	defer srv.Close()

	client := NewEmbeddingClient("test-key")
	client.baseURL = srv.URL

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	vec, err := client.Embed(ctx, "text")
	if err != nil {
		t.Fatalf("Embed failed after retry: %v", err)
	}
	if len(vec) != 1 {
		t.Fatalf("vector length = %d", len(vec))
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
}

func TestEmbedDoesNotRetryAPIErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 400, "message": "bad request", "status": "INVALID_ARGUMENT"},
		})
	}))
	defer srv.Close()

	client := NewEmbeddingClient("test-key")
	client.baseURL = srv.URL

	if _, err := client.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected API error")
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 call for non-retryable error, got %d", calls.Load())
	}
}

func TestApplyJitterBounds(t *testing.T) {
	base := 2 * time.Second
	for i := 0; i < 100; i++ {
		jittered := applyJitter(base)
		if jittered < time.Duration(float64(base)*0.75) || jittered > time.Duration(float64(base)*1.25) {
			t.Fatalf("jittered delay %v outside ±25%% of %v", jittered, base)
		}
	}
}
