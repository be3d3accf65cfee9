package config

import "time"

// Timeout constants for the server and the external capability calls.
// Capability calls (embedding, retrieval, completion) are bounded by a
// caller-supplied deadline; on expiry the orchestrator treats the step as
// failed (enhancement falls back, retrieval/completion surface a generic
// error).
const (
	// HTTPRead bounds reading the request body. RAG payloads are tiny.
	HTTPRead = 10 * time.Second

	// HTTPWrite bounds writing the response. Completion can take a while,
	// so this must cover the full capability timeout plus overhead.
	HTTPWrite = 90 * time.Second

	// HTTPIdle bounds keep-alive connections.
	HTTPIdle = 120 * time.Second

	// ScraperRequest bounds a single catalog page fetch.
	ScraperRequest = 30 * time.Second

	// DefaultEnhanceTimeout bounds the query-enhancement completion call.
	// Enhancement is best-effort, so it gets a short leash.
	DefaultEnhanceTimeout = 10 * time.Second

	// DefaultCapabilityTimeout bounds retrieval and answer completion.
	DefaultCapabilityTimeout = 60 * time.Second

	// DefaultSummarizeTimeout bounds the background summarization call.
	DefaultSummarizeTimeout = 120 * time.Second

	// DefaultShutdownTimeout bounds graceful server shutdown.
	DefaultShutdownTimeout = 30 * time.Second
)
