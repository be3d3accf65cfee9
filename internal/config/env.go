// Package config defines environment variable keys for configuration.
package config

//nolint:gosec // Environment variable keys are not credentials.
const (
	// Server
	EnvPort            = "BTEAM_PORT"
	EnvLogLevel        = "BTEAM_LOG_LEVEL"
	EnvShutdownTimeout = "BTEAM_SHUTDOWN_TIMEOUT"

	// Auth
	EnvAuthSecret = "BTEAM_AUTH_SECRET"

	// Data
	EnvDataDir = "BTEAM_DATA_DIR"

	// Catalog scraper
	EnvCatalogBaseURL    = "BTEAM_CATALOG_BASE_URL"
	EnvScraperTimeout    = "BTEAM_SCRAPER_TIMEOUT"
	EnvScraperMaxRetries = "BTEAM_SCRAPER_MAX_RETRIES"
	EnvScraperWorkers    = "BTEAM_SCRAPER_WORKERS"

	// LLM capabilities
	EnvGeminiAPIKey    = "BTEAM_GEMINI_API_KEY"
	EnvCompletionModel = "BTEAM_COMPLETION_MODEL"
	EnvOpenAIAPIKey    = "BTEAM_OPENAI_API_KEY"
	EnvPrereqModel     = "BTEAM_PREREQ_MODEL"

	// RAG behavior
	EnvRetrievalTopK      = "BTEAM_RETRIEVAL_TOP_K"
	EnvSummaryThreshold   = "BTEAM_SUMMARY_THRESHOLD"
	EnvHistoryWindow      = "BTEAM_HISTORY_WINDOW"
	EnvRecordEnhanced     = "BTEAM_RECORD_ENHANCED_QUERY"
	EnvCapabilityTimeout  = "BTEAM_CAPABILITY_TIMEOUT"
	EnvSummarizeTimeout   = "BTEAM_SUMMARIZE_TIMEOUT"
	EnvEnhanceTimeout     = "BTEAM_ENHANCE_TIMEOUT"
	EnvEmbeddingBatchSize = "BTEAM_EMBEDDING_BATCH_SIZE"

	// Observability
	EnvBetterstackToken  = "BTEAM_BETTERSTACK_TOKEN"
	EnvSentryToken       = "BTEAM_SENTRY_TOKEN"
	EnvSentryHost        = "BTEAM_SENTRY_HOST"
	EnvSentryEnvironment = "BTEAM_SENTRY_ENVIRONMENT"
	EnvMetricsUsername   = "BTEAM_METRICS_USERNAME"
	EnvMetricsPassword   = "BTEAM_METRICS_PASSWORD"

	// Snapshot upload (S3-compatible)
	EnvSnapshotEndpoint  = "BTEAM_SNAPSHOT_ENDPOINT"
	EnvSnapshotAccessKey = "BTEAM_SNAPSHOT_ACCESS_KEY_ID"
	EnvSnapshotSecretKey = "BTEAM_SNAPSHOT_SECRET_ACCESS_KEY"
	EnvSnapshotBucket    = "BTEAM_SNAPSHOT_BUCKET"
)
