// Package config provides application configuration management.
// It loads settings from environment variables (optionally through a .env
// file) and provides defaults for the server, scraper, and RAG pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultCatalogBaseURL is the undergraduate bulletin root. Department
// pages are discovered from the sidebar of this page.
const DefaultCatalogBaseURL = "https://www.scu.edu/bulletin/undergraduate/"

// Config holds all application configuration
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Auth Configuration
	AuthSecret string // HS256 secret for bearer token verification

	// Data Configuration
	DataDir string // Directory for SQLite database and vector store

	// Catalog Scraper Configuration
	CatalogBaseURL    string
	ScraperTimeout    time.Duration
	ScraperMaxRetries int
	ScraperWorkers    int // Parallel department fetches

	// LLM Capability Configuration
	GeminiAPIKey    string
	CompletionModel string // Gemini model for answer/summary/enhancement generation
	OpenAIAPIKey    string // Optional, for structured prerequisite extraction
	PrereqModel     string // OpenAI-compatible model for prerequisite extraction

	// RAG Behavior
	RetrievalTopK       int           // Top-K retrieved course records (interactive default 15)
	SummaryThreshold    int           // Turn count that triggers history compaction
	HistoryWindow       int           // Recent turns considered by the query enhancer
	RecordEnhancedQuery bool          // Record the enhanced query instead of the raw one
	CapabilityTimeout   time.Duration // Bound for retrieval and completion calls
	EnhanceTimeout      time.Duration // Bound for the enhancement call
	SummarizeTimeout    time.Duration // Bound for background summarization
	EmbeddingBatchSize  int           // Batch size for store writes during ingestion

	// Observability
	BetterstackToken  string
	SentryToken       string
	SentryHost        string
	SentryEnvironment string
	MetricsUsername   string
	MetricsPassword   string // Empty disables /metrics auth

	// Snapshot upload (S3-compatible, optional)
	SnapshotEndpoint  string
	SnapshotAccessKey string
	SnapshotSecretKey string
	SnapshotBucket    string
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first, then reads from env vars.
func Load() (*Config, error) {
	// Ignore error if .env does not exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv(EnvPort, "8080"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, DefaultShutdownTimeout),

		AuthSecret: getEnv(EnvAuthSecret, ""),

		DataDir: getEnv(EnvDataDir, defaultDataDir()),

		CatalogBaseURL:    getEnv(EnvCatalogBaseURL, DefaultCatalogBaseURL),
		ScraperTimeout:    getDurationEnv(EnvScraperTimeout, ScraperRequest),
		ScraperMaxRetries: getIntEnv(EnvScraperMaxRetries, 5),
		ScraperWorkers:    getIntEnv(EnvScraperWorkers, 4),

		GeminiAPIKey:    getEnv(EnvGeminiAPIKey, ""),
		CompletionModel: getEnv(EnvCompletionModel, "gemini-2.0-flash-001"),
		OpenAIAPIKey:    getEnv(EnvOpenAIAPIKey, ""),
		PrereqModel:     getEnv(EnvPrereqModel, "gpt-4o"),

		RetrievalTopK:       getIntEnv(EnvRetrievalTopK, 15),
		SummaryThreshold:    getIntEnv(EnvSummaryThreshold, 20),
		HistoryWindow:       getIntEnv(EnvHistoryWindow, 5),
		RecordEnhancedQuery: getBoolEnv(EnvRecordEnhanced, false),
		CapabilityTimeout:   getDurationEnv(EnvCapabilityTimeout, DefaultCapabilityTimeout),
		EnhanceTimeout:      getDurationEnv(EnvEnhanceTimeout, DefaultEnhanceTimeout),
		SummarizeTimeout:    getDurationEnv(EnvSummarizeTimeout, DefaultSummarizeTimeout),
		EmbeddingBatchSize:  getIntEnv(EnvEmbeddingBatchSize, 25),

		BetterstackToken:  getEnv(EnvBetterstackToken, ""),
		SentryToken:       getEnv(EnvSentryToken, ""),
		SentryHost:        getEnv(EnvSentryHost, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		MetricsUsername:   getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword:   getEnv(EnvMetricsPassword, ""),

		SnapshotEndpoint:  getEnv(EnvSnapshotEndpoint, ""),
		SnapshotAccessKey: getEnv(EnvSnapshotAccessKey, ""),
		SnapshotSecretKey: getEnv(EnvSnapshotSecretKey, ""),
		SnapshotBucket:    getEnv(EnvSnapshotBucket, ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration invariants that would otherwise surface
// as confusing runtime failures.
func (c *Config) Validate() error {
	if c.RetrievalTopK <= 0 {
		return fmt.Errorf("%s must be positive, got %d", EnvRetrievalTopK, c.RetrievalTopK)
	}
	if c.SummaryThreshold < 2 {
		return fmt.Errorf("%s must be at least 2, got %d", EnvSummaryThreshold, c.SummaryThreshold)
	}
	if c.HistoryWindow <= 0 {
		return fmt.Errorf("%s must be positive, got %d", EnvHistoryWindow, c.HistoryWindow)
	}
	if c.EmbeddingBatchSize <= 0 {
		return fmt.Errorf("%s must be positive, got %d", EnvEmbeddingBatchSize, c.EmbeddingBatchSize)
	}
	if c.ScraperWorkers <= 0 {
		return fmt.Errorf("%s must be positive, got %d", EnvScraperWorkers, c.ScraperWorkers)
	}
	return nil
}

// RequireAuthSecret returns an error when the auth secret is unset.
// The server refuses to start without it: requests could never be
// authenticated and every call would fail closed.
func (c *Config) RequireAuthSecret() error {
	if c.AuthSecret == "" {
		return errors.New("auth secret is required: set " + EnvAuthSecret)
	}
	return nil
}

// SQLitePath returns the path to the SQLite database file.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "advisor.db")
}

// VectorStorePath returns the persistence directory for the vector store.
func (c *Config) VectorStorePath() string {
	return filepath.Join(c.DataDir, "chromem")
}

// SnapshotEnabled reports whether snapshot upload is fully configured.
func (c *Config) SnapshotEnabled() bool {
	return c.SnapshotEndpoint != "" && c.SnapshotAccessKey != "" &&
		c.SnapshotSecretKey != "" && c.SnapshotBucket != ""
}

func defaultDataDir() string {
	return "./data"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv retrieves a duration environment variable or returns a default
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// getIntEnv retrieves an integer environment variable or returns a default
func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getBoolEnv retrieves a boolean environment variable or returns a default
func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
