// Package main provides the course advisor server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/advisor"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/config"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/genai"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/httpapi"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/logger"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/rag"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/sentry"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithShipping(cfg.LogLevel, cfg.BetterstackToken)
	log.Info("Starting course advisor server")

	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("Server exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	if err := cfg.RequireAuthSecret(); err != nil {
		return err
	}
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("gemini api key is required: set %s", config.EnvGeminiAPIKey)
	}

	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.SentryEnvironment,
	}); err != nil {
		return fmt.Errorf("error tracking init: %w", err)
	}
	defer sentry.Flush(2 * time.Second)

	db, err := storage.New(cfg.SQLitePath())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() { _ = db.Close() }()
	log.WithField("path", cfg.SQLitePath()).Info("Database connected")

	chatRepo := storage.NewChatRepository(db)
	courseRepo := storage.NewCourseRepository(db)

	ctx := context.Background()

	vectorDB, err := rag.NewVectorDB(cfg.VectorStorePath(), genai.NewEmbeddingFunc(cfg.GeminiAPIKey), log)
	if err != nil {
		log.WithError(err).Warn("Vector store unavailable, keyword search only")
		vectorDB, _ = rag.NewVectorDB("", nil, log)
	}

	bm25Index := rag.NewBM25Index(log)
	courses, err := courseRepo.ListCourses(ctx)
	switch {
	case err != nil:
		log.WithError(err).Warn("Failed to load courses for keyword index")
	case len(courses) == 0:
		log.Warn("No courses stored yet, keyword fallback disabled until ingestion runs")
	default:
		if err := bm25Index.Initialize(courses); err != nil {
			log.WithError(err).Warn("Failed to build keyword index")
		}
	}

	retriever := rag.NewRetriever(vectorDB, bm25Index, cfg.RetrievalTopK, log)

	completer, err := genai.NewCompletionClient(ctx, cfg.GeminiAPIKey, cfg.CompletionModel, log)
	if err != nil {
		return fmt.Errorf("completion client: %w", err)
	}

	engine := advisor.NewEngine(advisor.EngineConfig{
		Store:             chatRepo,
		Enhancer:          advisor.NewQueryEnhancer(chatRepo, completer, cfg.HistoryWindow, log),
		Retriever:         retriever,
		Completer:         completer,
		Summarizer:        advisor.NewSummarizer(chatRepo, completer, cfg.SummaryThreshold, log),
		Logger:            log,
		RecordEnhanced:    cfg.RecordEnhancedQuery,
		EnhanceTimeout:    cfg.EnhanceTimeout,
		CapabilityTimeout: cfg.CapabilityTimeout,
		SummarizeTimeout:  cfg.SummarizeTimeout,
	})

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Engine:          engine,
		AuthSecret:      cfg.AuthSecret,
		Logger:          log,
		Ready:           func() bool { return db.Conn().Ping() == nil },
		MetricsUsername: cfg.MetricsUsername,
		MetricsPassword: cfg.MetricsPassword,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  config.HTTPRead,
		WriteTimeout: config.HTTPWrite,
		IdleTimeout:  config.HTTPIdle,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
