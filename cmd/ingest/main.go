// Package main implements the catalog ingestion pipeline: scrape the
// bulletin into a CSV, encode the CSV into the course store and vector
// index, and optionally extract structured prerequisites or upload a
// compressed snapshot of the CSV.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/catalog"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/config"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/genai"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/logger"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/prereq"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/rag"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/scraper"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/snapshot"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/storage"
)

// CLI flags
var (
	scrapeFlag   = flag.Bool("scrape", false, "Scrape the catalog into the CSV file")
	encodeFlag   = flag.Bool("encode", false, "Load the CSV file into the database and vector store")
	prereqFlag   = flag.Bool("prereq-json", false, "Extract structured prerequisite JSON for stored courses")
	snapshotFlag = flag.Bool("snapshot", false, "Upload the compressed CSV file to the snapshot bucket")
	csvFlag      = flag.String("csv", "", "CSV file path (default <data-dir>/courses.csv)")
)

// scrapeRate bounds outbound catalog requests per minute across workers.
const scrapeRate = 60

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	log.Info("Starting catalog ingestion")

	// With no stage selected, run the full scrape-then-encode pipeline.
	if !*scrapeFlag && !*encodeFlag && !*prereqFlag && !*snapshotFlag {
		*scrapeFlag = true
		*encodeFlag = true
	}

	csvPath := *csvFlag
	if csvPath == "" {
		csvPath = filepath.Join(cfg.DataDir, "courses.csv")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, csvPath); err != nil {
		log.WithError(err).Error("Ingestion failed")
		os.Exit(1)
	}

	log.Info("Ingestion complete")
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, csvPath string) error {
	if *scrapeFlag {
		if err := scrapeCatalog(ctx, cfg, log, csvPath); err != nil {
			return err
		}
	}
	if *encodeFlag {
		if err := encodeCatalog(ctx, cfg, log, csvPath); err != nil {
			return err
		}
	}
	if *prereqFlag {
		if err := extractPrereqs(ctx, cfg, log); err != nil {
			return err
		}
	}
	if *snapshotFlag {
		if err := uploadSnapshot(ctx, cfg, log, csvPath); err != nil {
			return err
		}
	}
	return nil
}

// scrapeCatalog collects every department page and writes the parsed
// course records to csvPath. Prerequisite sentences are split out of
// the descriptions before persisting.
func scrapeCatalog(ctx context.Context, cfg *config.Config, log *logger.Logger, csvPath string) error {
	client := scraper.NewClient(cfg.ScraperTimeout, scrapeRate, cfg.ScraperMaxRetries)
	parser := catalog.NewParser(catalog.DefaultRules(), log)
	collector := catalog.NewCollector(client, parser, cfg.CatalogBaseURL, cfg.ScraperWorkers, log)

	records, err := collector.CollectAll(ctx)
	if err != nil {
		return fmt.Errorf("catalog collection: %w", err)
	}

	for i := range records {
		cleaned, info := prereq.Process(records[i].Description, records[i].Number)
		records[i].Description = cleaned
		if info.PrereqText != "" {
			records[i].PreReqs = info.PrereqText
		}
	}

	if err := os.MkdirAll(filepath.Dir(csvPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", csvPath, err)
	}
	if err := catalog.WriteCSV(f, records); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", csvPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", csvPath, err)
	}

	log.WithField("courses", len(records)).WithField("path", csvPath).Info("Catalog written")
	return nil
}

// encodeCatalog loads the CSV into the course store and, when an API
// key is configured, into the vector index. Document IDs are resolved
// against the IDs already stored so re-runs update in place.
func encodeCatalog(ctx context.Context, cfg *config.Config, log *logger.Logger, csvPath string) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", csvPath, err)
	}
	records, err := catalog.ReadCSV(f, log)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", csvPath, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no course records in %s", csvPath)
	}

	db, err := storage.New(cfg.SQLitePath())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() { _ = db.Close() }()

	repo := storage.NewCourseRepository(db)
	taken, err := repo.ListDocIDs(ctx)
	if err != nil {
		return fmt.Errorf("list document ids: %w", err)
	}

	courses := make([]storage.Course, 0, len(records))
	for _, rec := range records {
		c := storage.Course{
			College:     string(rec.College),
			Department:  rec.Category,
			Number:      rec.Number,
			Title:       rec.Title,
			Description: rec.Description,
			Tag:         rec.Tag,
			PreReqs:     rec.PreReqs,
		}
		c.DocID = storage.ResolveDocID(c, func(id string) bool { return taken[id] })
		taken[c.DocID] = true
		courses = append(courses, c)
	}

	for start := 0; start < len(courses); start += cfg.EmbeddingBatchSize {
		end := min(start+cfg.EmbeddingBatchSize, len(courses))
		if err := repo.SaveBatch(ctx, courses[start:end]); err != nil {
			return fmt.Errorf("save courses: %w", err)
		}
	}
	log.WithField("courses", len(courses)).Info("Courses stored")

	if cfg.GeminiAPIKey == "" {
		log.Warn("No Gemini API key, skipping vector indexing")
		return nil
	}

	vectorDB, err := rag.NewVectorDB(cfg.VectorStorePath(), genai.NewEmbeddingFunc(cfg.GeminiAPIKey), log)
	if err != nil {
		return fmt.Errorf("vector db: %w", err)
	}
	for start := 0; start < len(courses); start += cfg.EmbeddingBatchSize {
		end := min(start+cfg.EmbeddingBatchSize, len(courses))
		if err := vectorDB.AddCourses(ctx, courses[start:end]); err != nil {
			return fmt.Errorf("index courses: %w", err)
		}
		log.WithField("indexed", end).Debugf("Vector indexing progress")
	}
	log.WithField("courses", len(courses)).Info("Vector index updated")
	return nil
}

// extractPrereqs runs the structured prerequisite extractor over every
// stored course with prerequisite text and writes the results as JSON
// keyed by document ID. Individual extraction failures are logged and
// skipped.
func extractPrereqs(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	if cfg.OpenAIAPIKey == "" {
		return errors.New("structured extraction requires " + config.EnvOpenAIAPIKey)
	}

	db, err := storage.New(cfg.SQLitePath())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() { _ = db.Close() }()

	courses, err := storage.NewCourseRepository(db).ListCourses(ctx)
	if err != nil {
		return fmt.Errorf("list courses: %w", err)
	}

	extractor := prereq.NewStructuredExtractor(cfg.OpenAIAPIKey, cfg.PrereqModel, log)
	out := make(map[string]*prereq.Requirements)
	for _, c := range courses {
		if c.PreReqs == "" {
			continue
		}
		reqs, err := extractor.Extract(ctx, c.Tag, c.Number, c.PreReqs)
		if err != nil {
			log.WithError(err).WithField("course", c.DocID).
				Warnf("Skipping course after extraction failure")
			continue
		}
		out[c.DocID] = reqs
	}

	path := filepath.Join(cfg.DataDir, "prereqs.json")
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal requirements: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	log.WithField("courses", len(out)).WithField("path", path).Info("Structured prerequisites written")
	return nil
}

// uploadSnapshot compresses the CSV and uploads it to the configured
// S3-compatible bucket.
func uploadSnapshot(ctx context.Context, cfg *config.Config, log *logger.Logger, csvPath string) error {
	if !cfg.SnapshotEnabled() {
		return errors.New("snapshot upload is not configured")
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", csvPath, err)
	}
	defer func() { _ = f.Close() }()

	uploader, err := snapshot.New(ctx, snapshot.Config{
		Endpoint:    cfg.SnapshotEndpoint,
		AccessKeyID: cfg.SnapshotAccessKey,
		SecretKey:   cfg.SnapshotSecretKey,
		Bucket:      cfg.SnapshotBucket,
	}, log)
	if err != nil {
		return fmt.Errorf("snapshot uploader: %w", err)
	}

	key, err := uploader.Upload(ctx, "courses", f)
	if err != nil {
		return fmt.Errorf("upload snapshot: %w", err)
	}

	log.WithField("key", key).Info("Snapshot uploaded")
	return nil
}
