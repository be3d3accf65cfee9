package rag

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	bm25 "github.com/iwilltry42/bm25-go/bm25"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/logger"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/storage"
)

// BM25 parameters. k1 controls term frequency saturation, b controls
// document length normalization.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// BM25Index provides keyword search over course records. It serves as the
// retrieval fallback when the vector backend is unavailable, so results
// carry no similarity score, only rank order.
type BM25Index struct {
	okapi   *bm25.BM25Okapi
	courses []storage.Course
	log     *logger.Logger

	mu          sync.RWMutex
	initialized bool
}

// NewBM25Index creates an empty index. Call Initialize before searching.
func NewBM25Index(log *logger.Logger) *BM25Index {
	return &BM25Index{log: log.WithModule("bm25")}
}

// Initialize builds the index from the given course records, replacing any
// previous contents. BM25 needs the full corpus for IDF, so updates always
// rebuild.
func (idx *BM25Index) Initialize(courses []storage.Course) error {
	if len(courses) == 0 {
		return fmt.Errorf("cannot build index from empty corpus")
	}

	corpus := make([]string, len(courses))
	for i, c := range courses {
		corpus[i] = RichText(c)
	}

	okapi, err := bm25.NewBM25Okapi(corpus, tokenize, bm25K1, bm25B, nil)
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.okapi = okapi
	idx.courses = courses
	idx.initialized = true
	idx.log.WithField("documents", len(courses)).Info("keyword index ready")
	return nil
}

// IsEnabled reports whether the index has been built.
func (idx *BM25Index) IsEnabled() bool {
	if idx == nil {
		return false
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.initialized
}

// Count returns the number of indexed courses.
func (idx *BM25Index) Count() int {
	if idx == nil {
		return 0
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.courses)
}

// Search returns up to topN courses ranked by BM25 score, best first.
// Courses that match no query term are excluded.
func (idx *BM25Index) Search(query string, topN int) ([]storage.Course, error) {
	if !idx.IsEnabled() {
		return nil, nil
	}

	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	scores, err := idx.okapi.GetScores(tokens)
	if err != nil {
		return nil, fmt.Errorf("keyword scoring failed: %w", err)
	}

	type scoredDoc struct {
		docID int
		score float64
	}
	var scored []scoredDoc
	for docID, score := range scores {
		if score > 0 {
			scored = append(scored, scoredDoc{docID: docID, score: score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if topN > 0 && len(scored) > topN {
		scored = scored[:topN]
	}
	results := make([]storage.Course, 0, len(scored))
	for _, sd := range scored {
		results = append(results, idx.courses[sd.docID])
	}
	return results, nil
}

// tokenize lowercases text and splits it on any non-alphanumeric rune.
// Course numbers like "174" and tags like "CSEN" come through as single
// tokens.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
