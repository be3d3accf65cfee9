package rag

import (
	"context"
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/CSEN-174-W25/csen-174-thebteam/internal/errors"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/logger"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/metrics"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/storage"
)

// DefaultTopK is the number of course documents retrieved per query when
// no explicit limit is configured.
const DefaultTopK = 15

// SentinelScore is assigned to every result when the serving backend
// exposes no usable similarity score. All-equal scores keep the backend's
// rank order intact through the stable sort.
const SentinelScore = 0.5

// Doc is a retrieved course with its relevance score.
type Doc struct {
	Course storage.Course
	Score  float32
}

// Retriever serves course lookups for the advisor pipeline. The vector
// store is the primary backend; the keyword index takes over when vector
// search is disabled or fails.
type Retriever struct {
	vectors *VectorDB
	lexical *BM25Index
	topK    int
	log     *logger.Logger
}

// NewRetriever creates a retriever. Either backend may be nil or disabled
// as long as the other can serve.
func NewRetriever(vectors *VectorDB, lexical *BM25Index, topK int, log *logger.Logger) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		vectors: vectors,
		lexical: lexical,
		topK:    topK,
		log:     log.WithModule("retriever"),
	}
}

// Retrieve returns the most relevant courses for the query, sorted by
// descending score. Results with equal scores keep their backend order.
// An empty query returns no results.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]Doc, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	var vectorErr error
	if r.vectors != nil && r.vectors.IsEnabled() {
		docs, err := r.vectors.Query(ctx, query, r.topK)
		if err == nil {
			sortByScore(docs)
			metrics.RetrievedDocs.Observe(float64(len(docs)))
			return docs, nil
		}
		vectorErr = err
		r.log.WithError(err).Warn("vector retrieval failed, trying keyword fallback")
	}

	if r.lexical.IsEnabled() {
		courses, err := r.lexical.Search(query, r.topK)
		if err != nil {
			return nil, apperrors.NewCapabilityError("retrieval", err)
		}
		docs := make([]Doc, 0, len(courses))
		for _, c := range courses {
			docs = append(docs, Doc{Course: c, Score: SentinelScore})
		}
		sortByScore(docs)
		metrics.RetrievedDocs.Observe(float64(len(docs)))
		return docs, nil
	}

	if vectorErr != nil {
		return nil, apperrors.NewCapabilityError("retrieval", vectorErr)
	}
	return nil, apperrors.NewCapabilityError("retrieval", fmt.Errorf("no retrieval backend available"))
}

func sortByScore(docs []Doc) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Score > docs[j].Score
	})
}
