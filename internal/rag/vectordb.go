// Package rag implements course retrieval for the advisor pipeline: a
// persistent vector index as the primary backend and a BM25 lexical index
// as the fallback when embeddings are unavailable.
package rag

import (
	"context"
	"fmt"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/logger"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/storage"
)

const collectionName = "courses"

// addConcurrency bounds parallel embedding calls during indexing.
const addConcurrency = 4

// VectorDB wraps a persistent chromem-go collection of course documents.
// Each document's content is the RichText rendering of the course and its
// metadata carries the raw record fields so search results can be returned
// as full courses without a database lookup.
type VectorDB struct {
	db            *chromem.DB
	collection    *chromem.Collection
	embeddingFunc chromem.EmbeddingFunc
	log           *logger.Logger

	mu          sync.RWMutex
	initialized bool
}

// NewVectorDB opens (or creates) the vector database at path. The
// embedding function may be nil, in which case the store stays
// uninitialized and IsEnabled reports false.
func NewVectorDB(path string, embeddingFunc chromem.EmbeddingFunc, log *logger.Logger) (*VectorDB, error) {
	v := &VectorDB{
		embeddingFunc: embeddingFunc,
		log:           log.WithModule("vectordb"),
	}
	if embeddingFunc == nil {
		v.log.Warn("no embedding function configured, vector search disabled")
		return v, nil
	}

	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector db at %s: %w", path, err)
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, embeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %s: %w", collectionName, err)
	}

	v.db = db
	v.collection = collection
	v.initialized = true
	v.log.WithField("documents", collection.Count()).Info("vector db ready")
	return v, nil
}

// IsEnabled reports whether the store can serve queries.
func (v *VectorDB) IsEnabled() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.initialized
}

// Count returns the number of indexed course documents.
func (v *VectorDB) Count() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if !v.initialized {
		return 0
	}
	return v.collection.Count()
}

// AddCourses indexes the given course records, replacing any documents
// that share a doc id.
func (v *VectorDB) AddCourses(ctx context.Context, courses []storage.Course) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.initialized {
		return fmt.Errorf("vector db is not initialized")
	}

	docs := make([]chromem.Document, 0, len(courses))
	for _, c := range courses {
		docs = append(docs, chromem.Document{
			ID:      c.DocID,
			Content: RichText(c),
			Metadata: map[string]string{
				"college":     c.College,
				"department":  c.Department,
				"number":      c.Number,
				"title":       c.Title,
				"description": c.Description,
				"tag":         c.Tag,
				"pre_reqs":    c.PreReqs,
			},
		})
	}
	if len(docs) == 0 {
		return nil
	}

	if err := v.collection.AddDocuments(ctx, docs, addConcurrency); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	v.log.WithField("count", len(docs)).Debug("indexed course documents")
	return nil
}

// Query embeds the query text and returns the limit nearest course
// documents with their cosine similarity as the score.
func (v *VectorDB) Query(ctx context.Context, query string, limit int) ([]Doc, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if !v.initialized {
		return nil, fmt.Errorf("vector db is not initialized")
	}

	// chromem rejects limits past the collection size.
	if n := v.collection.Count(); limit > n {
		limit = n
	}
	if limit <= 0 {
		return nil, nil
	}

	results, err := v.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}

	docs := make([]Doc, 0, len(results))
	for _, r := range results {
		docs = append(docs, Doc{
			Course: courseFromMetadata(r.ID, r.Metadata),
			Score:  r.Similarity,
		})
	}
	return docs, nil
}

func courseFromMetadata(docID string, md map[string]string) storage.Course {
	return storage.Course{
		DocID:       docID,
		College:     md["college"],
		Department:  md["department"],
		Number:      md["number"],
		Title:       md["title"],
		Description: md["description"],
		Tag:         md["tag"],
		PreReqs:     md["pre_reqs"],
	}
}
