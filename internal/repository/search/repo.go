// Package search maps KNN results from the FT index back into retrieval
// matches for the query usecase.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/crashlens/crashlens/internal/db"
	"github.com/crashlens/crashlens/internal/domain"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements the retriever contract of the query usecase.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// KNN performs a vector similarity search and returns the matches ordered
// by descending similarity. A missing index surfaces as ErrNotFound.
func (r *Repo) KNN(
	ctx context.Context, collectionName string, vector []float32, topK int,
) ([]domain.RetrievedMatch, error) {
	q := &db.KNNQuery{
		IndexName:    indexName(collectionName),
		Vector:       vector,
		K:            topK,
		ReturnFields: []string{"content", "source", "__vector_score"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("search knn %s: %w", collectionName, err)
	}

	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	matches := make([]domain.RetrievedMatch, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		matches = append(matches, domain.RetrievedMatch{
			Content: entry.Fields["content"],
			Source:  entry.Fields["source"],
			Score:   entry.Score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches, nil
}

func indexName(name string) string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, name)
}
