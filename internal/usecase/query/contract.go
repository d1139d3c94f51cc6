package query

import (
	"context"

	"github.com/crashlens/crashlens/internal/domain"
)

// CollectionRepo resolves collection metadata.
type CollectionRepo interface {
	Get(ctx context.Context, name string) (domain.CollectionInfo, error)
}

// Retriever runs similarity search over a collection.
type Retriever interface {
	KNN(ctx context.Context, collectionName string, vector []float32, topK int) ([]domain.RetrievedMatch, error)
}
