package ingest

import (
	"context"

	"github.com/crashlens/crashlens/internal/domain"
)

// CollectionRepo resets a collection to a fresh index generation.
type CollectionRepo interface {
	Reset(ctx context.Context, name string, vectorDim int) error
}

// PointRepo persists embedded chunks.
type PointRepo interface {
	UpsertBatch(ctx context.Context, collectionName string, points []domain.Point) error
}

// Splitter cuts a document into overlapping chunks.
type Splitter interface {
	Split(text, source string) []domain.Chunk
}
