// Package query implements the RAG query workflow: embed the question,
// retrieve the closest chunks and generate a grounded answer.
package query

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/crashlens/crashlens/internal/domain"
	"github.com/crashlens/crashlens/internal/logger"
)

// Service answers questions against an ingested collection.
type Service struct {
	collections  CollectionRepo
	retriever    Retriever
	embedder     domain.Embedder
	generator    domain.Generator
	defaultLimit int
}

// Config holds the query service settings.
type Config struct {
	Collections CollectionRepo
	Retriever   Retriever
	Embedder    domain.Embedder
	Generator   domain.Generator
	// DefaultLimit is the top-K used when the request does not set one.
	DefaultLimit int
}

// New creates a query service.
func New(cfg *Config) *Service {
	limit := cfg.DefaultLimit
	if limit <= 0 {
		limit = 6
	}
	return &Service{
		collections:  cfg.Collections,
		retriever:    cfg.Retriever,
		embedder:     cfg.Embedder,
		generator:    cfg.Generator,
		defaultLimit: limit,
	}
}

// Query runs one retrieval-augmented answer over a collection. A missing
// collection is ErrNotFound; an empty retrieval result for an existing
// collection is ErrNoRelevantDocuments.
func (s *Service) Query(ctx context.Context, text, collectionName string, limit int) (domain.QueryResult, error) {
	if strings.TrimSpace(text) == "" {
		return domain.QueryResult{}, fmt.Errorf("query text is required: %w", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}

	log := logger.FromContext(ctx)

	if _, err := s.collections.Get(ctx, collectionName); err != nil {
		return domain.QueryResult{}, fmt.Errorf("resolve collection: %w", err)
	}

	embedded, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("embed query: %w", err)
	}

	matches, err := s.retriever.KNN(ctx, collectionName, embedded.Embedding, limit)
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("retrieve: %w", err)
	}
	if len(matches) == 0 {
		return domain.QueryResult{}, domain.ErrNoRelevantDocuments
	}

	answer, err := s.generator.Generate(ctx, text, matches)
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("generate answer: %w", err)
	}

	log.Info("query answered",
		zap.String("collection", collectionName),
		zap.Int("matches", len(matches)),
		zap.Float64("top_score", matches[0].Score))

	return domain.QueryResult{
		Query:      text,
		Answer:     answer,
		Sources:    matches,
		Collection: collectionName,
	}, nil
}
