// Package ingest implements the upload workflow: stage the file, probe
// the embedding dimension, replace the collection, chunk, embed and store.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/crashlens/crashlens/internal/domain"
	"github.com/crashlens/crashlens/internal/logger"
	"github.com/crashlens/crashlens/internal/metrics"
)

// dimensionProbe is embedded once per upload to learn the model's vector
// dimensionality before the index is created.
const dimensionProbe = "test"

// Service orchestrates one upload end to end.
type Service struct {
	collections CollectionRepo
	points      PointRepo
	splitter    Splitter
	embedder    domain.Embedder
	pool        *ants.Pool
	uploadDir   string
}

// Config holds the ingest service settings.
type Config struct {
	Collections CollectionRepo
	Points      PointRepo
	Splitter    Splitter
	Embedder    domain.Embedder
	// Workers bounds concurrent embedding calls per upload.
	Workers   int
	UploadDir string
}

// New creates an ingest service with a bounded embedding worker pool.
func New(cfg *Config) (*Service, error) {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create embedding pool: %w", err)
	}

	return &Service{
		collections: cfg.Collections,
		points:      cfg.Points,
		splitter:    cfg.Splitter,
		embedder:    cfg.Embedder,
		pool:        pool,
		uploadDir:   cfg.UploadDir,
	}, nil
}

// Close releases the embedding worker pool.
func (s *Service) Close() {
	s.pool.Release()
}

// Ingest processes one uploaded log file and returns the number of chunks
// stored. Any existing collection with the same name is replaced.
func (s *Service) Ingest(ctx context.Context, filename, content, collectionName string) (int, error) {
	if filename == "" {
		return 0, fmt.Errorf("filename is required: %w", domain.ErrInvalidInput)
	}
	if collectionName == "" {
		return 0, fmt.Errorf("collection name is required: %w", domain.ErrInvalidInput)
	}

	log := logger.FromContext(ctx)

	stagedPath, err := s.stage(filename, content)
	if err != nil {
		return 0, err
	}

	probe, err := s.embedder.Embed(ctx, dimensionProbe)
	if err != nil {
		return 0, fmt.Errorf("probe embedding dimension: %w", err)
	}
	vectorDim := len(probe.Embedding)
	if vectorDim == 0 {
		return 0, fmt.Errorf("probe returned empty vector: %w", domain.ErrEmbeddingProvider)
	}

	if err := s.collections.Reset(ctx, collectionName, vectorDim); err != nil {
		return 0, fmt.Errorf("reset collection: %w", err)
	}

	chunks := s.splitter.Split(content, stagedPath)
	if len(chunks) == 0 {
		log.Info("upload produced no chunks",
			zap.String("collection", collectionName),
			zap.String("filename", filename))
		return 0, nil
	}

	points, err := s.embedChunks(ctx, chunks)
	if err != nil {
		return 0, err
	}

	if err := s.points.UpsertBatch(ctx, collectionName, points); err != nil {
		return 0, fmt.Errorf("store points: %w", err)
	}

	metrics.IngestChunksTotal.WithLabelValues(collectionName).Add(float64(len(chunks)))
	log.Info("upload ingested",
		zap.String("collection", collectionName),
		zap.String("filename", filename),
		zap.Int("chunks", len(chunks)),
		zap.Int("vector_dim", vectorDim))

	return len(chunks), nil
}

// stage writes the upload to the upload directory and returns the staged
// path, which becomes the source recorded on every chunk.
func (s *Service) stage(filename, content string) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	path := filepath.Join(s.uploadDir, filepath.Base(filename))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("stage upload %s: %w", filename, err)
	}
	return path, nil
}

// embedChunks embeds all chunks through the worker pool. Point IDs follow
// chunk order regardless of completion order; the first failure cancels
// the remaining work and fails the upload.
func (s *Service) embedChunks(ctx context.Context, chunks []domain.Chunk) ([]domain.Point, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	vectors := make([][]float32, len(chunks))

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for i := range chunks {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		idx := i
		submitErr := s.pool.Submit(func() {
			defer wg.Done()

			if ctx.Err() != nil {
				return
			}

			result, err := s.embedder.Embed(ctx, chunks[idx].Content)
			if err != nil {
				errOnce.Do(func() {
					firstErr = fmt.Errorf("embed chunk %d: %w", idx, err)
					cancel()
				})
				return
			}
			vectors[idx] = result.Embedding
		})
		if submitErr != nil {
			wg.Done()
			errOnce.Do(func() {
				firstErr = fmt.Errorf("submit embedding task: %w", submitErr)
				cancel()
			})
			break
		}
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("embedding canceled: %w", err)
	}

	points := make([]domain.Point, len(chunks))
	for i, c := range chunks {
		points[i] = domain.Point{ID: i, Vector: vectors[i], Chunk: c}
	}
	return points, nil
}
