// Package point persists embedded chunks as per-point Redis hashes under
// the collection prefix, pipelined in fixed-size batches.
package point

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/crashlens/crashlens/internal/db"
	"github.com/crashlens/crashlens/internal/domain"
)

const defaultBatchSize = 100

// store is the consumer interface for point writes (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
}

// Repo implements the point storage contract of the ingest usecase.
type Repo struct {
	store     store
	batchSize int
}

// New creates a point repository.
func New(s store) *Repo {
	return &Repo{store: s, batchSize: defaultBatchSize}
}

// WithBatchSize overrides the pipelined write batch size.
func (r *Repo) WithBatchSize(n int) *Repo {
	if n > 0 {
		r.batchSize = n
	}
	return r
}

// UpsertBatch writes all points of one upload, at most batchSize keys per
// pipelined HSET round trip. The first failed batch aborts the rest.
func (r *Repo) UpsertBatch(ctx context.Context, collectionName string, points []domain.Point) error {
	for start := 0; start < len(points); start += r.batchSize {
		end := min(start+r.batchSize, len(points))

		items := make([]db.HashSetItem, 0, end-start)
		for _, p := range points[start:end] {
			items = append(items, db.HashSetItem{
				Key:    pointKey(collectionName, p.ID),
				Fields: pointToHash(p),
			})
		}

		if err := r.store.HSetMulti(ctx, items); err != nil {
			return fmt.Errorf("upsert points %d..%d: %w", start, end-1, err)
		}
	}
	return nil
}

func pointToHash(p domain.Point) map[string]string {
	return map[string]string{
		"content":     p.Chunk.Content,
		"source":      p.Chunk.Source,
		"chunk_index": strconv.Itoa(p.Chunk.Index),
		"__vector":    vectorToBytes(p.Vector),
	}
}

func pointKey(collectionName string, id int) string {
	return fmt.Sprintf("%s%s:%d", domain.KeyPrefix, collectionName, id)
}

// vectorToBytes serializes a vector as little-endian float32 for the
// FT VECTOR field.
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
