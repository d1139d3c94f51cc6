package collection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/crashlens/crashlens/internal/db"
	"github.com/crashlens/crashlens/internal/domain"
)

// store is the consumer interface for collections (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	DelMulti(ctx context.Context, keys []string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// HNSWConfig HNSW index parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo implements the collection storage contract of the ingest,
// query and collection usecases.
type Repo struct {
	store store
	hnsw  HNSWConfig
	now   func() int64
}

// New creates a collection repository.
func New(s store) *Repo {
	return &Repo{
		store: s,
		hnsw:  HNSWConfig{M: 32, EFConstruct: 400},
		now:   func() int64 { return time.Now().UnixMilli() },
	}
}

// WithHNSW configures HNSW index parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnsw.EFConstruct = cfg.EFConstruct
	}
	return r
}

// Reset replaces a collection: any existing index, metadata and points
// for the name are removed, then a fresh metadata hash and HNSW index
// are created with the given vector dimensionality.
// Cleanup of a previous generation is best-effort; creation errors are fatal.
func (r *Repo) Reset(ctx context.Context, name string, vectorDim int) error {
	if vectorDim <= 0 {
		return fmt.Errorf("vector dim must be positive: %w", domain.ErrInvalidInput)
	}

	r.purge(ctx, name)

	metaKey := metaKey(name)
	if err := r.store.HSet(ctx, metaKey, infoToHash(name, vectorDim, r.now())); err != nil {
		return fmt.Errorf("hset collection %s: %w", name, err)
	}

	indexDef := buildIndex(name, vectorDim, r.hnsw)
	if err := r.store.CreateIndex(ctx, indexDef); err != nil {
		cleanupErr := r.store.Del(ctx, metaKey)
		return errors.Join(fmt.Errorf("create index %s: %w", indexDef.Name, err), cleanupErr)
	}

	return nil
}

// Get retrieves collection metadata by name.
func (r *Repo) Get(ctx context.Context, name string) (domain.CollectionInfo, error) {
	m, err := r.store.HGetAll(ctx, metaKey(name))
	if err != nil {
		return domain.CollectionInfo{}, fmt.Errorf("hgetall collection %s: %w", name, err)
	}
	if len(m) == 0 {
		return domain.CollectionInfo{}, domain.ErrNotFound
	}
	return infoFromHash(m), nil
}

// Count returns the number of points indexed in a collection.
func (r *Repo) Count(ctx context.Context, name string) (int, error) {
	n, err := r.store.SearchCount(ctx, indexName(name), "*")
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("count %s: %w", name, err)
	}
	return n, nil
}

// List returns all collections sorted by CreatedAt.
func (r *Repo) List(ctx context.Context) ([]domain.CollectionInfo, error) {
	keys, err := r.store.Scan(ctx, metaKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan collections: %w", err)
	}
	if len(keys) == 0 {
		return []domain.CollectionInfo{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi collections: %w", err)
	}

	infos := make([]domain.CollectionInfo, 0, len(results))
	for _, m := range results {
		if len(m) == 0 {
			continue
		}
		infos = append(infos, infoFromHash(m))
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt < infos[j].CreatedAt
	})

	return infos, nil
}

// Delete removes a collection: its metadata, index and all point keys.
func (r *Repo) Delete(ctx context.Context, name string) error {
	m, err := r.store.HGetAll(ctx, metaKey(name))
	if err != nil {
		return fmt.Errorf("hgetall collection %s: %w", name, err)
	}
	if len(m) == 0 {
		return domain.ErrNotFound
	}

	if err := r.store.Del(ctx, metaKey(name)); err != nil {
		return fmt.Errorf("del collection %s: %w", name, err)
	}

	if err := r.store.DropIndex(ctx, indexName(name)); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index %s: %w", name, err)
	}

	if keys, err := r.store.Scan(ctx, collectionPrefix(name)+"*"); err == nil && len(keys) > 0 {
		if err := r.store.DelMulti(ctx, keys); err != nil {
			return fmt.Errorf("del points %s: %w", name, err)
		}
	}

	return nil
}

// purge drops whatever remains of a previous generation of the collection.
func (r *Repo) purge(ctx context.Context, name string) {
	if exists, err := r.store.IndexExists(ctx, indexName(name)); err == nil && exists {
		_ = r.store.DropIndex(ctx, indexName(name))
	}
	_ = r.store.Del(ctx, metaKey(name))
	if keys, err := r.store.Scan(ctx, collectionPrefix(name)+"*"); err == nil && len(keys) > 0 {
		_ = r.store.DelMulti(ctx, keys)
	}
}

// Redis key patterns: crashlens:collection:{name}, crashlens:{name}:idx, crashlens:{name}:

func metaKey(name string) string {
	return fmt.Sprintf("%scollection:%s", domain.KeyPrefix, name)
}

func indexName(name string) string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, name)
}

func collectionPrefix(name string) string {
	return fmt.Sprintf("%s%s:", domain.KeyPrefix, name)
}
