package collection

import (
	"context"

	"github.com/crashlens/crashlens/internal/domain"
)

// Repository defines the storage contract for collections.
type Repository interface {
	Get(ctx context.Context, name string) (domain.CollectionInfo, error)
	Count(ctx context.Context, name string) (int, error)
	List(ctx context.Context) ([]domain.CollectionInfo, error)
	Delete(ctx context.Context, name string) error
}
