// Package collection exposes read and delete operations over ingested
// collections. Creation only happens through the upload workflow.
package collection

import (
	"context"
	"fmt"

	"github.com/crashlens/crashlens/internal/domain"
)

// Details pairs collection metadata with its live point count.
type Details struct {
	Info         domain.CollectionInfo
	VectorsCount int
}

// Service handles collection read and delete operations.
type Service struct {
	repo Repository
}

// New creates a collection service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get retrieves a collection and its point count.
func (s *Service) Get(ctx context.Context, name string) (Details, error) {
	info, err := s.repo.Get(ctx, name)
	if err != nil {
		return Details{}, fmt.Errorf("get collection: %w", err)
	}

	count, err := s.repo.Count(ctx, name)
	if err != nil {
		return Details{}, fmt.Errorf("count collection: %w", err)
	}

	return Details{Info: info, VectorsCount: count}, nil
}

// List returns all collections.
func (s *Service) List(ctx context.Context) ([]domain.CollectionInfo, error) {
	infos, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return infos, nil
}

// Delete removes a collection.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return nil
}
