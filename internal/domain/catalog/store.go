package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence contract for the service catalog
type Store interface {
	List(ctx context.Context) ([]Service, error)
	ListActive(ctx context.Context) ([]Service, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Service, error)
	Create(ctx context.Context, s *Service) error
	Update(ctx context.Context, s *Service) error
	Delete(ctx context.Context, id uuid.UUID) error
}
