package service

import (
	"context"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence operations for service aggregates.
type Repository interface {
	Save(ctx context.Context, s *Service) error
	Update(ctx context.Context, s *Service) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Service, error)
	FindByBudget(ctx context.Context, tenantID, budgetID uuid.UUID) ([]*Service, error)
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status Status, filter shared.Filter) (*shared.Paginated[*Service], error)
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Service], error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
