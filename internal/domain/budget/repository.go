package budget

import (
	"context"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence operations for budget aggregates.
type Repository interface {
	Save(ctx context.Context, b *Budget) error
	Update(ctx context.Context, b *Budget) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Budget, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Budget, error)
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status Status, filter shared.Filter) (*shared.Paginated[*Budget], error)
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Budget], error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
