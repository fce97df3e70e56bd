package inventory

import (
	"context"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductStockRepository defines persistence operations for stock records.
type ProductStockRepository interface {
	Save(ctx context.Context, stock *ProductStock) error
	Update(ctx context.Context, stock *ProductStock) error
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) (*ProductStock, error)
	// FindByProductForUpdate loads the stock row under a pessimistic lock.
	// Only valid inside a transaction scope; the lock serializes concurrent
	// ledger operations on the same product.
	FindByProductForUpdate(ctx context.Context, tenantID, productID uuid.UUID) (*ProductStock, error)
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*ProductStock], error)
}

// MovementRepository defines persistence operations for the append-only
// movement log.
type MovementRepository interface {
	Create(ctx context.Context, movement *Movement) error
	// FindBySource returns the movement matching the idempotency key, or
	// shared.ErrNotFound.
	FindBySource(ctx context.Context, tenantID, productID uuid.UUID, sourceType string, sourceID uuid.UUID, kind MovementKind) (*Movement, error)
	ListByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Movement], error)
	ListBySource(ctx context.Context, tenantID uuid.UUID, sourceType string, sourceID uuid.UUID) ([]*Movement, error)
	ListByPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time, filter shared.Filter) (*shared.Paginated[*Movement], error)
}
