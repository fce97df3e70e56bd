package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fieldops/backend/internal/domain/inventory"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMovementRepository implements inventory.MovementRepository using GORM
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Create appends a movement to the ledger. A duplicate source key violates
// the unique index and surfaces as ErrAlreadyExists.
func (r *GormMovementRepository) Create(ctx context.Context, movement *inventory.Movement) error {
	if err := r.db.WithContext(ctx).Create(movement).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindBySource finds the movement recorded for a source key, if any
func (r *GormMovementRepository) FindBySource(ctx context.Context, tenantID, productID uuid.UUID, sourceType string, sourceID uuid.UUID, kind inventory.MovementKind) (*inventory.Movement, error) {
	var movement inventory.Movement
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND source_type = ? AND source_id = ? AND kind = ?",
			tenantID, productID, sourceType, sourceID, kind).
		First(&movement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// ListByProduct lists the movement trail for a product
func (r *GormMovementRepository) ListByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[*inventory.Movement], error) {
	query := r.db.WithContext(ctx).Model(&inventory.Movement{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID)
	return r.paginate(query, filter)
}

// ListBySource lists all movements recorded for a source entity
func (r *GormMovementRepository) ListBySource(ctx context.Context, tenantID uuid.UUID, sourceType string, sourceID uuid.UUID) ([]*inventory.Movement, error) {
	var movements []*inventory.Movement
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND source_type = ? AND source_id = ?", tenantID, sourceType, sourceID).
		Order("created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// ListByPeriod lists movements recorded within a time window
func (r *GormMovementRepository) ListByPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time, filter shared.Filter) (*shared.Paginated[*inventory.Movement], error) {
	query := r.db.WithContext(ctx).Model(&inventory.Movement{}).
		Where("tenant_id = ? AND created_at BETWEEN ? AND ?", tenantID, from, to)
	return r.paginate(query, filter)
}

func (r *GormMovementRepository) paginate(query *gorm.DB, filter shared.Filter) (*shared.Paginated[*inventory.Movement], error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, MovementSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var movements []*inventory.Movement
	if err := query.
		Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&movements).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(movements, total, page, pageSize)
	return &result, nil
}

// isUniqueViolation matches unique constraint errors across postgres and
// sqlite drivers where the gorm translator is not enabled.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
