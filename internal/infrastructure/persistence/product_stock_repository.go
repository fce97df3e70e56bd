package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldops/backend/internal/domain/inventory"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductStockRepository implements inventory.ProductStockRepository
// using GORM
type GormProductStockRepository struct {
	db *gorm.DB
}

// NewGormProductStockRepository creates a new GormProductStockRepository
func NewGormProductStockRepository(db *gorm.DB) *GormProductStockRepository {
	return &GormProductStockRepository{db: db}
}

// Save persists a new stock record
func (r *GormProductStockRepository) Save(ctx context.Context, stock *inventory.ProductStock) error {
	return r.db.WithContext(ctx).Create(stock).Error
}

// Update persists stock counter changes
func (r *GormProductStockRepository) Update(ctx context.Context, stock *inventory.ProductStock) error {
	return r.db.WithContext(ctx).Save(stock).Error
}

// FindByProduct finds the stock record for a product within a tenant
func (r *GormProductStockRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) (*inventory.ProductStock, error) {
	var stock inventory.ProductStock
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// FindByProductForUpdate finds the stock record with a row lock. Must be
// called inside a transaction; concurrent movements on the same product
// serialize on this lock.
func (r *GormProductStockRepository) FindByProductForUpdate(ctx context.Context, tenantID, productID uuid.UUID) (*inventory.ProductStock, error) {
	var stock inventory.ProductStock
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// List lists stock records within a tenant
func (r *GormProductStockRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*inventory.ProductStock], error) {
	query := r.db.WithContext(ctx).Model(&inventory.ProductStock{}).
		Where("tenant_id = ?", tenantID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, StockSortFields, "updated_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var stocks []*inventory.ProductStock
	if err := query.
		Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&stocks).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(stocks, total, page, pageSize)
	return &result, nil
}

var _ inventory.ProductStockRepository = (*GormProductStockRepository)(nil)
