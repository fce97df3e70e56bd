package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldops/backend/internal/domain/budget"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBudgetRepository implements budget.Repository using GORM
type GormBudgetRepository struct {
	db *gorm.DB
}

// NewGormBudgetRepository creates a new GormBudgetRepository
func NewGormBudgetRepository(db *gorm.DB) *GormBudgetRepository {
	return &GormBudgetRepository{db: db}
}

// Save persists a new budget together with its items
func (r *GormBudgetRepository) Save(ctx context.Context, b *budget.Budget) error {
	return r.db.WithContext(ctx).Create(b).Error
}

// Update persists budget changes. Items are replaced wholesale so removed
// line items disappear from the table.
func (r *GormBudgetRepository) Update(ctx context.Context, b *budget.Budget) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("budget_id = ?", b.ID).Delete(&budget.Item{}).Error; err != nil {
			return fmt.Errorf("failed to clear budget items: %w", err)
		}
		if err := tx.Omit("Items").Save(b).Error; err != nil {
			return err
		}
		if len(b.Items) == 0 {
			return nil
		}
		return tx.Create(&b.Items).Error
	})
}

// FindByID finds a budget by ID within a tenant
func (r *GormBudgetRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*budget.Budget, error) {
	var b budget.Budget
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindByCode finds a budget by its business code within a tenant
func (r *GormBudgetRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*budget.Budget, error) {
	var b budget.Budget
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindByStatus lists budgets in the given status within a tenant
func (r *GormBudgetRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status budget.Status, filter shared.Filter) (*shared.Paginated[*budget.Budget], error) {
	query := r.db.WithContext(ctx).Model(&budget.Budget{}).
		Where("tenant_id = ? AND status = ?", tenantID, status)
	return r.paginate(query, filter)
}

// List lists all budgets within a tenant
func (r *GormBudgetRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*budget.Budget], error) {
	query := r.db.WithContext(ctx).Model(&budget.Budget{}).
		Where("tenant_id = ?", tenantID)
	return r.paginate(query, filter)
}

// Delete removes a budget and, via the FK constraint, its items
func (r *GormBudgetRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&budget.Budget{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormBudgetRepository) paginate(query *gorm.DB, filter shared.Filter) (*shared.Paginated[*budget.Budget], error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, BudgetSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var budgets []*budget.Budget
	if err := query.
		Preload("Items").
		Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&budgets).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(budgets, total, page, pageSize)
	return &result, nil
}

var _ budget.Repository = (*GormBudgetRepository)(nil)
