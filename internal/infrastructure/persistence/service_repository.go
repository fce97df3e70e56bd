package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldops/backend/internal/domain/service"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormServiceRepository implements service.Repository using GORM
type GormServiceRepository struct {
	db *gorm.DB
}

// NewGormServiceRepository creates a new GormServiceRepository
func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

// Save persists a new service together with its items
func (r *GormServiceRepository) Save(ctx context.Context, svc *service.Service) error {
	return r.db.WithContext(ctx).Create(svc).Error
}

// Update persists service changes. Items are replaced wholesale so removed
// line items disappear from the table.
func (r *GormServiceRepository) Update(ctx context.Context, svc *service.Service) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_id = ?", svc.ID).Delete(&service.Item{}).Error; err != nil {
			return fmt.Errorf("failed to clear service items: %w", err)
		}
		if err := tx.Omit("Items").Save(svc).Error; err != nil {
			return err
		}
		if len(svc.Items) == 0 {
			return nil
		}
		return tx.Create(&svc.Items).Error
	})
}

// FindByID finds a service by ID within a tenant
func (r *GormServiceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*service.Service, error) {
	var svc service.Service
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&svc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &svc, nil
}

// FindByBudget lists the services owned by a budget
func (r *GormServiceRepository) FindByBudget(ctx context.Context, tenantID, budgetID uuid.UUID) ([]*service.Service, error) {
	var services []*service.Service
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND budget_id = ?", tenantID, budgetID).
		Order("created_at ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// FindByStatus lists services in the given status within a tenant
func (r *GormServiceRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status service.Status, filter shared.Filter) (*shared.Paginated[*service.Service], error) {
	query := r.db.WithContext(ctx).Model(&service.Service{}).
		Where("tenant_id = ? AND status = ?", tenantID, status)
	return r.paginate(query, filter)
}

// List lists all services within a tenant
func (r *GormServiceRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*service.Service], error) {
	query := r.db.WithContext(ctx).Model(&service.Service{}).
		Where("tenant_id = ?", tenantID)
	return r.paginate(query, filter)
}

// Delete removes a service and, via the FK constraint, its items
func (r *GormServiceRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&service.Service{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormServiceRepository) paginate(query *gorm.DB, filter shared.Filter) (*shared.Paginated[*service.Service], error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, ServiceSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var services []*service.Service
	if err := query.
		Preload("Items").
		Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&services).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(services, total, page, pageSize)
	return &result, nil
}

var _ service.Repository = (*GormServiceRepository)(nil)
