package service

import (
	"fmt"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a line item owned by a service order. ProductID is optional:
// only product-bearing items participate in stock accounting.
type Item struct {
	shared.BaseEntity
	ServiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID *uuid.UUID      `gorm:"type:uuid;index"`
	Name      string          `gorm:"type:varchar(255);not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitValue decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM.
func (Item) TableName() string {
	return "service_items"
}

// NewItem creates a service line item. Total is always quantity * unit value.
func NewItem(serviceID uuid.UUID, productID *uuid.UUID, name string, quantity, unitValue decimal.Decimal) (*Item, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitValue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_UNIT_VALUE", "Unit value cannot be negative")
	}

	return &Item{
		BaseEntity: shared.NewBaseEntity(),
		ServiceID:  serviceID,
		ProductID:  productID,
		Name:       name,
		Quantity:   quantity,
		UnitValue:  unitValue,
		Total:      quantity.Mul(unitValue),
	}, nil
}

// HasProduct reports whether the item references a stock-tracked product.
func (i *Item) HasProduct() bool {
	return i.ProductID != nil && *i.ProductID != uuid.Nil
}

// Service is the aggregate root for a field service order. BudgetID is
// nullable: standalone services exist and are never touched by budget
// cascades.
type Service struct {
	shared.TenantAggregateRoot
	Code        string     `gorm:"type:varchar(50);not null;index"`
	BudgetID    *uuid.UUID `gorm:"type:uuid;index"`
	CustomerID  uuid.UUID
	Items       []Item          `gorm:"foreignKey:ServiceID;references:ID;constraint:OnDelete:CASCADE"`
	Total       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status      Status          `gorm:"type:varchar(20);not null;index"`
	StatusSetAt *time.Time
	ScheduledAt *time.Time
}

// TableName returns the table name for GORM.
func (Service) TableName() string {
	return "services"
}

// New creates a service order in DRAFT status. budgetID may be nil for
// standalone services.
func New(tenantID uuid.UUID, code string, customerID uuid.UUID, budgetID *uuid.UUID) (*Service, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Service code cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}

	s := &Service{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		BudgetID:            budgetID,
		CustomerID:          customerID,
		Items:               make([]Item, 0),
		Total:               decimal.Zero,
		Status:              StatusDraft,
	}

	s.AddDomainEvent(NewCreatedEvent(s))

	return s, nil
}

// HasBudget reports whether the service is owned by a budget.
func (s *Service) HasBudget() bool {
	return s.BudgetID != nil && *s.BudgetID != uuid.Nil
}

// Transition moves the service to the target status if the adjacency table
// permits it, emitting a ServiceStatusChanged event on success. Stock side
// effects are not applied here; the cascade coordinator reacts to the event.
func (s *Service) Transition(target Status, actorID *uuid.UUID) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown service status %q", target))
	}
	if !s.Status.CanTransitionTo(target) {
		return shared.NewDomainError("ILLEGAL_TRANSITION",
			fmt.Sprintf("Service cannot move from %s to %s", s.Status, target))
	}

	old := s.Status
	now := time.Now()
	s.Status = target
	s.StatusSetAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewStatusChangedEvent(s, old, target, actorID))

	return nil
}

// Schedule records the planned execution time. Only meaningful before the
// work starts.
func (s *Service) Schedule(at time.Time) error {
	if s.Status.IsFinished() || s.Status == StatusInProgress {
		return shared.NewDomainError("INVALID_STATE", "Cannot reschedule a started or finished service")
	}
	s.ScheduledAt = &at
	s.Touch()
	return nil
}

// AddItem appends a line item and recomputes the total. The emitted event
// carries the service status so the coordinator can reserve or consume
// stock for items added mid-flight.
func (s *Service) AddItem(productID *uuid.UUID, name string, quantity, unitValue decimal.Decimal) (*Item, error) {
	if s.Status.IsFinished() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a finished service")
	}

	item, err := NewItem(s.ID, productID, name, quantity, unitValue)
	if err != nil {
		return nil, err
	}

	s.Items = append(s.Items, *item)
	s.recalculateTotal()
	s.Touch()

	s.AddDomainEvent(NewItemAddedEvent(s, item))

	return item, nil
}

// RemoveItem removes a line item and recomputes the total.
func (s *Service) RemoveItem(itemID uuid.UUID) error {
	if s.Status.IsFinished() {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a finished service")
	}

	for idx, item := range s.Items {
		if item.ID == itemID {
			removed := item
			s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
			s.recalculateTotal()
			s.Touch()
			s.AddDomainEvent(NewItemRemovedEvent(s, &removed))
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Service item not found")
}

// GetItem returns an item by its ID, or nil.
func (s *Service) GetItem(itemID uuid.UUID) *Item {
	for idx := range s.Items {
		if s.Items[idx].ID == itemID {
			return &s.Items[idx]
		}
	}
	return nil
}

// ProductItems returns the items that reference a stock-tracked product.
func (s *Service) ProductItems() []Item {
	items := make([]Item, 0, len(s.Items))
	for _, item := range s.Items {
		if item.HasProduct() {
			items = append(items, item)
		}
	}
	return items
}

// recalculateTotal derives the service total from its items.
func (s *Service) recalculateTotal() {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Total)
	}
	s.Total = total
}
