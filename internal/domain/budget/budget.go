package budget

import (
	"fmt"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a line item owned by a budget. ProductID is optional: only
// product-bearing items participate in stock accounting.
type Item struct {
	shared.BaseEntity
	BudgetID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID *uuid.UUID      `gorm:"type:uuid;index"`
	Name      string          `gorm:"type:varchar(255);not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitValue decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM.
func (Item) TableName() string {
	return "budget_items"
}

// NewItem creates a budget line item. Total is always quantity * unit value.
func NewItem(budgetID uuid.UUID, productID *uuid.UUID, name string, quantity, unitValue decimal.Decimal) (*Item, error) {
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
		BudgetID:   budgetID,
		ProductID:  productID,
		Name:       name,
		Quantity:   quantity,
		UnitValue:  unitValue,
		Total:      quantity.Mul(unitValue),
	}, nil
}

// UpdateQuantity updates the item quantity and recomputes the total.
func (i *Item) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.Quantity = quantity
	i.Total = quantity.Mul(i.UnitValue)
	i.Touch()
	return nil
}

// HasProduct reports whether the item references a stock-tracked product.
func (i *Item) HasProduct() bool {
	return i.ProductID != nil && *i.ProductID != uuid.Nil
}

// Budget is the aggregate root for a customer budget. Its status only moves
// through Transition, which consults the adjacency table.
type Budget struct {
	shared.TenantAggregateRoot
	Code         string `gorm:"type:varchar(50);not null;index"`
	CustomerID   uuid.UUID
	Items        []Item          `gorm:"foreignKey:BudgetID;references:ID;constraint:OnDelete:CASCADE"`
	Total        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status       Status          `gorm:"type:varchar(20);not null;index"`
	StatusSetAt  *time.Time
	CancelReason string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM.
func (Budget) TableName() string {
	return "budgets"
}

// New creates a budget in DRAFT status.
func New(tenantID uuid.UUID, code string, customerID uuid.UUID) (*Budget, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Budget code cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}

	b := &Budget{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		CustomerID:          customerID,
		Items:               make([]Item, 0),
		Total:               decimal.Zero,
		Status:              StatusDraft,
	}

	b.AddDomainEvent(NewCreatedEvent(b))

	return b, nil
}

// Transition moves the budget to the target status if the adjacency table
// permits it, emitting a BudgetStatusChanged event on success. It never
// touches services or stock; those side effects belong to the cascade
// coordinator reacting to the emitted event.
func (b *Budget) Transition(target Status, actorID *uuid.UUID) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown budget status %q", target))
	}
	if !b.Status.CanTransitionTo(target) {
		return shared.NewDomainError("ILLEGAL_TRANSITION",
			fmt.Sprintf("Budget cannot move from %s to %s", b.Status, target))
	}

	old := b.Status
	now := time.Now()
	b.Status = target
	b.StatusSetAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewStatusChangedEvent(b, old, target, actorID))

	return nil
}

// AddItem appends a line item and recomputes the total. Items may be added
// in any non-terminal status; accounting for items added after approval is
// the coordinator's concern, driven by the emitted event.
func (b *Budget) AddItem(productID *uuid.UUID, name string, quantity, unitValue decimal.Decimal) (*Item, error) {
	if b.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a finished budget")
	}

	item, err := NewItem(b.ID, productID, name, quantity, unitValue)
	if err != nil {
		return nil, err
	}

	b.Items = append(b.Items, *item)
	b.recalculateTotal()
	b.Touch()

	b.AddDomainEvent(NewItemAddedEvent(b, item))

	return item, nil
}

// RemoveItem removes a line item and recomputes the total.
func (b *Budget) RemoveItem(itemID uuid.UUID) error {
	if b.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a finished budget")
	}

	for idx, item := range b.Items {
		if item.ID == itemID {
			removed := item
			b.Items = append(b.Items[:idx], b.Items[idx+1:]...)
			b.recalculateTotal()
			b.Touch()
			b.AddDomainEvent(NewItemRemovedEvent(b, &removed))
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Budget item not found")
}

// UpdateItemQuantity updates the quantity of an existing item.
func (b *Budget) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if b.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a finished budget")
	}

	for idx := range b.Items {
		if b.Items[idx].ID == itemID {
			if err := b.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			b.recalculateTotal()
			b.Touch()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Budget item not found")
}

// GetItem returns an item by its ID, or nil.
func (b *Budget) GetItem(itemID uuid.UUID) *Item {
	for idx := range b.Items {
		if b.Items[idx].ID == itemID {
			return &b.Items[idx]
		}
	}
	return nil
}

// ProductItems returns the items that reference a stock-tracked product.
func (b *Budget) ProductItems() []Item {
	items := make([]Item, 0, len(b.Items))
	for _, item := range b.Items {
		if item.HasProduct() {
			items = append(items, item)
		}
	}
	return items
}

// recalculateTotal derives the budget total from its items. The total is
// never mutated independently.
func (b *Budget) recalculateTotal() {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.Total)
	}
	b.Total = total
}
