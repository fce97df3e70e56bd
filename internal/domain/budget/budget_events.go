package budget

import (
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeBudget = "Budget"

// Event type constants
const (
	EventTypeBudgetCreated       = "BudgetCreated"
	EventTypeBudgetStatusChanged = "BudgetStatusChanged"
	EventTypeBudgetItemAdded     = "BudgetItemAdded"
	EventTypeBudgetItemRemoved   = "BudgetItemRemoved"
)

// CreatedEvent is raised when a new budget is created.
type CreatedEvent struct {
	shared.BaseDomainEvent
	BudgetID   uuid.UUID `json:"budget_id"`
	Code       string    `json:"code"`
	CustomerID uuid.UUID `json:"customer_id"`
}

// NewCreatedEvent creates a new CreatedEvent.
func NewCreatedEvent(b *Budget) *CreatedEvent {
	return &CreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBudgetCreated, AggregateTypeBudget, b.ID, b.TenantID),
		BudgetID:        b.ID,
		Code:            b.Code,
		CustomerID:      b.CustomerID,
	}
}

// EventType returns the event type name.
func (e *CreatedEvent) EventType() string {
	return EventTypeBudgetCreated
}

// StatusChangedEvent is raised after a successful budget status transition.
// The cascade coordinator derives service transitions from it; external
// subscribers (notifications) may consume it as well.
type StatusChangedEvent struct {
	shared.BaseDomainEvent
	BudgetID  uuid.UUID  `json:"budget_id"`
	Code      string     `json:"code"`
	OldStatus Status     `json:"old_status"`
	NewStatus Status     `json:"new_status"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
}

// NewStatusChangedEvent creates a new StatusChangedEvent.
func NewStatusChangedEvent(b *Budget, old, newStatus Status, actorID *uuid.UUID) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBudgetStatusChanged, AggregateTypeBudget, b.ID, b.TenantID),
		BudgetID:        b.ID,
		Code:            b.Code,
		OldStatus:       old,
		NewStatus:       newStatus,
		ActorID:         actorID,
	}
}

// EventType returns the event type name.
func (e *StatusChangedEvent) EventType() string {
	return EventTypeBudgetStatusChanged
}

// ItemInfo carries the line-item fields cascade handlers need.
type ItemInfo struct {
	ItemID    uuid.UUID       `json:"item_id"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitValue decimal.Decimal `json:"unit_value"`
}

// ItemAddedEvent is raised when a line item is added to a budget. The budget
// status at the time of the addition rides along so late additions to an
// approved budget can be reserved retroactively.
type ItemAddedEvent struct {
	shared.BaseDomainEvent
	BudgetID     uuid.UUID `json:"budget_id"`
	Code         string    `json:"code"`
	BudgetStatus Status    `json:"budget_status"`
	Item         ItemInfo  `json:"item"`
}

// NewItemAddedEvent creates a new ItemAddedEvent.
func NewItemAddedEvent(b *Budget, item *Item) *ItemAddedEvent {
	return &ItemAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBudgetItemAdded, AggregateTypeBudget, b.ID, b.TenantID),
		BudgetID:        b.ID,
		Code:            b.Code,
		BudgetStatus:    b.Status,
		Item: ItemInfo{
			ItemID:    item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitValue: item.UnitValue,
		},
	}
}

// EventType returns the event type name.
func (e *ItemAddedEvent) EventType() string {
	return EventTypeBudgetItemAdded
}

// ItemRemovedEvent is raised when a line item is removed from a budget.
type ItemRemovedEvent struct {
	shared.BaseDomainEvent
	BudgetID     uuid.UUID `json:"budget_id"`
	Code         string    `json:"code"`
	BudgetStatus Status    `json:"budget_status"`
	Item         ItemInfo  `json:"item"`
}

// NewItemRemovedEvent creates a new ItemRemovedEvent.
func NewItemRemovedEvent(b *Budget, item *Item) *ItemRemovedEvent {
	return &ItemRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBudgetItemRemoved, AggregateTypeBudget, b.ID, b.TenantID),
		BudgetID:        b.ID,
		Code:            b.Code,
		BudgetStatus:    b.Status,
		Item: ItemInfo{
			ItemID:    item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitValue: item.UnitValue,
		},
	}
}

// EventType returns the event type name.
func (e *ItemRemovedEvent) EventType() string {
	return EventTypeBudgetItemRemoved
}
