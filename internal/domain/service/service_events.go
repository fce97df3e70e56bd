package service

import (
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeService = "Service"

// Event type constants
const (
	EventTypeServiceCreated       = "ServiceCreated"
	EventTypeServiceStatusChanged = "ServiceStatusChanged"
	EventTypeServiceItemAdded     = "ServiceItemAdded"
	EventTypeServiceItemRemoved   = "ServiceItemRemoved"
)

// ItemInfo carries the line-item fields stock handlers need.
type ItemInfo struct {
	ItemID    uuid.UUID       `json:"item_id"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitValue decimal.Decimal `json:"unit_value"`
}

func itemInfo(item *Item) ItemInfo {
	return ItemInfo{
		ItemID:    item.ID,
		ProductID: item.ProductID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		UnitValue: item.UnitValue,
	}
}

func itemInfos(items []Item) []ItemInfo {
	infos := make([]ItemInfo, 0, len(items))
	for idx := range items {
		infos = append(infos, itemInfo(&items[idx]))
	}
	return infos
}

// CreatedEvent is raised when a new service order is created.
type CreatedEvent struct {
	shared.BaseDomainEvent
	ServiceID  uuid.UUID  `json:"service_id"`
	Code       string     `json:"code"`
	BudgetID   *uuid.UUID `json:"budget_id,omitempty"`
	CustomerID uuid.UUID  `json:"customer_id"`
}

// NewCreatedEvent creates a new CreatedEvent.
func NewCreatedEvent(s *Service) *CreatedEvent {
	return &CreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeServiceCreated, AggregateTypeService, s.ID, s.TenantID),
		ServiceID:       s.ID,
		Code:            s.Code,
		BudgetID:        s.BudgetID,
		CustomerID:      s.CustomerID,
	}
}

// EventType returns the event type name.
func (e *CreatedEvent) EventType() string {
	return EventTypeServiceCreated
}

// StatusChangedEvent is raised after a successful service status transition.
// It snapshots the product-bearing items so the stock handler works from the
// state the transition saw, not from a later reload.
type StatusChangedEvent struct {
	shared.BaseDomainEvent
	ServiceID uuid.UUID  `json:"service_id"`
	Code      string     `json:"code"`
	OldStatus Status     `json:"old_status"`
	NewStatus Status     `json:"new_status"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	Items     []ItemInfo `json:"items"`
}

// NewStatusChangedEvent creates a new StatusChangedEvent.
func NewStatusChangedEvent(s *Service, old, newStatus Status, actorID *uuid.UUID) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeServiceStatusChanged, AggregateTypeService, s.ID, s.TenantID),
		ServiceID:       s.ID,
		Code:            s.Code,
		OldStatus:       old,
		NewStatus:       newStatus,
		ActorID:         actorID,
		Items:           itemInfos(s.ProductItems()),
	}
}

// EventType returns the event type name.
func (e *StatusChangedEvent) EventType() string {
	return EventTypeServiceStatusChanged
}

// ItemAddedEvent is raised when a line item is added to a service. The
// service status rides along so items added to a running service can be
// consumed immediately.
type ItemAddedEvent struct {
	shared.BaseDomainEvent
	ServiceID     uuid.UUID `json:"service_id"`
	Code          string    `json:"code"`
	ServiceStatus Status    `json:"service_status"`
	Item          ItemInfo  `json:"item"`
}

// NewItemAddedEvent creates a new ItemAddedEvent.
func NewItemAddedEvent(s *Service, item *Item) *ItemAddedEvent {
	return &ItemAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeServiceItemAdded, AggregateTypeService, s.ID, s.TenantID),
		ServiceID:       s.ID,
		Code:            s.Code,
		ServiceStatus:   s.Status,
		Item:            itemInfo(item),
	}
}

// EventType returns the event type name.
func (e *ItemAddedEvent) EventType() string {
	return EventTypeServiceItemAdded
}

// ItemRemovedEvent is raised when a line item is removed from a service.
type ItemRemovedEvent struct {
	shared.BaseDomainEvent
	ServiceID     uuid.UUID `json:"service_id"`
	Code          string    `json:"code"`
	ServiceStatus Status    `json:"service_status"`
	Item          ItemInfo  `json:"item"`
}

// NewItemRemovedEvent creates a new ItemRemovedEvent.
func NewItemRemovedEvent(s *Service, item *Item) *ItemRemovedEvent {
	return &ItemRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeServiceItemRemoved, AggregateTypeService, s.ID, s.TenantID),
		ServiceID:       s.ID,
		Code:            s.Code,
		ServiceStatus:   s.Status,
		Item:            itemInfo(item),
	}
}

// EventType returns the event type name.
func (e *ItemRemovedEvent) EventType() string {
	return EventTypeServiceItemRemoved
}
