package inventory

import (
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeProductStock = "ProductStock"

// Event type constants
const (
	EventTypeStockBelowThreshold = "StockBelowThreshold"
)

// StockBelowThresholdEvent is raised when a consume drops on-hand stock
// below the configured minimum. Delivery of alerts is a subscriber concern.
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	OnHand      decimal.Decimal `json:"on_hand"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
}

// NewStockBelowThresholdEvent creates a new StockBelowThresholdEvent.
func NewStockBelowThresholdEvent(p *ProductStock) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, AggregateTypeProductStock, p.ID, p.TenantID),
		ProductID:       p.ProductID,
		OnHand:          p.OnHand,
		MinQuantity:     p.MinQuantity,
	}
}

// EventType returns the event type name.
func (e *StockBelowThresholdEvent) EventType() string {
	return EventTypeStockBelowThreshold
}
