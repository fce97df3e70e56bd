package inventory

import (
	"time"

	"github.com/fieldops/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementRequest describes one ledger operation. SourceType and SourceID
// identify the business fact (a service, a budget item) that caused the
// movement; together with the kind they form the idempotency key.
type MovementRequest struct {
	ProductID  uuid.UUID       `json:"product_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	SourceType string          `json:"source_type" binding:"required"`
	SourceID   uuid.UUID       `json:"source_id" binding:"required"`
	Reason     string          `json:"reason"`
	ActorID    *uuid.UUID      `json:"actor_id,omitempty"`
}

// MovementResult reports the outcome of a ledger operation. Applied is
// false when the movement already existed and the call was a no-op.
type MovementResult struct {
	MovementID uuid.UUID `json:"movement_id"`
	Applied    bool      `json:"applied"`
}

// ReceiveRequest adds stock on hand, creating the stock record on first use.
type ReceiveRequest struct {
	ProductID  uuid.UUID       `json:"product_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	SourceType string          `json:"source_type" binding:"required"`
	SourceID   uuid.UUID       `json:"source_id" binding:"required"`
	Reason     string          `json:"reason"`
	ActorID    *uuid.UUID      `json:"actor_id,omitempty"`
}

// StockResponse is the read model for a product stock record.
type StockResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	OnHand      decimal.Decimal `json:"on_hand"`
	Reserved    decimal.Decimal `json:"reserved"`
	Available   decimal.Decimal `json:"available"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewStockResponse builds a StockResponse from a stock record.
func NewStockResponse(stock *inventory.ProductStock) *StockResponse {
	return &StockResponse{
		ProductID:   stock.ProductID,
		OnHand:      stock.OnHand,
		Reserved:    stock.Reserved,
		Available:   stock.Available(),
		MinQuantity: stock.MinQuantity,
		UpdatedAt:   stock.UpdatedAt,
	}
}

// MovementResponse is the read model for a ledger entry.
type MovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Kind          string          `json:"kind"`
	Quantity      decimal.Decimal `json:"quantity"`
	OnHandDelta   decimal.Decimal `json:"on_hand_delta"`
	ReservedDelta decimal.Decimal `json:"reserved_delta"`
	SourceType    string          `json:"source_type"`
	SourceID      uuid.UUID       `json:"source_id"`
	Reason        string          `json:"reason,omitempty"`
	ActorID       *uuid.UUID      `json:"actor_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewMovementResponse builds a MovementResponse from a movement record.
func NewMovementResponse(m *inventory.Movement) *MovementResponse {
	return &MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Kind:          m.Kind.String(),
		Quantity:      m.Quantity,
		OnHandDelta:   m.OnHandDelta,
		ReservedDelta: m.ReservedDelta,
		SourceType:    m.SourceType,
		SourceID:      m.SourceID,
		Reason:        m.Reason,
		ActorID:       m.ActorID,
		CreatedAt:     m.CreatedAt,
	}
}
