package inventory

import (
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementKind classifies a stock movement.
type MovementKind string

const (
	MovementReserve MovementKind = "RESERVE"
	MovementRelease MovementKind = "RELEASE"
	MovementConsume MovementKind = "CONSUME"
	MovementReturn  MovementKind = "RETURN"
	MovementReceive MovementKind = "RECEIVE"
)

// IsValid checks if the movement kind is defined.
func (k MovementKind) IsValid() bool {
	switch k {
	case MovementReserve, MovementRelease, MovementConsume, MovementReturn, MovementReceive:
		return true
	}
	return false
}

// String returns the string representation of the kind.
func (k MovementKind) String() string {
	return string(k)
}

// Movement is an append-only record of one ledger operation. Rows are never
// updated or deleted. The unique key (tenant, product, source type, source
// id, kind) makes re-applying the same operation a no-op.
type Movement struct {
	shared.BaseEntity
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_movement_source,priority:1"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_movement_source,priority:2;index"`
	Kind          MovementKind    `gorm:"type:varchar(20);not null;uniqueIndex:idx_movement_source,priority:5"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OnHandDelta   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReservedDelta decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SourceType    string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_movement_source,priority:3"`
	SourceID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_movement_source,priority:4"`
	Reason        string          `gorm:"type:varchar(255)"`
	ActorID       *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM.
func (Movement) TableName() string {
	return "stock_movements"
}

// NewMovement creates a movement record. The counter deltas are supplied by
// the ledger so the row mirrors exactly what was applied to ProductStock.
func NewMovement(tenantID, productID uuid.UUID, kind MovementKind, quantity, onHandDelta, reservedDelta decimal.Decimal, sourceType string, sourceID uuid.UUID, reason string, actorID *uuid.UUID) (*Movement, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT", "Unknown movement kind")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if sourceType == "" || sourceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MOVEMENT", "Movement source reference is required")
	}

	return &Movement{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      tenantID,
		ProductID:     productID,
		Kind:          kind,
		Quantity:      quantity,
		OnHandDelta:   onHandDelta,
		ReservedDelta: reservedDelta,
		SourceType:    sourceType,
		SourceID:      sourceID,
		Reason:        reason,
		ActorID:       actorID,
	}, nil
}
