package inventory

import (
	"fmt"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStock tracks the stock counters for one product in one tenant.
// Invariant: 0 <= Reserved <= OnHand at all times; every mutator checks it
// before writing.
type ProductStock struct {
	shared.TenantAggregateRoot
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	OnHand      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Reserved    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM.
func (ProductStock) TableName() string {
	return "product_stocks"
}

// NewProductStock creates an empty stock record for a product.
func NewProductStock(tenantID, productID uuid.UUID) (*ProductStock, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	return &ProductStock{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		OnHand:              decimal.Zero,
		Reserved:            decimal.Zero,
		MinQuantity:         decimal.Zero,
	}, nil
}

// Available returns the stock that is on hand and not reserved.
func (p *ProductStock) Available() decimal.Decimal {
	return p.OnHand.Sub(p.Reserved)
}

// SetMinQuantity sets the low-stock threshold.
func (p *ProductStock) SetMinQuantity(min decimal.Decimal) error {
	if min.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum quantity cannot be negative")
	}
	p.MinQuantity = min
	p.Touch()
	return nil
}

// Reserve earmarks available stock without removing it from hand.
func (p *ProductStock) Reserve(quantity decimal.Decimal) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	if quantity.GreaterThan(p.Available()) {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Cannot reserve %s of product %s: only %s available", quantity, p.ProductID, p.Available()))
	}
	p.Reserved = p.Reserved.Add(quantity)
	p.touch()
	return nil
}

// Release gives a reservation back without touching on-hand stock.
func (p *ProductStock) Release(quantity decimal.Decimal) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	if quantity.GreaterThan(p.Reserved) {
		return shared.NewDomainError("INVALID_MOVEMENT",
			fmt.Sprintf("Cannot release %s of product %s: only %s reserved", quantity, p.ProductID, p.Reserved))
	}
	p.Reserved = p.Reserved.Sub(quantity)
	p.touch()
	return nil
}

// Consume removes stock from hand. When fromReservation is true the same
// quantity is released from the reservation first, settling an earlier
// Reserve for the same source; otherwise the quantity must be available
// over and above existing reservations.
func (p *ProductStock) Consume(quantity decimal.Decimal, fromReservation bool) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}

	if fromReservation {
		if quantity.GreaterThan(p.Reserved) {
			return shared.NewDomainError("INVALID_MOVEMENT",
				fmt.Sprintf("Cannot settle %s of product %s: only %s reserved", quantity, p.ProductID, p.Reserved))
		}
		p.Reserved = p.Reserved.Sub(quantity)
	} else if quantity.GreaterThan(p.Available()) {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Cannot consume %s of product %s: only %s available", quantity, p.ProductID, p.Available()))
	}

	p.OnHand = p.OnHand.Sub(quantity)
	p.touch()

	if p.MinQuantity.IsPositive() && p.OnHand.LessThan(p.MinQuantity) {
		p.AddDomainEvent(NewStockBelowThresholdEvent(p))
	}

	return nil
}

// Return puts previously consumed stock back on hand.
func (p *ProductStock) Return(quantity decimal.Decimal) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	p.OnHand = p.OnHand.Add(quantity)
	p.touch()
	return nil
}

// Receive adds newly arrived stock on hand.
func (p *ProductStock) Receive(quantity decimal.Decimal) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	p.OnHand = p.OnHand.Add(quantity)
	p.touch()
	return nil
}

func (p *ProductStock) touch() {
	p.Touch()
	p.IncrementVersion()
}

func validateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return nil
}
