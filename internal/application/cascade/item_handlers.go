package cascade

import (
	"context"
	"fmt"

	inventoryapp "github.com/fieldops/backend/internal/application/inventory"
	"github.com/fieldops/backend/internal/domain/budget"
	"github.com/fieldops/backend/internal/domain/service"
	"github.com/fieldops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ServiceItemHandler accounts for line items added to or removed from a
// service that is already holding or consuming stock. Items on an idle
// service are left alone; the status-change handler picks them up later.
type ServiceItemHandler struct {
	ledger *inventoryapp.Service
	logger *zap.Logger
}

// NewServiceItemHandler creates a new handler for service item events.
func NewServiceItemHandler(ledger *inventoryapp.Service, logger *zap.Logger) *ServiceItemHandler {
	return &ServiceItemHandler{ledger: ledger, logger: logger}
}

// EventTypes returns the event types this handler is interested in.
func (h *ServiceItemHandler) EventTypes() []string {
	return []string{service.EventTypeServiceItemAdded, service.EventTypeServiceItemRemoved}
}

// Handle processes service item added/removed events.
func (h *ServiceItemHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch evt := event.(type) {
	case *service.ItemAddedEvent:
		return h.handleAdded(ctx, evt)
	case *service.ItemRemovedEvent:
		return h.handleRemoved(ctx, evt)
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}

func (h *ServiceItemHandler) handleAdded(ctx context.Context, evt *service.ItemAddedEvent) error {
	if evt.Item.ProductID == nil {
		return nil
	}

	req := inventoryapp.MovementRequest{
		ProductID:  *evt.Item.ProductID,
		Quantity:   evt.Item.Quantity,
		SourceType: SourceTypeServiceItem,
		SourceID:   evt.Item.ItemID,
	}

	var err error
	switch evt.ServiceStatus {
	case service.StatusPreparing:
		req.Reason = fmt.Sprintf("item added to preparing service %s", evt.Code)
		_, err = h.ledger.Reserve(ctx, evt.TenantID(), req)
	case service.StatusInProgress:
		req.Reason = fmt.Sprintf("item added to running service %s", evt.Code)
		_, err = h.ledger.Consume(ctx, evt.TenantID(), req)
	default:
		return nil
	}

	if err != nil {
		h.logger.Warn("stock operation failed for added service item",
			zap.String("service_id", evt.ServiceID.String()),
			zap.String("item_id", evt.Item.ItemID.String()),
			zap.Error(err),
		)
	}
	return err
}

func (h *ServiceItemHandler) handleRemoved(ctx context.Context, evt *service.ItemRemovedEvent) error {
	if evt.Item.ProductID == nil {
		return nil
	}

	req := inventoryapp.MovementRequest{
		ProductID:  *evt.Item.ProductID,
		Quantity:   evt.Item.Quantity,
		SourceType: SourceTypeServiceItem,
		SourceID:   evt.Item.ItemID,
	}

	var err error
	switch evt.ServiceStatus {
	case service.StatusPreparing:
		req.Reason = fmt.Sprintf("item removed from preparing service %s", evt.Code)
		_, err = h.ledger.Release(ctx, evt.TenantID(), req)
	case service.StatusInProgress:
		req.Reason = fmt.Sprintf("item removed from running service %s", evt.Code)
		_, err = h.ledger.Return(ctx, evt.TenantID(), req)
	default:
		return nil
	}

	if err != nil {
		h.logger.Warn("stock operation failed for removed service item",
			zap.String("service_id", evt.ServiceID.String()),
			zap.String("item_id", evt.Item.ItemID.String()),
			zap.Error(err),
		)
	}
	return err
}

// BudgetItemHandler reserves stock for items added to an approved budget
// and releases it again when they are removed.
type BudgetItemHandler struct {
	ledger *inventoryapp.Service
	logger *zap.Logger
}

// NewBudgetItemHandler creates a new handler for budget item events.
func NewBudgetItemHandler(ledger *inventoryapp.Service, logger *zap.Logger) *BudgetItemHandler {
	return &BudgetItemHandler{ledger: ledger, logger: logger}
}

// EventTypes returns the event types this handler is interested in.
func (h *BudgetItemHandler) EventTypes() []string {
	return []string{budget.EventTypeBudgetItemAdded, budget.EventTypeBudgetItemRemoved}
}

// Handle processes budget item added/removed events.
func (h *BudgetItemHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch evt := event.(type) {
	case *budget.ItemAddedEvent:
		if evt.Item.ProductID == nil || evt.BudgetStatus != budget.StatusApproved {
			return nil
		}
		_, err := h.ledger.Reserve(ctx, evt.TenantID(), inventoryapp.MovementRequest{
			ProductID:  *evt.Item.ProductID,
			Quantity:   evt.Item.Quantity,
			SourceType: SourceTypeBudgetItem,
			SourceID:   evt.Item.ItemID,
			Reason:     fmt.Sprintf("item added to approved budget %s", evt.Code),
		})
		if err != nil {
			h.logger.Warn("failed to reserve stock for budget item",
				zap.String("budget_id", evt.BudgetID.String()),
				zap.String("item_id", evt.Item.ItemID.String()),
				zap.Error(err),
			)
		}
		return err
	case *budget.ItemRemovedEvent:
		if evt.Item.ProductID == nil || evt.BudgetStatus != budget.StatusApproved {
			return nil
		}
		_, err := h.ledger.Release(ctx, evt.TenantID(), inventoryapp.MovementRequest{
			ProductID:  *evt.Item.ProductID,
			Quantity:   evt.Item.Quantity,
			SourceType: SourceTypeBudgetItem,
			SourceID:   evt.Item.ItemID,
			Reason:     fmt.Sprintf("item removed from approved budget %s", evt.Code),
		})
		if err != nil {
			h.logger.Warn("failed to release stock for budget item",
				zap.String("budget_id", evt.BudgetID.String()),
				zap.String("item_id", evt.Item.ItemID.String()),
				zap.Error(err),
			)
		}
		return err
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}
