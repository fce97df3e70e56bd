package cascade

import (
	"context"
	"fmt"

	inventoryapp "github.com/fieldops/backend/internal/application/inventory"
	"github.com/fieldops/backend/internal/domain/service"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceStatusChangedHandler applies the stock side of a service status
// change: preparing reserves, starting work consumes, cancelling gives the
// stock back. Each item is accounted for independently; a failure on one
// item is logged and the rest proceed, leaving the movement trail to show
// exactly which items were applied.
type ServiceStatusChangedHandler struct {
	ledger *inventoryapp.Service
	logger *zap.Logger
}

// NewServiceStatusChangedHandler creates a new handler for service status changes.
func NewServiceStatusChangedHandler(ledger *inventoryapp.Service, logger *zap.Logger) *ServiceStatusChangedHandler {
	return &ServiceStatusChangedHandler{
		ledger: ledger,
		logger: logger,
	}
}

// EventTypes returns the event types this handler is interested in.
func (h *ServiceStatusChangedHandler) EventTypes() []string {
	return []string{service.EventTypeServiceStatusChanged}
}

// Handle processes a ServiceStatusChanged event.
func (h *ServiceStatusChangedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	statusEvent, ok := event.(*service.StatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			service.EventTypeServiceStatusChanged, event.EventType())
	}

	action := stockActionFor(statusEvent.OldStatus, statusEvent.NewStatus)
	if action == stockNone || len(statusEvent.Items) == 0 {
		return nil
	}

	tenantID := statusEvent.TenantID()

	h.logger.Info("applying stock side of service status change",
		zap.String("service_id", statusEvent.ServiceID.String()),
		zap.String("old_status", statusEvent.OldStatus.String()),
		zap.String("new_status", statusEvent.NewStatus.String()),
		zap.Int("items_count", len(statusEvent.Items)),
	)

	for _, item := range statusEvent.Items {
		req := inventoryapp.MovementRequest{
			ProductID:  *item.ProductID,
			Quantity:   item.Quantity,
			SourceType: SourceTypeServiceItem,
			SourceID:   item.ItemID,
			ActorID:    statusEvent.ActorID,
		}

		var err error
		switch action {
		case stockReserve:
			req.Reason = fmt.Sprintf("service %s preparing", statusEvent.Code)
			_, err = h.ledger.Reserve(ctx, tenantID, req)
		case stockConsume:
			req.Reason = fmt.Sprintf("service %s started", statusEvent.Code)
			_, err = h.ledger.Consume(ctx, tenantID, req)
		case stockRelease:
			req.Reason = fmt.Sprintf("service %s cancelled", statusEvent.Code)
			_, err = h.ledger.Release(ctx, tenantID, req)
		case stockReturn:
			req.Reason = fmt.Sprintf("service %s cancelled", statusEvent.Code)
			_, err = h.ledger.Return(ctx, tenantID, req)
		case stockSettle:
			err = h.settle(ctx, tenantID, req, statusEvent.Code)
		}

		if err != nil {
			// Per-item isolation: the movement trail records what succeeded.
			h.logger.Warn("stock operation failed for service item",
				zap.String("service_id", statusEvent.ServiceID.String()),
				zap.String("item_id", item.ItemID.String()),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err),
			)
		}
	}

	return nil
}

// settle unwinds whatever the item's source still holds. The movement trail
// decides: a live reservation is released, consumed stock is returned, a
// source with neither needs nothing.
func (h *ServiceStatusChangedHandler) settle(ctx context.Context, tenantID uuid.UUID, req inventoryapp.MovementRequest, code string) error {
	state, err := h.ledger.StateOfSource(ctx, tenantID, req.ProductID, req.SourceType, req.SourceID)
	if err != nil {
		return err
	}

	switch {
	case state.HoldsReservation:
		req.Reason = fmt.Sprintf("service %s ended, reservation released", code)
		_, err = h.ledger.Release(ctx, tenantID, req)
	case state.HasConsumed:
		req.Reason = fmt.Sprintf("service %s ended, stock returned", code)
		_, err = h.ledger.Return(ctx, tenantID, req)
	}
	return err
}
