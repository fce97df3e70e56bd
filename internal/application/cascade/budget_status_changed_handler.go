package cascade

import (
	"context"
	"fmt"

	inventoryapp "github.com/fieldops/backend/internal/application/inventory"
	serviceapp "github.com/fieldops/backend/internal/application/service"
	"github.com/fieldops/backend/internal/domain/budget"
	"github.com/fieldops/backend/internal/domain/inventory"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BudgetStatusChangedHandler drives the budget-to-service cascade. For each
// service owned by the budget it looks up the rule table and applies the
// derived transition through the service state machine, never by writing
// the status directly. One failing service does not stop the others.
type BudgetStatusChangedHandler struct {
	budgetRepo budget.Repository
	serviceApp *serviceapp.Service
	ledger     *inventoryapp.Service
	logger     *zap.Logger
}

// NewBudgetStatusChangedHandler creates a new handler for budget status changes.
func NewBudgetStatusChangedHandler(
	budgetRepo budget.Repository,
	serviceApp *serviceapp.Service,
	ledger *inventoryapp.Service,
	logger *zap.Logger,
) *BudgetStatusChangedHandler {
	return &BudgetStatusChangedHandler{
		budgetRepo: budgetRepo,
		serviceApp: serviceApp,
		ledger:     ledger,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in.
func (h *BudgetStatusChangedHandler) EventTypes() []string {
	return []string{budget.EventTypeBudgetStatusChanged}
}

// Handle processes a BudgetStatusChanged event.
func (h *BudgetStatusChangedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	statusEvent, ok := event.(*budget.StatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			budget.EventTypeBudgetStatusChanged, event.EventType())
	}

	tenantID := statusEvent.TenantID()

	h.logger.Info("cascading budget status change",
		zap.String("budget_id", statusEvent.BudgetID.String()),
		zap.String("old_status", statusEvent.OldStatus.String()),
		zap.String("new_status", statusEvent.NewStatus.String()),
	)

	services, err := h.serviceApp.ListByBudget(ctx, tenantID, statusEvent.BudgetID)
	if err != nil {
		return fmt.Errorf("failed to load services for budget %s: %w", statusEvent.BudgetID, err)
	}

	for _, svc := range services {
		target, ok := serviceTargetFor(statusEvent.NewStatus, svc.Status)
		if !ok {
			continue
		}
		if _, err := h.serviceApp.Transition(ctx, tenantID, svc.ID, serviceapp.TransitionRequest{
			Target:  target,
			ActorID: statusEvent.ActorID,
			Comment: fmt.Sprintf("budget %s moved to %s", statusEvent.Code, statusEvent.NewStatus),
		}); err != nil {
			// Per-service isolation: a failed derived transition is logged
			// and skipped so the remaining services still cascade.
			h.logger.Warn("derived service transition failed",
				zap.String("service_id", svc.ID.String()),
				zap.String("current_status", svc.Status.String()),
				zap.String("target_status", target.String()),
				zap.Error(err),
			)
		}
	}

	if statusEvent.NewStatus == budget.StatusCancelled {
		h.releaseBudgetReservations(ctx, statusEvent)
	}

	return nil
}

// releaseBudgetReservations gives back reservations held by the budget's
// own line items once the budget is cancelled. Only items with a live
// reservation in the movement trail are touched.
func (h *BudgetStatusChangedHandler) releaseBudgetReservations(ctx context.Context, statusEvent *budget.StatusChangedEvent) {
	tenantID := statusEvent.TenantID()

	b, err := h.budgetRepo.FindByID(ctx, tenantID, statusEvent.BudgetID)
	if err != nil {
		h.logger.Warn("failed to load cancelled budget for reservation cleanup",
			zap.String("budget_id", statusEvent.BudgetID.String()),
			zap.Error(err),
		)
		return
	}

	for _, item := range b.ProductItems() {
		if !h.holdsLiveReservation(ctx, tenantID, item.ID) {
			continue
		}
		if _, err := h.ledger.Release(ctx, tenantID, inventoryapp.MovementRequest{
			ProductID:  *item.ProductID,
			Quantity:   item.Quantity,
			SourceType: SourceTypeBudgetItem,
			SourceID:   item.ID,
			Reason:     "budget cancelled",
			ActorID:    statusEvent.ActorID,
		}); err != nil {
			h.logger.Warn("failed to release budget item reservation",
				zap.String("budget_id", b.ID.String()),
				zap.String("item_id", item.ID.String()),
				zap.Error(err),
			)
		}
	}
}

// holdsLiveReservation checks the movement trail for a RESERVE that no
// RELEASE or CONSUME has settled yet.
func (h *BudgetStatusChangedHandler) holdsLiveReservation(ctx context.Context, tenantID, itemID uuid.UUID) bool {
	movements, err := h.ledger.ListMovementsBySource(ctx, tenantID, SourceTypeBudgetItem, itemID)
	if err != nil {
		return false
	}
	reserved := false
	for _, m := range movements {
		switch inventory.MovementKind(m.Kind) {
		case inventory.MovementReserve:
			reserved = true
		case inventory.MovementRelease, inventory.MovementConsume:
			return false
		}
	}
	return reserved
}
