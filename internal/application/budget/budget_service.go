package budget

import (
	"context"
	"fmt"

	"github.com/fieldops/backend/internal/domain/budget"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Service handles budget use cases. Status only moves through Transition,
// which delegates legality to the aggregate's adjacency table. Every
// successful mutation publishes the aggregate's pending events; the cascade
// coordinator and external subscribers react to them.
type Service struct {
	repo           budget.Repository
	eventPublisher shared.EventPublisher
	audit          shared.AuditSink
}

// NewService creates a new budget service.
func NewService(repo budget.Repository, eventPublisher shared.EventPublisher, audit shared.AuditSink) *Service {
	return &Service{
		repo:           repo,
		eventPublisher: eventPublisher,
		audit:          audit,
	}
}

// Create creates a budget in DRAFT status.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req CreateRequest) (*Response, error) {
	b, err := budget.New(tenantID, req.Code, req.CustomerID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}

	s.publishEvents(ctx, b)

	return NewResponse(b), nil
}

// Transition moves a budget to the target status. On success the new status
// is returned and a BudgetStatusChanged event is published; the cascade to
// owned services happens in the coordinator subscribed to that event.
func (s *Service) Transition(ctx context.Context, tenantID, budgetID uuid.UUID, req TransitionRequest) (budget.Status, error) {
	b, err := s.repo.FindByID(ctx, tenantID, budgetID)
	if err != nil {
		return "", err
	}

	old := b.Status
	if err := b.Transition(req.Target, req.ActorID); err != nil {
		return "", err
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return "", fmt.Errorf("failed to update budget: %w", err)
	}

	s.publishEvents(ctx, b)

	if s.audit != nil {
		s.audit.Record(ctx, shared.AuditEntry{
			TenantID:   tenantID,
			Action:     "budget.status_changed",
			EntityType: budget.AggregateTypeBudget,
			EntityID:   b.ID,
			ActorID:    req.ActorID,
			OldValues:  map[string]interface{}{"status": old},
			NewValues:  map[string]interface{}{"status": b.Status},
			Metadata:   map[string]interface{}{"comment": req.Comment, "code": b.Code},
		})
	}

	return b.Status, nil
}

// BulkTransition applies the same transition to each budget, collecting
// per-budget results. One illegal transition does not stop the rest.
func (s *Service) BulkTransition(ctx context.Context, tenantID uuid.UUID, req BulkTransitionRequest) []BulkTransitionResult {
	results := make([]BulkTransitionResult, 0, len(req.BudgetIDs))
	for _, id := range req.BudgetIDs {
		status, err := s.Transition(ctx, tenantID, id, TransitionRequest{
			Target:  req.Target,
			ActorID: req.ActorID,
			Comment: req.Comment,
		})
		result := BulkTransitionResult{BudgetID: id}
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Status = status
		}
		results = append(results, result)
	}
	return results
}

// AllowedTransitions returns the statuses reachable from the given status.
func (s *Service) AllowedTransitions(current budget.Status) []budget.Status {
	return budget.AllowedTransitions(current)
}

// AddItem adds a line item to a budget. The emitted item event lets the
// coordinator reserve stock for items added to an approved budget.
func (s *Service) AddItem(ctx context.Context, tenantID, budgetID uuid.UUID, req AddItemRequest) (*Response, error) {
	b, err := s.repo.FindByID(ctx, tenantID, budgetID)
	if err != nil {
		return nil, err
	}

	if _, err := b.AddItem(req.ProductID, req.Name, req.Quantity, req.UnitValue); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}

	s.publishEvents(ctx, b)

	return NewResponse(b), nil
}

// RemoveItem removes a line item from a budget.
func (s *Service) RemoveItem(ctx context.Context, tenantID, budgetID, itemID uuid.UUID) (*Response, error) {
	b, err := s.repo.FindByID(ctx, tenantID, budgetID)
	if err != nil {
		return nil, err
	}

	if err := b.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}

	s.publishEvents(ctx, b)

	return NewResponse(b), nil
}

// UpdateItemQuantity changes the quantity of an existing item.
func (s *Service) UpdateItemQuantity(ctx context.Context, tenantID, budgetID, itemID uuid.UUID, req UpdateItemQuantityRequest) (*Response, error) {
	b, err := s.repo.FindByID(ctx, tenantID, budgetID)
	if err != nil {
		return nil, err
	}

	if err := b.UpdateItemQuantity(itemID, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}

	s.publishEvents(ctx, b)

	return NewResponse(b), nil
}

// Get returns a budget by ID.
func (s *Service) Get(ctx context.Context, tenantID, budgetID uuid.UUID) (*Response, error) {
	b, err := s.repo.FindByID(ctx, tenantID, budgetID)
	if err != nil {
		return nil, err
	}
	return NewResponse(b), nil
}

// List returns budgets for a tenant.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Response], error) {
	page, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]*Response, 0, len(page.Items))
	for _, b := range page.Items {
		responses = append(responses, NewResponse(b))
	}
	out := shared.NewPaginated(responses, page.Total, page.Page, page.PageSize)
	return &out, nil
}

// publishEvents publishes and clears the aggregate's pending events. The
// subscribed handlers run synchronously; their failures are isolated by the
// bus, not propagated here.
func (s *Service) publishEvents(ctx context.Context, b *budget.Budget) {
	events := b.GetDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	b.ClearDomainEvents()
}
