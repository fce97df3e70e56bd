package service

import (
	"context"
	"fmt"

	"github.com/fieldops/backend/internal/domain/service"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Service handles service-order use cases. Status only moves through
// Transition; stock side effects are applied by the cascade coordinator
// reacting to the published ServiceStatusChanged event.
type Service struct {
	repo           service.Repository
	eventPublisher shared.EventPublisher
	audit          shared.AuditSink
}

// NewService creates a new service-order service.
func NewService(repo service.Repository, eventPublisher shared.EventPublisher, audit shared.AuditSink) *Service {
	return &Service{
		repo:           repo,
		eventPublisher: eventPublisher,
		audit:          audit,
	}
}

// Create creates a service order in DRAFT status.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req CreateRequest) (*Response, error) {
	svc, err := service.New(tenantID, req.Code, req.CustomerID, req.BudgetID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to save service: %w", err)
	}

	s.publishEvents(ctx, svc)

	return NewResponse(svc), nil
}

// Transition moves a service to the target status and publishes the
// ServiceStatusChanged event carrying the item snapshot.
func (s *Service) Transition(ctx context.Context, tenantID, serviceID uuid.UUID, req TransitionRequest) (service.Status, error) {
	svc, err := s.repo.FindByID(ctx, tenantID, serviceID)
	if err != nil {
		return "", err
	}

	old := svc.Status
	if err := svc.Transition(req.Target, req.ActorID); err != nil {
		return "", err
	}

	if err := s.repo.Update(ctx, svc); err != nil {
		return "", fmt.Errorf("failed to update service: %w", err)
	}

	s.publishEvents(ctx, svc)

	if s.audit != nil {
		s.audit.Record(ctx, shared.AuditEntry{
			TenantID:   tenantID,
			Action:     "service.status_changed",
			EntityType: service.AggregateTypeService,
			EntityID:   svc.ID,
			ActorID:    req.ActorID,
			OldValues:  map[string]interface{}{"status": old},
			NewValues:  map[string]interface{}{"status": svc.Status},
			Metadata:   map[string]interface{}{"comment": req.Comment, "code": svc.Code},
		})
	}

	return svc.Status, nil
}

// AllowedTransitions returns the statuses reachable from the given status.
func (s *Service) AllowedTransitions(current service.Status) []service.Status {
	return service.AllowedTransitions(current)
}

// Schedule records the planned execution time for a service.
func (s *Service) Schedule(ctx context.Context, tenantID, serviceID uuid.UUID, req ScheduleRequest) (*Response, error) {
	svc, err := s.repo.FindByID(ctx, tenantID, serviceID)
	if err != nil {
		return nil, err
	}

	if err := svc.Schedule(req.At); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}

	return NewResponse(svc), nil
}

// AddItem adds a line item. The emitted item event lets the coordinator
// reserve or consume stock for items added to a preparing or running service.
func (s *Service) AddItem(ctx context.Context, tenantID, serviceID uuid.UUID, req AddItemRequest) (*Response, error) {
	svc, err := s.repo.FindByID(ctx, tenantID, serviceID)
	if err != nil {
		return nil, err
	}

	if _, err := svc.AddItem(req.ProductID, req.Name, req.Quantity, req.UnitValue); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}

	s.publishEvents(ctx, svc)

	return NewResponse(svc), nil
}

// RemoveItem removes a line item.
func (s *Service) RemoveItem(ctx context.Context, tenantID, serviceID, itemID uuid.UUID) (*Response, error) {
	svc, err := s.repo.FindByID(ctx, tenantID, serviceID)
	if err != nil {
		return nil, err
	}

	if err := svc.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}

	s.publishEvents(ctx, svc)

	return NewResponse(svc), nil
}

// Get returns a service by ID.
func (s *Service) Get(ctx context.Context, tenantID, serviceID uuid.UUID) (*Response, error) {
	svc, err := s.repo.FindByID(ctx, tenantID, serviceID)
	if err != nil {
		return nil, err
	}
	return NewResponse(svc), nil
}

// ListByBudget returns the services owned by a budget.
func (s *Service) ListByBudget(ctx context.Context, tenantID, budgetID uuid.UUID) ([]*Response, error) {
	services, err := s.repo.FindByBudget(ctx, tenantID, budgetID)
	if err != nil {
		return nil, err
	}
	responses := make([]*Response, 0, len(services))
	for _, svc := range services {
		responses = append(responses, NewResponse(svc))
	}
	return responses, nil
}

// List returns services for a tenant.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Response], error) {
	page, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]*Response, 0, len(page.Items))
	for _, svc := range page.Items {
		responses = append(responses, NewResponse(svc))
	}
	out := shared.NewPaginated(responses, page.Total, page.Page, page.PageSize)
	return &out, nil
}

func (s *Service) publishEvents(ctx context.Context, svc *service.Service) {
	events := svc.GetDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	svc.ClearDomainEvents()
}
