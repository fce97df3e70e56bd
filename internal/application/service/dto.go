package service

import (
	"time"

	"github.com/fieldops/backend/internal/domain/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateRequest creates a new service order in DRAFT status. BudgetID is
// optional; standalone services are never touched by budget cascades.
type CreateRequest struct {
	Code       string     `json:"code" binding:"required"`
	CustomerID uuid.UUID  `json:"customer_id" binding:"required"`
	BudgetID   *uuid.UUID `json:"budget_id,omitempty"`
}

// TransitionRequest moves a service to a target status.
type TransitionRequest struct {
	Target  service.Status `json:"target" binding:"required"`
	ActorID *uuid.UUID     `json:"actor_id,omitempty"`
	Comment string         `json:"comment"`
}

// ScheduleRequest records the planned execution time.
type ScheduleRequest struct {
	At time.Time `json:"at" binding:"required"`
}

// AddItemRequest adds a line item to a service.
type AddItemRequest struct {
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Name      string          `json:"name" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitValue decimal.Decimal `json:"unit_value" binding:"required"`
}

// ItemResponse is the read model for a service line item.
type ItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitValue decimal.Decimal `json:"unit_value"`
	Total     decimal.Decimal `json:"total"`
}

// Response is the read model for a service order.
type Response struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"code"`
	BudgetID    *uuid.UUID      `json:"budget_id,omitempty"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Status      service.Status  `json:"status"`
	StatusSetAt *time.Time      `json:"status_set_at,omitempty"`
	ScheduledAt *time.Time      `json:"scheduled_at,omitempty"`
	Total       decimal.Decimal `json:"total"`
	Items       []ItemResponse  `json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewResponse builds a Response from a service aggregate.
func NewResponse(svc *service.Service) *Response {
	items := make([]ItemResponse, 0, len(svc.Items))
	for _, item := range svc.Items {
		items = append(items, ItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitValue: item.UnitValue,
			Total:     item.Total,
		})
	}
	return &Response{
		ID:          svc.ID,
		Code:        svc.Code,
		BudgetID:    svc.BudgetID,
		CustomerID:  svc.CustomerID,
		Status:      svc.Status,
		StatusSetAt: svc.StatusSetAt,
		ScheduledAt: svc.ScheduledAt,
		Total:       svc.Total,
		Items:       items,
		CreatedAt:   svc.CreatedAt,
		UpdatedAt:   svc.UpdatedAt,
	}
}
