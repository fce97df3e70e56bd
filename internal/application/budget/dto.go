package budget

import (
	"time"

	"github.com/fieldops/backend/internal/domain/budget"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateRequest creates a new budget in DRAFT status.
type CreateRequest struct {
	Code       string    `json:"code" binding:"required"`
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
}

// TransitionRequest moves a budget to a target status.
type TransitionRequest struct {
	Target  budget.Status `json:"target" binding:"required"`
	ActorID *uuid.UUID    `json:"actor_id,omitempty"`
	Comment string        `json:"comment"`
}

// BulkTransitionRequest applies the same transition to many budgets.
type BulkTransitionRequest struct {
	BudgetIDs []uuid.UUID   `json:"budget_ids" binding:"required,min=1"`
	Target    budget.Status `json:"target" binding:"required"`
	ActorID   *uuid.UUID    `json:"actor_id,omitempty"`
	Comment   string        `json:"comment"`
}

// BulkTransitionResult is the per-budget outcome of a bulk transition.
type BulkTransitionResult struct {
	BudgetID uuid.UUID     `json:"budget_id"`
	Status   budget.Status `json:"status,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// AddItemRequest adds a line item to a budget.
type AddItemRequest struct {
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Name      string          `json:"name" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitValue decimal.Decimal `json:"unit_value" binding:"required"`
}

// UpdateItemQuantityRequest changes the quantity of an existing item.
type UpdateItemQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// ItemResponse is the read model for a budget line item.
type ItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitValue decimal.Decimal `json:"unit_value"`
	Total     decimal.Decimal `json:"total"`
}

// Response is the read model for a budget.
type Response struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"code"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Status      budget.Status   `json:"status"`
	StatusSetAt *time.Time      `json:"status_set_at,omitempty"`
	Total       decimal.Decimal `json:"total"`
	Items       []ItemResponse  `json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewResponse builds a Response from a budget aggregate.
func NewResponse(b *budget.Budget) *Response {
	items := make([]ItemResponse, 0, len(b.Items))
	for _, item := range b.Items {
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
		ID:          b.ID,
		Code:        b.Code,
		CustomerID:  b.CustomerID,
		Status:      b.Status,
		StatusSetAt: b.StatusSetAt,
		Total:       b.Total,
		Items:       items,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
