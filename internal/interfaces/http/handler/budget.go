package handler

import (
	"github.com/gin-gonic/gin"

	budgetapp "github.com/fieldops/backend/internal/application/budget"
)

// BudgetHandler serves the budget endpoints
type BudgetHandler struct {
	BaseHandler
	service *budgetapp.Service
}

// NewBudgetHandler creates a budget handler
func NewBudgetHandler(service *budgetapp.Service) *BudgetHandler {
	return &BudgetHandler{service: service}
}

// RegisterRoutes registers all budget routes
func (h *BudgetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.Create)
		budgets.GET("", h.List)
		budgets.POST("/bulk-transition", h.BulkTransition)
		budgets.GET("/:id", h.Get)
		budgets.POST("/:id/transition", h.Transition)
		budgets.GET("/:id/transitions", h.AllowedTransitions)
		budgets.POST("/:id/items", h.AddItem)
		budgets.PATCH("/:id/items/:itemId", h.UpdateItemQuantity)
		budgets.DELETE("/:id/items/:itemId", h.RemoveItem)
	}
}

// Create handles POST /budgets
func (h *BudgetHandler) Create(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	var req budgetapp.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /budgets/:id
func (h *BudgetHandler) Get(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	budgetID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.Get(c.Request.Context(), tenantID, budgetID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /budgets
func (h *BudgetHandler) List(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	page, err := h.service.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Transition handles POST /budgets/:id/transition
func (h *BudgetHandler) Transition(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	budgetID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req budgetapp.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	status, err := h.service.Transition(c.Request.Context(), tenantID, budgetID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, gin.H{"id": budgetID, "status": status})
}

// BulkTransition handles POST /budgets/bulk-transition
func (h *BudgetHandler) BulkTransition(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	var req budgetapp.BulkTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	results := h.service.BulkTransition(c.Request.Context(), tenantID, req)
	h.Success(c, results)
}

// AllowedTransitions handles GET /budgets/:id/transitions
func (h *BudgetHandler) AllowedTransitions(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	budgetID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.Get(c.Request.Context(), tenantID, budgetID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, gin.H{
		"current": resp.Status,
		"allowed": h.service.AllowedTransitions(resp.Status),
	})
}

// AddItem handles POST /budgets/:id/items
func (h *BudgetHandler) AddItem(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	budgetID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req budgetapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.AddItem(c.Request.Context(), tenantID, budgetID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateItemQuantity handles PATCH /budgets/:id/items/:itemId
func (h *BudgetHandler) UpdateItemQuantity(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	budgetID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.parseUUIDParam(c, "itemId")
	if !ok {
		return
	}
	var req budgetapp.UpdateItemQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.UpdateItemQuantity(c.Request.Context(), tenantID, budgetID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveItem handles DELETE /budgets/:id/items/:itemId
func (h *BudgetHandler) RemoveItem(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	budgetID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.parseUUIDParam(c, "itemId")
	if !ok {
		return
	}
	resp, err := h.service.RemoveItem(c.Request.Context(), tenantID, budgetID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}
