package handler

import (
	"github.com/gin-gonic/gin"

	serviceapp "github.com/fieldops/backend/internal/application/service"
)

// ServiceHandler serves the service order endpoints
type ServiceHandler struct {
	BaseHandler
	service *serviceapp.Service
}

// NewServiceHandler creates a service order handler
func NewServiceHandler(service *serviceapp.Service) *ServiceHandler {
	return &ServiceHandler{service: service}
}

// RegisterRoutes registers all service order routes
func (h *ServiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	services := rg.Group("/services")
	{
		services.POST("", h.Create)
		services.GET("", h.List)
		services.GET("/:id", h.Get)
		services.POST("/:id/transition", h.Transition)
		services.GET("/:id/transitions", h.AllowedTransitions)
		services.POST("/:id/schedule", h.Schedule)
		services.POST("/:id/items", h.AddItem)
		services.DELETE("/:id/items/:itemId", h.RemoveItem)
	}
	rg.GET("/budgets/:id/services", h.ListByBudget)
}

// Create handles POST /services
func (h *ServiceHandler) Create(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	var req serviceapp.CreateRequest
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

// Get handles GET /services/:id
func (h *ServiceHandler) Get(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	serviceID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.Get(c.Request.Context(), tenantID, serviceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /services
func (h *ServiceHandler) List(c *gin.Context) {
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

// ListByBudget handles GET /budgets/:id/services
func (h *ServiceHandler) ListByBudget(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	budgetID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.ListByBudget(c.Request.Context(), tenantID, budgetID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Transition handles POST /services/:id/transition
func (h *ServiceHandler) Transition(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	serviceID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req serviceapp.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	status, err := h.service.Transition(c.Request.Context(), tenantID, serviceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, gin.H{"id": serviceID, "status": status})
}

// AllowedTransitions handles GET /services/:id/transitions
func (h *ServiceHandler) AllowedTransitions(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	serviceID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.Get(c.Request.Context(), tenantID, serviceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, gin.H{
		"current": resp.Status,
		"allowed": h.service.AllowedTransitions(resp.Status),
	})
}

// Schedule handles POST /services/:id/schedule
func (h *ServiceHandler) Schedule(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	serviceID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req serviceapp.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.Schedule(c.Request.Context(), tenantID, serviceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddItem handles POST /services/:id/items
func (h *ServiceHandler) AddItem(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	serviceID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req serviceapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.AddItem(c.Request.Context(), tenantID, serviceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveItem handles DELETE /services/:id/items/:itemId
func (h *ServiceHandler) RemoveItem(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	serviceID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.parseUUIDParam(c, "itemId")
	if !ok {
		return
	}
	resp, err := h.service.RemoveItem(c.Request.Context(), tenantID, serviceID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}
