package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	inventoryapp "github.com/fieldops/backend/internal/application/inventory"
	"github.com/fieldops/backend/internal/interfaces/http/dto"
)

// InventoryHandler serves the stock and movement endpoints. Reservation,
// consumption and release are driven by status cascades and are not exposed
// here; only goods receipt and read operations have routes.
type InventoryHandler struct {
	BaseHandler
	service *inventoryapp.Service
}

// NewInventoryHandler creates an inventory handler
func NewInventoryHandler(service *inventoryapp.Service) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	{
		inv.POST("/receipts", h.Receive)
		inv.GET("/stocks", h.ListStock)
		inv.GET("/stocks/:productId", h.GetStock)
		inv.PUT("/stocks/:productId/min-quantity", h.SetMinQuantity)
		inv.GET("/stocks/:productId/movements", h.ListMovementsByProduct)
		inv.GET("/movements", h.ListMovementsByPeriod)
		inv.GET("/movements/by-source", h.ListMovementsBySource)
	}
}

// Receive handles POST /inventory/receipts
func (h *InventoryHandler) Receive(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	var req inventoryapp.ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	result, err := h.service.Receive(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// GetStock handles GET /inventory/stocks/:productId
func (h *InventoryHandler) GetStock(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	productID, ok := h.parseUUIDParam(c, "productId")
	if !ok {
		return
	}
	resp, err := h.service.GetStock(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListStock handles GET /inventory/stocks
func (h *InventoryHandler) ListStock(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	page, err := h.service.ListStock(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

type setMinQuantityRequest struct {
	MinQuantity decimal.Decimal `json:"min_quantity" binding:"required"`
}

// SetMinQuantity handles PUT /inventory/stocks/:productId/min-quantity
func (h *InventoryHandler) SetMinQuantity(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	productID, ok := h.parseUUIDParam(c, "productId")
	if !ok {
		return
	}
	var req setMinQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if err := h.service.SetMinQuantity(c.Request.Context(), tenantID, productID, req.MinQuantity); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// ListMovementsByProduct handles GET /inventory/stocks/:productId/movements
func (h *InventoryHandler) ListMovementsByProduct(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	productID, ok := h.parseUUIDParam(c, "productId")
	if !ok {
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	page, err := h.service.ListMovementsByProduct(c.Request.Context(), tenantID, productID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListMovementsBySource handles GET /inventory/movements/by-source
func (h *InventoryHandler) ListMovementsBySource(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	sourceType := c.Query("source_type")
	if sourceType == "" {
		h.ErrorWithCode(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "source_type is required")
		return
	}
	sourceID, err := uuid.Parse(c.Query("source_id"))
	if err != nil {
		h.ErrorWithCode(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "invalid source_id")
		return
	}
	resp, err := h.service.ListMovementsBySource(c.Request.Context(), tenantID, sourceType, sourceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListMovementsByPeriod handles GET /inventory/movements
func (h *InventoryHandler) ListMovementsByPeriod(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		h.ErrorWithCode(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "invalid from timestamp, expected RFC3339")
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		h.ErrorWithCode(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "invalid to timestamp, expected RFC3339")
		return
	}
	if to.Before(from) {
		h.ErrorWithCode(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "to must not be before from")
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	page, err := h.service.ListMovementsByPeriod(c.Request.Context(), tenantID, from, to, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
