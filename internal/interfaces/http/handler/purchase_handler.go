package handler

import (
	apptrade "github.com/glowstock/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// PurchaseHandler serves purchase endpoints
type PurchaseHandler struct {
	BaseHandler
	service *apptrade.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(service *apptrade.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{service: service}
}

// RegisterRoutes registers purchase routes
func (h *PurchaseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	purchases := rg.Group("/purchases")
	{
		purchases.GET("", h.List)
		purchases.POST("", h.Create)
		purchases.POST("/preview", h.Preview)
		purchases.PUT("/:id", h.Update)
		purchases.DELETE("/:id", h.Delete)
	}
}

// List returns all purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	purchases, err := h.service.ListPurchases(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchases)
}

// Create records a purchase
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req apptrade.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	purchase, err := h.service.CreatePurchase(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, purchase)
}

// Preview returns the allocated lines without persisting anything
func (h *PurchaseHandler) Preview(c *gin.Context) {
	var req apptrade.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	lines, err := h.service.PreviewAllocation(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lines)
}

// Update edits a purchase
func (h *PurchaseHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req apptrade.UpdatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	purchase, err := h.service.UpdatePurchase(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchase)
}

// Delete removes a purchase
func (h *PurchaseHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeletePurchase(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
