package handler

import (
	appinventory "github.com/glowstock/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// ItemHandler serves inventory item endpoints
type ItemHandler struct {
	BaseHandler
	service *appinventory.ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(service *appinventory.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// RegisterRoutes registers item routes
func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	{
		items.GET("", h.List)
		items.POST("", h.Create)
		items.GET("/:id", h.Get)
		items.PUT("/:id", h.Update)
		items.DELETE("/:id", h.Delete)
		items.POST("/:id/recalculate", h.RecalculatePricing)
		items.PUT("/:id/pricing", h.OverridePricing)
		items.POST("/:id/images", h.AddImage)
		items.POST("/:id/competitor-prices", h.AddCompetitorPrice)
	}
}

// List returns items, filterable by category and name search
func (h *ItemHandler) List(c *gin.Context) {
	items, err := h.service.ListItems(c.Request.Context(), c.Query("category"), c.Query("search"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Get returns one item
func (h *ItemHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.service.GetItem(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Create creates an item
func (h *ItemHandler) Create(c *gin.Context) {
	var req appinventory.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	item, err := h.service.CreateItem(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Update edits item metadata
func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req appinventory.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	item, err := h.service.UpdateItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete removes an item
func (h *ItemHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteItem(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RecalculatePricing re-derives the item's price band from landed cost
func (h *ItemHandler) RecalculatePricing(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.service.RecalculatePricing(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// OverridePricing sets a manual price band
func (h *ItemHandler) OverridePricing(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req appinventory.OverridePricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	item, err := h.service.OverridePricing(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// AddImage attaches an image to an item
func (h *ItemHandler) AddImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req appinventory.ItemImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	item, err := h.service.AddImage(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// AddCompetitorPrice records a competitor reference price
func (h *ItemHandler) AddCompetitorPrice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req appinventory.CompetitorPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	item, err := h.service.AddCompetitorPrice(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}
