package handler

import (
	apptrade "github.com/glowstock/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// SaleHandler serves sale endpoints
type SaleHandler struct {
	BaseHandler
	service *apptrade.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(service *apptrade.SaleService) *SaleHandler {
	return &SaleHandler{service: service}
}

// RegisterRoutes registers sale routes
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.GET("", h.List)
		sales.POST("", h.Create)
		sales.DELETE("/:id", h.Delete)
		sales.GET("/by-buyer", h.ByBuyer)
	}
}

// List returns all sales, newest first
func (h *SaleHandler) List(c *gin.Context) {
	sales, err := h.service.ListSales(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sales)
}

// Create records a sale
func (h *SaleHandler) Create(c *gin.Context) {
	var req apptrade.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	sale, err := h.service.CreateSale(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// Delete removes a sale and restores its stock
func (h *SaleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteSale(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ByBuyer returns sales grouped per buyer
func (h *SaleHandler) ByBuyer(c *gin.Context) {
	groups, err := h.service.SalesByBuyer(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, groups)
}
