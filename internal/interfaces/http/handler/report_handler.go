package handler

import (
	"net/http"
	"time"

	appreport "github.com/glowstock/backend/internal/application/report"
	"github.com/glowstock/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves report endpoints
type ReportHandler struct {
	BaseHandler
	service *appreport.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *appreport.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/sold-items", h.SoldItems)
		reports.GET("/sold-items.csv", h.SoldItemsCSV)
		reports.GET("/monthly", h.Monthly)
		reports.GET("/weekly", h.Weekly)
		reports.GET("/month-over-month", h.MonthOverMonth)
		reports.GET("/breakeven", h.BreakEven)
	}
}

// SoldItems returns the per-item sales aggregate for a window
func (h *ReportHandler) SoldItems(c *gin.Context) {
	var window dto.DateRangeRequest
	if err := c.ShouldBindQuery(&window); err != nil {
		h.BadRequest(c, "Invalid from/to parameters")
		return
	}
	rows, err := h.service.SoldItems(c.Request.Context(), window.From, window.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// SoldItemsCSV downloads the per-item sales aggregate as CSV
func (h *ReportHandler) SoldItemsCSV(c *gin.Context) {
	var window dto.DateRangeRequest
	if err := c.ShouldBindQuery(&window); err != nil {
		h.BadRequest(c, "Invalid from/to parameters")
		return
	}
	data, err := h.service.SoldItemsCSV(c.Request.Context(), window.From, window.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="sold-items.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// Monthly returns per-month sales and purchase totals
func (h *ReportHandler) Monthly(c *gin.Context) {
	buckets, err := h.service.Monthly(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, buckets)
}

// Weekly returns per-week sales totals
func (h *ReportHandler) Weekly(c *gin.Context) {
	buckets, err := h.service.Weekly(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, buckets)
}

// MonthOverMonth compares this month's sales against last month's
func (h *ReportHandler) MonthOverMonth(c *gin.Context) {
	report, err := h.service.MonthOverMonth(c.Request.Context(), time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// BreakEven returns the break-even analysis
func (h *ReportHandler) BreakEven(c *gin.Context) {
	report, err := h.service.BreakEven(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
