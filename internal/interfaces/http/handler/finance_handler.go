package handler

import (
	appfinance "github.com/glowstock/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// FinanceHandler serves transaction and revenue ledger endpoints
type FinanceHandler struct {
	BaseHandler
	service *appfinance.RevenueService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(service *appfinance.RevenueService) *FinanceHandler {
	return &FinanceHandler{service: service}
}

// RegisterRoutes registers transaction and ledger routes
func (h *FinanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.ListTransactions)
		transactions.POST("", h.CreateTransaction)
		transactions.DELETE("/:id", h.DeleteTransaction)
	}
	ledger := rg.Group("/ledger")
	{
		ledger.GET("/summary", h.Summary)
		ledger.GET("/withdrawals", h.ListWithdrawals)
	}
}

// ListTransactions returns all transactions
func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	transactions, err := h.service.ListTransactions(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transactions)
}

// CreateTransaction records a transaction
func (h *FinanceHandler) CreateTransaction(c *gin.Context) {
	var req appfinance.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	tx, err := h.service.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// DeleteTransaction removes a transaction and its linked withdrawals
func (h *FinanceHandler) DeleteTransaction(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteTransaction(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Summary returns the revenue ledger summary
func (h *FinanceHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// ListWithdrawals returns all revenue withdrawals
func (h *FinanceHandler) ListWithdrawals(c *gin.Context) {
	withdrawals, err := h.service.ListWithdrawals(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, withdrawals)
}
