package handler

import (
	"io"
	"net/http"

	appbackup "github.com/glowstock/backend/internal/application/backup"
	"github.com/gin-gonic/gin"
)

// BackupHandler serves backup, settings and branch endpoints
type BackupHandler struct {
	BaseHandler
	service *appbackup.BackupService
}

// NewBackupHandler creates a new BackupHandler
func NewBackupHandler(service *appbackup.BackupService) *BackupHandler {
	return &BackupHandler{service: service}
}

// RegisterRoutes registers backup, settings and branch routes
func (h *BackupHandler) RegisterRoutes(rg *gin.RouterGroup) {
	backup := rg.Group("/backup")
	{
		backup.GET("/export", h.Export)
		backup.POST("/import", h.Import)
	}
	settings := rg.Group("/settings")
	{
		settings.GET("", h.GetSettings)
		settings.PUT("", h.UpdateSettings)
	}
	branches := rg.Group("/branches")
	{
		branches.GET("", h.ListBranches)
		branches.POST("", h.CreateBranch)
		branches.DELETE("/:id", h.DeleteBranch)
	}
}

// Export downloads the whole state as a JSON backup
func (h *BackupHandler) Export(c *gin.Context) {
	data, err := h.service.Export(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="glowstock-backup.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

// Import replaces the whole state with an uploaded backup
func (h *BackupHandler) Import(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}
	if err := h.service.Import(c.Request.Context(), data); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"imported": true})
}

// GetSettings returns the business defaults
func (h *BackupHandler) GetSettings(c *gin.Context) {
	settings, err := h.service.GetSettings(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// UpdateSettings changes the business defaults
func (h *BackupHandler) UpdateSettings(c *gin.Context) {
	var req appbackup.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	settings, err := h.service.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// branchRequest carries a branch name
type branchRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListBranches returns all branches
func (h *BackupHandler) ListBranches(c *gin.Context) {
	branches, err := h.service.ListBranches(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, branches)
}

// CreateBranch adds a branch
func (h *BackupHandler) CreateBranch(c *gin.Context) {
	var req branchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	branch, err := h.service.CreateBranch(c.Request.Context(), req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, branch)
}

// DeleteBranch removes a branch
func (h *BackupHandler) DeleteBranch(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteBranch(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
