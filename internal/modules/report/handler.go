package report

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/issa-plus/core/internal/models"
	"github.com/issa-plus/core/internal/modules/employee"
	"github.com/issa-plus/core/internal/pkg/pagination"
	"github.com/issa-plus/core/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/reports", authMW)
	{
		g.POST("/worktime", h.ingestWorktime)
		g.GET("/worktime", h.listWorktime)
		g.GET("/worktime/summary", h.worktimeSummary)
		g.POST("/app-usage", h.ingestAppUsage)
		g.GET("/app-usage", h.listAppUsage)
	}
}

func (h *Handler) ingestWorktime(c *gin.Context) {
	var req struct {
		EmployeeID string          `json:"employeeId" binding:"required"`
		Entries    []WorktimeEntry `json:"entries" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "employeeId and entries are required")
		return
	}
	accepted, err := h.service.IngestWorktime(c.Request.Context(), req.EmployeeID, req.Entries)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, gin.H{"accepted": accepted})
}

func (h *Handler) ingestAppUsage(c *gin.Context) {
	var req struct {
		EmployeeID string          `json:"employeeId" binding:"required"`
		Entries    []AppUsageEntry `json:"entries" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "employeeId and entries are required")
		return
	}
	accepted, err := h.service.IngestAppUsage(c.Request.Context(), req.EmployeeID, req.Entries)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, gin.H{"accepted": accepted})
}

func (h *Handler) listWorktime(c *gin.Context) {
	q := pagination.FromContext(c)
	tx := h.service.WorktimeQuery(c.Request.Context(), filterFromQuery(c))

	var items []models.WorktimeReportModel
	page, err := pagination.Paginate(tx, q, &items)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, page)
}

func (h *Handler) listAppUsage(c *gin.Context) {
	q := pagination.FromContext(c)
	tx := h.service.AppUsageQuery(c.Request.Context(), filterFromQuery(c))

	var items []models.AppUsageReportModel
	page, err := pagination.Paginate(tx, q, &items)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, page)
}

func (h *Handler) worktimeSummary(c *gin.Context) {
	totals, err := h.service.WorktimeSummary(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, totals)
}

func filterFromQuery(c *gin.Context) Filter {
	f := Filter{EmployeeID: c.Query("employeeId")}
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.From = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.To = &t
		}
	}
	return f
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, employee.ErrNotFound):
		response.NotFoundMsg(c, "employee not found")
	case errors.Is(err, ErrInvalid):
		response.UnprocessableEntity(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
