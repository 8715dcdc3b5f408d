package greeting

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/issa-plus/core/internal/middleware"
	"github.com/issa-plus/core/internal/modules/employee"
	"github.com/issa-plus/core/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/greetings", authMW)
	{
		g.GET("/templates", h.listTemplates)
		g.POST("/templates", h.createTemplate)
		g.GET("/templates/:id", h.getTemplate)
		g.PUT("/templates/:id", h.updateTemplate)
		g.DELETE("/templates/:id", h.deleteTemplate)

		g.POST("/preview", h.preview)
		g.POST("/generate", h.generate)
		g.GET("/tasks/:id", h.getTask)
		g.POST("/send", h.send)
		g.GET("/history", h.history)
	}
}

func (h *Handler) listTemplates(c *gin.Context) {
	items, err := h.service.ListTemplates(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

type templateRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
}

func (h *Handler) createTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "title is required")
		return
	}
	item, err := h.service.CreateTemplate(c.Request.Context(), req.Title, req.Body)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, item)
}

func (h *Handler) getTemplate(c *gin.Context) {
	item, err := h.service.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, item)
}

func (h *Handler) updateTemplate(c *gin.Context) {
	var req struct {
		Title *string `json:"title"`
		Body  *string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	item, err := h.service.UpdateTemplate(c.Request.Context(), c.Param("id"), req.Title, req.Body)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, item)
}

func (h *Handler) deleteTemplate(c *gin.Context) {
	if err := h.service.DeleteTemplate(c.Request.Context(), c.Param("id")); err != nil {
		h.renderError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) preview(c *gin.Context) {
	var req struct {
		TemplateID string `json:"templateId" binding:"required"`
		EmployeeID string `json:"employeeId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "templateId and employeeId are required")
		return
	}
	html, err := h.service.Preview(c.Request.Context(), req.TemplateID, req.EmployeeID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, gin.H{"html": html})
}

func (h *Handler) generate(c *gin.Context) {
	var req struct {
		EmployeeID string `json:"employeeId" binding:"required"`
		Occasion   string `json:"occasion"`
		Async      bool   `json:"async"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "employeeId is required")
		return
	}
	if req.Async {
		task, err := h.service.GenerateAsync(c.Request.Context(), req.EmployeeID, req.Occasion)
		if err != nil {
			h.renderError(c, err)
			return
		}
		response.OK(c, task)
		return
	}
	text, err := h.service.Generate(c.Request.Context(), req.EmployeeID, req.Occasion)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, gin.H{"text": text})
}

func (h *Handler) getTask(c *gin.Context) {
	task, err := h.service.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.NotFound(c)
		return
	}
	response.OK(c, task)
}

func (h *Handler) send(c *gin.Context) {
	var req struct {
		EmployeeID string `json:"employeeId" binding:"required"`
		Text       string `json:"text" binding:"required"`
		Source     string `json:"source"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "employeeId and text are required")
		return
	}
	item, err := h.service.Send(c.Request.Context(), req.EmployeeID, req.Text, middleware.CurrentUserID(c), req.Source)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Created(c, item)
}

func (h *Handler) history(c *gin.Context) {
	items, err := h.service.History(c.Request.Context(), c.Query("employeeId"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTemplateNotFound), errors.Is(err, employee.ErrNotFound):
		response.NotFoundMsg(c, err.Error())
	default:
		response.BadRequest(c, err.Error())
	}
}
