package employee

import (
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/issa-plus/core/internal/models"
	"github.com/issa-plus/core/internal/pkg/pagination"
	"github.com/issa-plus/core/internal/pkg/response"
	"gorm.io/gorm"
)

const maxAvatarUploadSize = 8 * 1024 * 1024

type Handler struct {
	db  *gorm.DB
	svc *Service
}

func NewHandler(db *gorm.DB, svc *Service) *Handler {
	return &Handler{db: db, svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/employees", authMW)
	g.GET("", h.list)
	g.GET("/search", h.search)
	g.GET("/birthdays", h.birthdays)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.POST("/:id/avatar", h.uploadAvatar)
	g.PUT("/:id/role", h.setRole)
	g.PUT("/:id/department", h.setDepartment)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	tx := h.db.Model(&models.EmployeeModel{})
	if dep := c.Query("department"); dep != "" {
		tx = tx.Where("department = ?", dep)
	}
	tx = tx.Order("last_name ASC, first_name ASC")

	var items []models.EmployeeModel
	page, err := pagination.Paginate(tx, q, &items)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, page)
}

func (h *Handler) search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	items, err := h.svc.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		// A superseded keystroke query aborts; there is nobody to answer.
		if errors.Is(err, c.Request.Context().Err()) && c.Request.Context().Err() != nil {
			c.Abort()
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) birthdays(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	items, err := h.svc.UpcomingBirthdays(c.Request.Context(), time.Now(), days)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, item)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateInput
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	item, err := h.svc.Create(c.Request.Context(), dto)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Created(c, item)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateInput
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	item, err := h.svc.Update(c.Request.Context(), c.Param("id"), dto)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, item)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.renderError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) uploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fh.Size > maxAvatarUploadSize {
		response.BadRequest(c, "avatar image too large")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	item, err := h.svc.SetAvatar(c.Request.Context(), c.Param("id"), fh.Filename, data)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, item)
}

type setRoleDTO struct {
	Role string `json:"role" binding:"required"`
}

func (h *Handler) setRole(c *gin.Context) {
	var dto setRoleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	item, err := h.svc.SetRole(c.Request.Context(), c.Param("id"), dto.Role)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, item)
}

type setDepartmentDTO struct {
	Department string `json:"department"`
}

func (h *Handler) setDepartment(c *gin.Context) {
	var dto setDepartmentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	item, err := h.svc.SetDepartment(c.Request.Context(), c.Param("id"), dto.Department)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, item)
}

func (h *Handler) renderError(c *gin.Context, err error) {
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(c)
	case errors.As(err, &ve):
		response.UnprocessableEntity(c, ve.Error())
	default:
		response.InternalError(c, err)
	}
}
