package document

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/issa-plus/core/internal/middleware"
	"github.com/issa-plus/core/internal/models"
	"github.com/issa-plus/core/internal/pkg/pagination"
	"github.com/issa-plus/core/internal/pkg/response"
	"gorm.io/gorm"
)

const maxDocumentUploadSize = 64 * 1024 * 1024

type Handler struct {
	db  *gorm.DB
	svc *Service
}

func NewHandler(db *gorm.DB, svc *Service) *Handler {
	return &Handler{db: db, svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/documents", authMW)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.upload)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	tx := h.db.Model(&models.DocumentModel{}).Order("created_at DESC")

	var docs []models.DocumentModel
	page, err := pagination.Paginate(tx, q, &docs)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, docs, page)
}

func (h *Handler) get(c *gin.Context) {
	doc, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, doc)
}

func (h *Handler) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fh.Size > maxDocumentUploadSize {
		response.BadRequest(c, "document too large")
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

	doc, err := h.svc.Upload(c.Request.Context(), c.PostForm("name"), fh.Filename, data, middleware.CurrentUserID(c))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, doc)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
