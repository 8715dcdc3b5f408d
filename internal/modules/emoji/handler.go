package emoji

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/issa-plus/core/internal/middleware"
	"github.com/issa-plus/core/internal/pkg/response"
)

const maxEmojiUploadSize = 2 * 1024 * 1024

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/emoji")
	g.GET("", h.list)
	g.GET("/blacklist", h.blacklist)

	a := g.Group("", authMW)
	a.POST("", h.upload)
	a.DELETE("", h.delete)
	a.DELETE("/all", h.deleteAll)
	a.POST("/blacklist", h.hide)
	a.DELETE("/blacklist", h.unhide)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) upload(c *gin.Context) {
	name := c.PostForm("name")
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fh.Size > maxEmojiUploadSize {
		response.BadRequest(c, "emoji image too large")
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

	item, err := h.svc.Upload(c.Request.Context(), name, fh.Filename, data, middleware.CurrentUserID(c))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, item)
}

type deleteDTO struct {
	Name string `json:"name" binding:"required"`
	Src  string `json:"src" binding:"required"`
}

func (h *Handler) delete(c *gin.Context) {
	var dto deleteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.Delete(c.Request.Context(), dto.Name, dto.Src); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) deleteAll(c *gin.Context) {
	if err := h.svc.DeleteAll(c.Request.Context()); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) blacklist(c *gin.Context) {
	keys, err := h.svc.Blacklist(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, keys)
}

type blacklistDTO struct {
	Key string `json:"key" binding:"required"`
}

func (h *Handler) hide(c *gin.Context) {
	var dto blacklistDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.Hide(c.Request.Context(), dto.Key); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.NoContent(c)
}

func (h *Handler) unhide(c *gin.Context) {
	var dto blacklistDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.Unhide(c.Request.Context(), dto.Key); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.NoContent(c)
}
