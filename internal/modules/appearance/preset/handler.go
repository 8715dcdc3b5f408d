package preset

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/issa-plus/core/internal/config"
	"github.com/issa-plus/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/appearance/presets")
	g.GET("", h.list)

	a := g.Group("", authMW)
	a.PUT("", h.save)
	a.DELETE("/:id", h.delete)
	a.POST("/:id/apply", h.apply)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

type saveDTO struct {
	ID        string    `json:"id" binding:"required"`
	Name      string    `json:"name" binding:"required"`
	Settings  Style     `json:"settings"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *Handler) save(c *gin.Context) {
	var dto saveDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.svc.Save(c.Request.Context(), Preset{
		ID:        dto.ID,
		Name:      dto.Name,
		Settings:  dto.Settings,
		CreatedAt: dto.CreatedAt,
	})
	if err != nil {
		if errors.Is(err, ErrInvalid) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, p)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// apply merges a stored preset over the draft in the request body and
// returns the merged draft. Nothing is persisted; saving stays an explicit,
// separate action.
func (h *Handler) apply(c *gin.Context) {
	var draft config.TitleSettings
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, p.Apply(draft))
}
