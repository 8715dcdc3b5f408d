package adminuser

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/issa-plus/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts login publicly; everything else requires an admin.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	rg.POST("/login", h.login)

	g := rg.Group("/admin/users", authMW, adminMW)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id/username", h.rename)
	g.PUT("/:id/description", h.setDescription)
	g.PUT("/:id/password", h.setPassword)
	g.PUT("/:id/role", h.setRole)
	g.PUT("/:id/rdp-groups", h.setRDPGroups)
	g.POST("/:id/enable", h.enable)
	g.POST("/:id/disable", h.disable)
	g.DELETE("/:id", h.delete)
}

type loginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var dto loginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, u, err := h.svc.Login(c.Request.Context(), dto.Username, dto.Password, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrWrongPassword):
			response.BadRequest(c, "invalid username or password")
		case errors.Is(err, ErrDisabled):
			response.ForbiddenMsg(c, "account is disabled")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, gin.H{"token": token, "user": u})
}

func (h *Handler) list(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, users)
}

func (h *Handler) get(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, u)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateInput
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Create(c.Request.Context(), dto)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Created(c, u)
}

type renameDTO struct {
	Username string `json:"username" binding:"required"`
}

func (h *Handler) rename(c *gin.Context) {
	var dto renameDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Rename(c.Request.Context(), c.Param("id"), dto.Username)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, u)
}

type descriptionDTO struct {
	Description string `json:"description"`
}

func (h *Handler) setDescription(c *gin.Context) {
	var dto descriptionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.SetDescription(c.Request.Context(), c.Param("id"), dto.Description)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, u)
}

type passwordDTO struct {
	Password string `json:"password" binding:"required"`
}

func (h *Handler) setPassword(c *gin.Context) {
	var dto passwordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.SetPassword(c.Request.Context(), c.Param("id"), dto.Password); err != nil {
		h.renderError(c, err)
		return
	}
	response.NoContent(c)
}

type roleDTO struct {
	IsAdmin bool `json:"isAdmin"`
}

func (h *Handler) setRole(c *gin.Context) {
	var dto roleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.SetAdmin(c.Request.Context(), c.Param("id"), dto.IsAdmin)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, u)
}

type rdpGroupsDTO struct {
	Groups []string `json:"groups"`
}

func (h *Handler) setRDPGroups(c *gin.Context) {
	var dto rdpGroupsDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.SetRDPGroups(c.Request.Context(), c.Param("id"), dto.Groups)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, u)
}

func (h *Handler) enable(c *gin.Context) {
	u, err := h.svc.SetEnabled(c.Request.Context(), c.Param("id"), true)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, u)
}

func (h *Handler) disable(c *gin.Context) {
	u, err := h.svc.SetEnabled(c.Request.Context(), c.Param("id"), false)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, u)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.renderError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(c)
	case errors.Is(err, ErrUsernameTaken):
		response.Conflict(c, err.Error())
	case errors.Is(err, ErrMissingField), errors.Is(err, ErrWeakPassword):
		response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, ErrLastAdmin):
		response.ForbiddenMsg(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
