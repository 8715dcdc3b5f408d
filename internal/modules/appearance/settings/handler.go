package settings

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/issa-plus/core/internal/config"
	"github.com/issa-plus/core/internal/modules/appearance/style"
	"github.com/issa-plus/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/appearance/title")
	g.GET("", h.get)
	g.GET("/surface", h.surface)

	a := g.Group("", authMW)
	a.PUT("", h.save)
	a.POST("/reset", h.reset)
}

func (h *Handler) get(c *gin.Context) {
	response.OK(c, h.svc.Load(c.Request.Context()))
}

// surface returns the fully composed presentation plan so any client renders
// the identical thing from the same persisted state.
func (h *Handler) surface(c *gin.Context) {
	s := h.svc.Load(c.Request.Context())

	seed := time.Now().YearDay() // stable within a day, varied across days
	owner := strings.TrimSpace(c.Query("owner"))
	response.OK(c, style.Compose(s, time.Now(), owner, int64(seed)))
}

func (h *Handler) save(c *gin.Context) {
	var dto config.TitleSettings
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	res, err := h.svc.Save(c.Request.Context(), dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, res)
}

func (h *Handler) reset(c *gin.Context) {
	def, err := h.svc.Reset(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, def)
}
