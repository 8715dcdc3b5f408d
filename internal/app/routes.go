package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/issa-plus/core/internal/middleware"
	"github.com/issa-plus/core/internal/modules/gateway"
	"github.com/issa-plus/core/internal/modules/servertime"
	pkgredis "github.com/issa-plus/core/internal/pkg/redis"
)

func (a *App) registerRoutes(rc *pkgredis.Client, deps *moduleSet) {
	a.router.Static("/static", a.cfg.StaticDir())

	api := a.router.Group("/api")
	api.Use(middleware.RateLimit(rc.Raw()))

	authMW := middleware.Auth(a.db)
	adminMW := middleware.AdminOnly()

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": time.Since(processStart).Truncate(time.Second).String(),
		})
	})

	deps.settingsHandler.RegisterRoutes(api, authMW)
	deps.presetHandler.RegisterRoutes(api, authMW)
	deps.emojiHandler.RegisterRoutes(api, authMW)
	deps.employeeHandler.RegisterRoutes(api, authMW)
	deps.adminUserHandler.RegisterRoutes(api, authMW, adminMW)
	deps.documentHandler.RegisterRoutes(api, authMW)
	deps.greetingHandler.RegisterRoutes(api, authMW)
	deps.reportHandler.RegisterRoutes(api, authMW)

	servertime.RegisterRoutes(api)

	gateway.RegisterRoutes(&a.router.RouterGroup, deps.hub)
}

var processStart = time.Now()
