package app

import (
	"github.com/issa-plus/core/internal/config"
	"github.com/issa-plus/core/internal/middleware"
	"github.com/issa-plus/core/internal/modules/adminuser"
	"github.com/issa-plus/core/internal/modules/appearance/preset"
	"github.com/issa-plus/core/internal/modules/appearance/settings"
	"github.com/issa-plus/core/internal/modules/document"
	"github.com/issa-plus/core/internal/modules/emoji"
	"github.com/issa-plus/core/internal/modules/employee"
	"github.com/issa-plus/core/internal/modules/gateway"
	"github.com/issa-plus/core/internal/modules/greeting"
	"github.com/issa-plus/core/internal/modules/report"
	"github.com/issa-plus/core/internal/pkg/kv"
	pkgredis "github.com/issa-plus/core/internal/pkg/redis"
	"github.com/issa-plus/core/internal/pkg/s3store"
	"github.com/issa-plus/core/internal/pkg/taskqueue"
	"github.com/issa-plus/core/internal/pkg/uploads"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// moduleSet wires every module service and handler once, so routes and cron
// jobs share the same instances.
type moduleSet struct {
	hub             *gateway.Hub
	settingsChanges <-chan kv.Change
	settingsKey     string

	settingsSvc *settings.Service
	documentSvc *document.Service
	reportSvc   *report.Service

	settingsHandler  *settings.Handler
	presetHandler    *preset.Handler
	emojiHandler     *emoji.Handler
	employeeHandler  *employee.Handler
	adminUserHandler *adminuser.Handler
	documentHandler  *document.Handler
	greetingHandler  *greeting.Handler
	reportHandler    *report.Handler
}

func buildModules(cfg *config.AppConfig, db *gorm.DB, rc *pkgredis.Client, logger *zap.Logger) *moduleSet {
	store := kv.NewGormStore(db, kv.DefaultMaxValueSize)
	bus := kv.NewBus()
	saver := uploads.NewSaver(s3store.New(cfg.S3), cfg.StaticDir())
	tasks := taskqueue.NewService(rc)

	employeeSvc := employee.NewService(db, saver)
	hub := gateway.NewHub(rc, employeeSvc,
		func(token string) (string, error) { return middleware.ValidateToken(db, token) },
		func(token string) (string, error) { return middleware.ValidateAdminToken(db, token) },
		logger)
	changes, _ := bus.Subscribe()

	settingsSvc := settings.NewService(store, bus, logger)
	presetSvc := preset.NewService(store)
	emojiSvc := emoji.NewService(db, store, saver)
	adminUserSvc := adminuser.NewService(db, adminuser.NewRDPClient(cfg.RDP), logger)
	documentSvc := document.NewService(db, saver, cfg.StaticDir(), logger)
	greetingSvc := greeting.NewService(db, &cfg.AI, employeeSvc, tasks,
		func(event string, payload interface{}) { hub.Broadcast(event, payload, "") },
		logger)
	reportSvc := report.NewService(db, employeeSvc, logger)

	return &moduleSet{
		hub:             hub,
		settingsChanges: changes,
		settingsKey:     settings.SettingsKey,

		settingsSvc: settingsSvc,
		documentSvc: documentSvc,
		reportSvc:   reportSvc,

		settingsHandler:  settings.NewHandler(settingsSvc),
		presetHandler:    preset.NewHandler(presetSvc),
		emojiHandler:     emoji.NewHandler(emojiSvc),
		employeeHandler:  employee.NewHandler(db, employeeSvc),
		adminUserHandler: adminuser.NewHandler(adminUserSvc),
		documentHandler:  document.NewHandler(db, documentSvc),
		greetingHandler:  greeting.NewHandler(greetingSvc),
		reportHandler:    report.NewHandler(reportSvc),
	}
}
