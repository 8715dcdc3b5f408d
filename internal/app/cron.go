package app

import (
	"context"
	"time"

	pkgcron "github.com/issa-plus/core/internal/pkg/cron"
	"go.uber.org/zap"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, deps *moduleSet, logger *zap.Logger) {
	cronLogger := logger.Named("cron")

	sched.Register(pkgcron.Job{
		Name:        "cleanup_reports",
		Description: "remove work-time and app-usage reports past retention",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			if err := deps.reportSvc.Cleanup(ctx); err != nil {
				cronLogger.Warn("report cleanup failed", zap.Error(err))
				return err
			}
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "cleanup_documents",
		Description: "remove uploaded document files with no database record",
		Interval:    12 * time.Hour,
		Fn: func(ctx context.Context) error {
			removed, err := deps.documentSvc.CleanupOrphans(ctx, time.Hour)
			if err != nil {
				cronLogger.Warn("document cleanup failed", zap.Error(err))
				return err
			}
			if removed > 0 {
				cronLogger.Info("orphaned document files removed", zap.Int("count", removed))
			}
			return nil
		},
	})
}
