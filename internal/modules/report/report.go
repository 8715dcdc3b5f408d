// Package report ingests work-time and application-usage reports sent by
// employee workstations and serves paginated listings for the admin panel.
package report

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/issa-plus/core/internal/models"
	"github.com/issa-plus/core/internal/modules/employee"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RetentionPeriod is how long raw reports are kept before the cleanup job
// removes them.
const RetentionPeriod = 90 * 24 * time.Hour

var ErrInvalid = errors.New("invalid report")

type Service struct {
	db        *gorm.DB
	employees *employee.Service
	log       *zap.Logger
}

func NewService(db *gorm.DB, employees *employee.Service, log *zap.Logger) *Service {
	return &Service{db: db, employees: employees, log: log}
}

// WorktimeEntry is one day of tracked time in an ingest batch.
type WorktimeEntry struct {
	Date    string `json:"date" binding:"required"`
	Minutes int    `json:"minutes"`
	Note    string `json:"note"`
}

// AppUsageEntry is per-application screen time in an ingest batch.
type AppUsageEntry struct {
	Date    string `json:"date" binding:"required"`
	AppName string `json:"appName" binding:"required"`
	Seconds int    `json:"seconds"`
}

// IngestWorktime upserts one row per (employee, day). A workstation resends
// the same day as the tracked total grows, so later batches overwrite.
func (s *Service) IngestWorktime(ctx context.Context, employeeID string, entries []WorktimeEntry) (int, error) {
	if _, err := s.employees.Get(ctx, employeeID); err != nil {
		return 0, err
	}

	accepted := 0
	for _, entry := range entries {
		day, err := parseDay(entry.Date)
		if err != nil {
			s.log.Warn("skipping worktime entry with bad date",
				zap.String("employee", employeeID), zap.String("date", entry.Date))
			continue
		}
		if entry.Minutes < 0 || entry.Minutes > 24*60 {
			continue
		}

		row := models.WorktimeReportModel{
			EmployeeID: employeeID,
			Date:       day,
			Minutes:    entry.Minutes,
			Note:       strings.TrimSpace(entry.Note),
		}
		err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"minutes", "note", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			return accepted, err
		}
		accepted++
	}
	return accepted, nil
}

// IngestAppUsage upserts one row per (employee, day, application).
func (s *Service) IngestAppUsage(ctx context.Context, employeeID string, entries []AppUsageEntry) (int, error) {
	if _, err := s.employees.Get(ctx, employeeID); err != nil {
		return 0, err
	}

	accepted := 0
	for _, entry := range entries {
		day, err := parseDay(entry.Date)
		if err != nil {
			s.log.Warn("skipping app usage entry with bad date",
				zap.String("employee", employeeID), zap.String("date", entry.Date))
			continue
		}
		name := strings.TrimSpace(entry.AppName)
		if name == "" || entry.Seconds < 0 || entry.Seconds > 24*3600 {
			continue
		}

		row := models.AppUsageReportModel{
			EmployeeID: employeeID,
			Date:       day,
			AppName:    name,
			Seconds:    entry.Seconds,
		}
		err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}, {Name: "app_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"seconds", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			return accepted, err
		}
		accepted++
	}
	return accepted, nil
}

// Filter narrows report listings.
type Filter struct {
	EmployeeID string
	From       *time.Time
	To         *time.Time
}

func (f Filter) apply(tx *gorm.DB) *gorm.DB {
	if f.EmployeeID != "" {
		tx = tx.Where("employee_id = ?", f.EmployeeID)
	}
	if f.From != nil {
		tx = tx.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		tx = tx.Where("date <= ?", *f.To)
	}
	return tx
}

func (s *Service) WorktimeQuery(ctx context.Context, f Filter) *gorm.DB {
	return f.apply(s.db.WithContext(ctx).Model(&models.WorktimeReportModel{})).
		Order("date DESC")
}

func (s *Service) AppUsageQuery(ctx context.Context, f Filter) *gorm.DB {
	return f.apply(s.db.WithContext(ctx).Model(&models.AppUsageReportModel{})).
		Order("date DESC, seconds DESC")
}

// WorktimeSummary sums tracked minutes per employee over a period.
func (s *Service) WorktimeSummary(ctx context.Context, f Filter) (map[string]int, error) {
	type row struct {
		EmployeeID string
		Total      int
	}
	var rows []row
	err := f.apply(s.db.WithContext(ctx).Model(&models.WorktimeReportModel{})).
		Select("employee_id", "SUM(minutes) AS total").
		Group("employee_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.EmployeeID] = r.Total
	}
	return out, nil
}

// Cleanup drops reports older than the retention period. Run from cron.
func (s *Service) Cleanup(ctx context.Context) error {
	cutoff := time.Now().Add(-RetentionPeriod)

	res := s.db.WithContext(ctx).Unscoped().
		Where("date < ?", cutoff).
		Delete(&models.WorktimeReportModel{})
	if res.Error != nil {
		return res.Error
	}
	removed := res.RowsAffected

	res = s.db.WithContext(ctx).Unscoped().
		Where("date < ?", cutoff).
		Delete(&models.AppUsageReportModel{})
	if res.Error != nil {
		return res.Error
	}
	removed += res.RowsAffected

	if removed > 0 {
		s.log.Info("expired reports removed", zap.Int64("count", removed))
	}
	return nil
}

func parseDay(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrInvalid
}
