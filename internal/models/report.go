package models

import "time"

// WorktimeReportModel is a single day's tracked work time for an employee.
type WorktimeReportModel struct {
	Base
	EmployeeID string    `json:"employeeId" gorm:"uniqueIndex:uq_worktime_day;not null"`
	Date       time.Time `json:"date"       gorm:"uniqueIndex:uq_worktime_day;not null"`
	Minutes    int       `json:"minutes"    gorm:"not null"`
	Note       string    `json:"note"`
}

func (WorktimeReportModel) TableName() string { return "worktime_reports" }

// AppUsageReportModel is per-application usage time for one employee and day.
type AppUsageReportModel struct {
	Base
	EmployeeID string    `json:"employeeId" gorm:"uniqueIndex:uq_app_usage_day;not null"`
	Date       time.Time `json:"date"       gorm:"uniqueIndex:uq_app_usage_day;not null"`
	AppName    string    `json:"appName"    gorm:"uniqueIndex:uq_app_usage_day;size:191;not null"`
	Seconds    int       `json:"seconds"    gorm:"not null"`
}

func (AppUsageReportModel) TableName() string { return "app_usage_reports" }
