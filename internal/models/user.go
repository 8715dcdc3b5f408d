package models

import "time"

// UserModel is a locally managed account (admin panel "local users").
// RDPGroups carries remote-desktop group memberships mirrored to the
// directory backend on a best-effort basis.
type UserModel struct {
	Base
	Username      string      `json:"username"    gorm:"uniqueIndex;not null"`
	DisplayName   string      `json:"displayName"`
	Description   string      `json:"description"`
	Password      string      `json:"-"           gorm:"not null"`
	IsAdmin       bool        `json:"isAdmin"`
	Enabled       bool        `json:"enabled"     gorm:"default:true"`
	RDPGroups     StringArray `json:"rdpGroups"   gorm:"type:longtext"`
	LastLoginTime *time.Time  `json:"lastLoginTime"`
	LastLoginIP   string      `json:"-"`
}

func (UserModel) TableName() string { return "users" }
