package models

import (
	"time"

	"gorm.io/datatypes"
)

// Account status values for User
const (
	AccountActive    = "Active"
	AccountSuspended = "Suspended"
)

// User represents a registered account
type User struct {
	UserID            uint64     `gorm:"primaryKey;autoIncrement" json:"userId"`
	Email             string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone             string     `gorm:"size:20;not null;uniqueIndex" json:"phone"`
	PasswordHash      string     `gorm:"size:255;not null" json:"-"`
	FullName          string     `gorm:"size:255;not null" json:"fullName"`
	DateOfBirth       string     `gorm:"size:10" json:"dateOfBirth"`
	Gender            string     `gorm:"size:20" json:"gender"`
	DisabilityStatus  string     `gorm:"size:50;not null;default:None" json:"disabilityStatus"`
	DisabilityDetails string     `gorm:"size:500" json:"disabilityDetails"`
	State             string     `gorm:"size:100" json:"state"`
	District          string     `gorm:"size:100" json:"district"`
	PreferredLanguage string     `gorm:"size:10;not null;default:en" json:"preferredLanguage"`
	FontSize          string     `gorm:"size:20;not null;default:medium" json:"fontSize"`
	ColorTheme        string     `gorm:"size:20;not null;default:light" json:"colorTheme"`
	VoiceEnabled      bool       `gorm:"not null;default:false" json:"voiceEnabled"`
	AccountStatus     string     `gorm:"size:20;not null;default:Active" json:"accountStatus"`
	RegisteredAt      time.Time  `gorm:"autoCreateTime" json:"registeredAt"`
	LastLogin         *time.Time `json:"lastLogin"`
}

// ActivityLog records account events such as registration
type ActivityLog struct {
	LogID           uint64         `gorm:"primaryKey;autoIncrement" json:"logId"`
	UserID          uint64         `gorm:"not null;index" json:"userId"`
	ActivityType    string         `gorm:"size:50;not null" json:"activityType"`
	ActivityDetails datatypes.JSON `json:"activityDetails"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for ActivityLog
func (ActivityLog) TableName() string {
	return "activity_log"
}
