package models

import "time"

// Notification types
const (
	NotificationTypeInfo    = "info"
	NotificationTypeSuccess = "success"
	NotificationTypeWarning = "warning"
)

type Notification struct {
	NotificationID string     `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	UserID         string     `gorm:"column:user_id;index" json:"user_id"`
	Title          string     `gorm:"column:title" json:"title"`
	Message        string     `gorm:"column:message" json:"message"`
	Type           string     `gorm:"column:type" json:"type"`
	RelatedCaseID  *string    `gorm:"column:related_case_id" json:"related_case_id,omitempty"`
	IsRead         bool       `gorm:"column:is_read" json:"is_read"`
	CreatedAt      time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      *time.Time `gorm:"column:updated_at" json:"-"`
}

func (Notification) TableName() string { return "notifications" }
