package models

// NotificationType categorizes in-app notifications
type NotificationType string

const (
	NotificationTypeSavePlanTargetReached NotificationType = "SAVE_PLAN_TARGET_REACHED"
)

// Notification is an in-app message addressed to a single user.
type Notification struct {
	Base
	UserID     string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Type       NotificationType `gorm:"size:48;not null" json:"type"`
	Title      string           `gorm:"not null" json:"title"`
	Message    string           `gorm:"not null" json:"message"`
	SavePlanID *string          `gorm:"type:uuid" json:"save_plan_id,omitempty"`
	IsRead     bool             `gorm:"not null;default:false" json:"is_read"`
}
