package model

import (
	"time"
)

// Notification 通知内容（管理员创建，worker 负责扇出）
type Notification struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Type      string    `gorm:"size:30;default:system" json:"type"` // system, practice_reminder, achievement
	CreatedBy int64     `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// UserNotification 用户收件箱记录
type UserNotification struct {
	ID             int64         `gorm:"primaryKey" json:"id"`
	UserID         int64         `gorm:"not null;index" json:"user_id"`
	NotificationID int64         `gorm:"not null;index" json:"notification_id"`
	Notification   *Notification `gorm:"foreignKey:NotificationID" json:"notification,omitempty"`
	ReadAt         *time.Time    `json:"read_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

func (UserNotification) TableName() string {
	return "user_notifications"
}
