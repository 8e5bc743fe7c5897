package model

import (
	"time"
)

// Reel 短视频学习内容
type Reel struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:200;not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	VideoURL      string    `gorm:"size:500;not null" json:"video_url"`
	ThumbnailURL  string    `gorm:"size:500" json:"thumbnail_url"`
	Level         string    `gorm:"size:30;index" json:"level"`
	Topic         string    `gorm:"size:30" json:"topic"`
	LikeCount     int       `gorm:"default:0" json:"like_count"`
	BookmarkCount int       `gorm:"default:0" json:"bookmark_count"`
	ViewCount     int       `gorm:"default:0" json:"view_count"`
	CreatedBy     int64     `gorm:"not null" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Reel) TableName() string {
	return "reels"
}
