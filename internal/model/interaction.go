package model

import (
	"time"
)

// Interaction 用户与 Reel 的互动（点赞/收藏）
type Interaction struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	ReelID    int64     `gorm:"not null;index" json:"reel_id"`
	Type      string    `gorm:"size:20;not null" json:"type"` // like, bookmark
	CreatedAt time.Time `json:"created_at"`
}

func (Interaction) TableName() string {
	return "interactions"
}

// 互动类型
const (
	InteractionLike     = "like"
	InteractionBookmark = "bookmark"
)
