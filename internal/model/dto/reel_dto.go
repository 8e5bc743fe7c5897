package dto

import (
	"github.com/echomind/echomind_server/internal/model"
)

// ReelItem 带互动状态的 Reel
type ReelItem struct {
	*model.Reel
	Liked      bool `json:"liked"`
	Bookmarked bool `json:"bookmarked"`
}

// CreateReelRequest 新建 Reel 请求（管理员，multipart 表单字段）
type CreateReelRequest struct {
	Title       string `form:"title" binding:"required,max=200"`
	Description string `form:"description"`
	Level       string `form:"level" binding:"omitempty,oneof=beginner elementary intermediate upper-intermediate advanced"`
	Topic       string `form:"topic"`
}

// LikeResponse 点赞结果
type LikeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// BookmarkResponse 收藏结果
type BookmarkResponse struct {
	Bookmarked    bool `json:"bookmarked"`
	BookmarkCount int  `json:"bookmark_count"`
}
