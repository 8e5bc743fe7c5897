package dto

// BroadcastNotificationRequest 广播通知请求（管理员）
type BroadcastNotificationRequest struct {
	Title string  `json:"title" binding:"required,max=200"`
	Body  string  `json:"body" binding:"required"`
	Type  string  `json:"type,omitempty" binding:"omitempty,oneof=system practice_reminder achievement"`
	Level *string `json:"level,omitempty"` // 仅推送给指定等级用户，空则全员
}

// BroadcastNotificationResponse 广播通知响应
type BroadcastNotificationResponse struct {
	NotificationID int64 `json:"notification_id"`
}

// UnreadCountResponse 未读数量
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
