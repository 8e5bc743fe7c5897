package dto

// UserInfo 用户信息（返回给前端）
type UserInfo struct {
	ID                 int64  `json:"id"`
	Username           string `json:"username"`
	Email              string `json:"email,omitempty"`
	AvatarURL          string `json:"avatar_url"`
	Role               string `json:"role"`
	Level              string `json:"level,omitempty"`
	LevelTestCompleted bool   `json:"level_test_completed"`
	Points             int    `json:"points"`
	DailyStreak        int    `json:"daily_streak"`
	EmailVerified      bool   `json:"email_verified,omitempty"`
	CreatedAt          string `json:"created_at,omitempty"`
}

// UpdateProfileRequest 更新用户信息请求
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" binding:"omitempty,min=3,max=50"`
	Level    *string `json:"level,omitempty" binding:"omitempty,oneof=beginner elementary intermediate upper-intermediate advanced"`
}

// ProgressSummary 学习进度汇总
type ProgressSummary struct {
	TotalPoints   int `json:"total_points"`
	DailyStreak   int `json:"daily_streak"`
	PracticeCount int `json:"practice_count"`
	QuizCount     int `json:"quiz_count"`
}
