package model

import (
	"time"
)

type User struct {
	ID                    int64      `gorm:"primaryKey" json:"id"`
	Username              string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email                 *string    `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	PasswordHash          *string    `gorm:"size:255" json:"-"`
	AvatarURL             string     `gorm:"size:500" json:"avatar_url"`
	Role                  string     `gorm:"size:20;default:user" json:"role"` // user, admin
	GithubID              *string    `gorm:"column:github_id;size:50;uniqueIndex" json:"-"`
	Level                 *string    `gorm:"size:30" json:"level,omitempty"` // beginner ~ advanced
	LevelTestCompleted    bool       `gorm:"default:false" json:"level_test_completed"`
	Points                int        `gorm:"default:0" json:"points"`
	DailyStreak           int        `gorm:"default:0" json:"daily_streak"`
	LastActiveDate        *time.Time `json:"last_active_date,omitempty"`
	VoiceCloneID          *string    `gorm:"column:voice_clone_id;size:100" json:"-"`
	DailyCloneCount       int        `gorm:"default:0" json:"-"`
	LastCloneDate         *string    `gorm:"size:10" json:"-"` // YYYY-MM-DD，跨天惰性重置
	EmailVerified         bool       `gorm:"default:false" json:"email_verified"`
	VerificationCode      *string    `gorm:"size:100" json:"-"`
	VerificationExpiresAt *time.Time `json:"-"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// 学习者等级
const (
	LevelBeginner          = "beginner"
	LevelElementary        = "elementary"
	LevelIntermediate      = "intermediate"
	LevelUpperIntermediate = "upper-intermediate"
	LevelAdvanced          = "advanced"
)

// CloneDateFormat 每日克隆配额的日期格式
const CloneDateFormat = "2006-01-02"

// UpdateStreak 根据上次活跃日期更新连续打卡天数
func (u *User) UpdateStreak(now time.Time) {
	today := now.Truncate(24 * time.Hour)
	if u.LastActiveDate != nil {
		last := u.LastActiveDate.Truncate(24 * time.Hour)
		switch days := int(today.Sub(last).Hours() / 24); {
		case days == 1:
			u.DailyStreak++
		case days > 1:
			u.DailyStreak = 1
		}
	} else {
		u.DailyStreak = 1
	}
	u.LastActiveDate = &now
}
