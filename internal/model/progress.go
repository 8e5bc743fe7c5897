package model

import (
	"time"
)

// Progress 学习进度记录
type Progress struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	UserID       int64     `gorm:"not null;index" json:"user_id"`
	Type         string    `gorm:"size:40;not null" json:"type"` // pronunciation-practice, quiz, placement-test
	Score        int       `gorm:"default:0" json:"score"`
	PointsEarned int       `gorm:"default:0" json:"points_earned"`
	Word         string    `gorm:"size:200" json:"word,omitempty"`
	QuizID       *int64    `json:"quiz_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Progress) TableName() string {
	return "progress_records"
}

// 进度类型
const (
	ProgressPronunciation = "pronunciation-practice"
	ProgressQuiz          = "quiz"
	ProgressPlacement     = "placement-test"
)
