package model

import (
	"time"
)

// Quiz 测验
type Quiz struct {
	ID        int64          `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"size:200;not null" json:"title"`
	Level     string         `gorm:"size:30;not null;index" json:"level"`
	Topic     string         `gorm:"size:30" json:"topic"`
	Questions []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion 测验题目，Options 为 JSON 数组字符串
type QuizQuestion struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	QuizID      int64  `gorm:"not null;index" json:"quiz_id"`
	Question    string `gorm:"type:text;not null" json:"question"`
	Options     string `gorm:"type:text;not null" json:"options"`
	AnswerIdx   int    `gorm:"not null" json:"-"`
	Explanation string `gorm:"type:text" json:"explanation,omitempty"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}
