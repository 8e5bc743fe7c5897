package model

import (
	"time"
)

// PracticeSentence 发音练习句子/单词
type PracticeSentence struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Sentence    string    `gorm:"size:500;not null" json:"sentence"`
	Phonetic    *string   `gorm:"size:500" json:"phonetic,omitempty"`
	Translation *string   `gorm:"size:500" json:"translation,omitempty"`
	Level       string    `gorm:"size:30;not null;index" json:"level"`
	Topic       string    `gorm:"size:30;default:pronunciation" json:"topic"`
	AudioURL    *string   `gorm:"size:500" json:"audio_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (PracticeSentence) TableName() string {
	return "practice_sentences"
}
