package model

import (
	"time"
)

// Word 词汇表条目
type Word struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Word        string    `gorm:"size:100;not null;index" json:"word"`
	Phonetic    string    `gorm:"size:200" json:"phonetic"`
	Definition  string    `gorm:"type:text" json:"definition"`
	Example     string    `gorm:"type:text" json:"example"`
	Translation string    `gorm:"size:500" json:"translation"`
	Level       string    `gorm:"size:30;not null;index" json:"level"`
	Topic       string    `gorm:"size:30;default:vocabulary" json:"topic"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Word) TableName() string {
	return "words"
}
