package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/echomind/echomind_server/internal/model"
)

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	email := fmt.Sprintf("test_%d@example.com", time.Now().UnixNano())
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:      fmt.Sprintf("testuser_%d", time.Now().UnixNano()%100000),
		Email:         &email,
		PasswordHash:  &passwordHash,
		Role:          "user",
		EmailVerified: true,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithRole 设置角色
func WithRole(role string) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

// WithLevel 设置学习者等级
func WithLevel(level string) func(*model.User) {
	return func(u *model.User) {
		u.Level = &level
		u.LevelTestCompleted = true
	}
}

// WithVoiceClone 设置已保存的克隆音色
func WithVoiceClone(voiceID string) func(*model.User) {
	return func(u *model.User) {
		u.VoiceCloneID = &voiceID
	}
}

// WithCloneUsage 设置当日克隆用量
func WithCloneUsage(count int, date string) func(*model.User) {
	return func(u *model.User) {
		u.DailyCloneCount = count
		u.LastCloneDate = &date
	}
}

// WithPoints 设置积分
func WithPoints(points int) func(*model.User) {
	return func(u *model.User) {
		u.Points = points
	}
}

// TestSentence 创建测试练习句子
func TestSentence(t *testing.T, db *gorm.DB, opts ...func(*model.PracticeSentence)) *model.PracticeSentence {
	t.Helper()

	sentence := &model.PracticeSentence{
		Sentence: fmt.Sprintf("The quick brown fox %d", time.Now().UnixNano()%100000),
		Level:    model.LevelBeginner,
		Topic:    "pronunciation",
	}

	for _, opt := range opts {
		opt(sentence)
	}

	if err := db.Create(sentence).Error; err != nil {
		t.Fatalf("Failed to create test sentence: %v", err)
	}

	return sentence
}

// WithSentenceText 设置句子内容
func WithSentenceText(text string) func(*model.PracticeSentence) {
	return func(s *model.PracticeSentence) {
		s.Sentence = text
	}
}

// WithSentenceLevel 设置句子等级
func WithSentenceLevel(level string) func(*model.PracticeSentence) {
	return func(s *model.PracticeSentence) {
		s.Level = level
	}
}

// TestWord 创建测试词汇
func TestWord(t *testing.T, db *gorm.DB, word, level string) *model.Word {
	t.Helper()

	w := &model.Word{
		Word:       word,
		Phonetic:   "/tɛst/",
		Definition: "a test definition",
		Level:      level,
		Topic:      "vocabulary",
	}

	if err := db.Create(w).Error; err != nil {
		t.Fatalf("Failed to create test word: %v", err)
	}

	return w
}

// TestQuiz 创建测试测验（含题目）
func TestQuiz(t *testing.T, db *gorm.DB, level string, questions ...model.QuizQuestion) *model.Quiz {
	t.Helper()

	if len(questions) == 0 {
		questions = []model.QuizQuestion{
			{
				Question:  "Which word means 'happy'?",
				Options:   `["glad","sad","mad","bad"]`,
				AnswerIdx: 0,
			},
			{
				Question:  "Choose the correct article: ___ apple",
				Options:   `["a","an","the","no article"]`,
				AnswerIdx: 1,
			},
		}
	}

	quiz := &model.Quiz{
		Title:     fmt.Sprintf("Test Quiz %d", time.Now().UnixNano()%100000),
		Level:     level,
		Topic:     "grammar",
		Questions: questions,
	}

	if err := db.Create(quiz).Error; err != nil {
		t.Fatalf("Failed to create test quiz: %v", err)
	}

	return quiz
}

// TestReel 创建测试 Reel
func TestReel(t *testing.T, db *gorm.DB, createdBy int64, opts ...func(*model.Reel)) *model.Reel {
	t.Helper()

	reel := &model.Reel{
		Title:     fmt.Sprintf("Test Reel %d", time.Now().UnixNano()%100000),
		VideoURL:  "https://cdn.example.com/reels/test.mp4",
		Level:     model.LevelBeginner,
		Topic:     "daily-life",
		CreatedBy: createdBy,
	}

	for _, opt := range opts {
		opt(reel)
	}

	if err := db.Create(reel).Error; err != nil {
		t.Fatalf("Failed to create test reel: %v", err)
	}

	return reel
}

// WithReelLevel 设置 Reel 等级
func WithReelLevel(level string) func(*model.Reel) {
	return func(r *model.Reel) {
		r.Level = level
	}
}

// TestNotification 创建测试通知
func TestNotification(t *testing.T, db *gorm.DB, createdBy int64, title string) *model.Notification {
	t.Helper()

	n := &model.Notification{
		Title:     title,
		Body:      "notification body",
		Type:      "system",
		CreatedBy: createdBy,
	}

	if err := db.Create(n).Error; err != nil {
		t.Fatalf("Failed to create test notification: %v", err)
	}

	return n
}

// TestProgress 创建测试进度记录
func TestProgress(t *testing.T, db *gorm.DB, userID int64, progressType string, score int) *model.Progress {
	t.Helper()

	p := &model.Progress{
		UserID:       userID,
		Type:         progressType,
		Score:        score,
		PointsEarned: score / 10,
	}

	if err := db.Create(p).Error; err != nil {
		t.Fatalf("Failed to create test progress: %v", err)
	}

	return p
}
