package repository

import (
	"gorm.io/gorm"

	"github.com/echomind/echomind_server/internal/model"
)

type QuizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.db.Create(quiz).Error
}

func (r *QuizRepository) GetByID(id int64) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.Where("id = ?", id).First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// GetByIDWithQuestions 获取测验及其题目
func (r *QuizRepository) GetByIDWithQuestions(id int64) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.Preload("Questions").Where("id = ?", id).First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) Delete(id int64) error {
	if err := r.db.Where("quiz_id = ?", id).Delete(&model.QuizQuestion{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Quiz{}, id).Error
}

// List 分页获取测验列表，可按等级过滤
func (r *QuizRepository) List(level string, page, pageSize int) ([]*model.Quiz, int64, error) {
	var quizzes []*model.Quiz
	var total int64

	query := r.db.Model(&model.Quiz{})
	if level != "" {
		query = query.Where("level = ?", level)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&quizzes).Error; err != nil {
		return nil, 0, err
	}

	return quizzes, total, nil
}
