package repository

import (
	"gorm.io/gorm"

	"github.com/echomind/echomind_server/internal/model"
)

type WordRepository struct {
	db *gorm.DB
}

func NewWordRepository(db *gorm.DB) *WordRepository {
	return &WordRepository{db: db}
}

func (r *WordRepository) Create(word *model.Word) error {
	return r.db.Create(word).Error
}

func (r *WordRepository) GetByID(id int64) (*model.Word, error) {
	var word model.Word
	err := r.db.Where("id = ?", id).First(&word).Error
	if err != nil {
		return nil, err
	}
	return &word, nil
}

func (r *WordRepository) GetByWord(text string) (*model.Word, error) {
	var word model.Word
	err := r.db.Where("word = ?", text).First(&word).Error
	if err != nil {
		return nil, err
	}
	return &word, nil
}

func (r *WordRepository) Update(word *model.Word) error {
	return r.db.Save(word).Error
}

func (r *WordRepository) Delete(id int64) error {
	return r.db.Delete(&model.Word{}, id).Error
}

// List 分页获取词汇列表，可按等级和主题过滤
func (r *WordRepository) List(level, topic string, page, pageSize int) ([]*model.Word, int64, error) {
	var words []*model.Word
	var total int64

	query := r.db.Model(&model.Word{})
	if level != "" {
		query = query.Where("level = ?", level)
	}
	if topic != "" {
		query = query.Where("topic = ?", topic)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("word ASC").Offset(offset).Limit(pageSize).Find(&words).Error; err != nil {
		return nil, 0, err
	}

	return words, total, nil
}
