package repository

import (
	"gorm.io/gorm"

	"github.com/echomind/echomind_server/internal/model"
)

type SentenceRepository struct {
	db *gorm.DB
}

func NewSentenceRepository(db *gorm.DB) *SentenceRepository {
	return &SentenceRepository{db: db}
}

func (r *SentenceRepository) Create(sentence *model.PracticeSentence) error {
	return r.db.Create(sentence).Error
}

func (r *SentenceRepository) GetByID(id int64) (*model.PracticeSentence, error) {
	var sentence model.PracticeSentence
	err := r.db.Where("id = ?", id).First(&sentence).Error
	if err != nil {
		return nil, err
	}
	return &sentence, nil
}

func (r *SentenceRepository) Update(sentence *model.PracticeSentence) error {
	return r.db.Save(sentence).Error
}

func (r *SentenceRepository) Delete(id int64) error {
	return r.db.Delete(&model.PracticeSentence{}, id).Error
}

// CountByLevel 统计某等级的句子数量，level 为空时统计全部
func (r *SentenceRepository) CountByLevel(level string) (int64, error) {
	var count int64
	query := r.db.Model(&model.PracticeSentence{})
	if level != "" {
		query = query.Where("level = ?", level)
	}
	err := query.Count(&count).Error
	return count, err
}

// GetAtOffset 按固定顺序取第 offset 条句子。
// 随机偏移由调用方生成，避免依赖数据库方言的随机函数。
func (r *SentenceRepository) GetAtOffset(level string, offset int) (*model.PracticeSentence, error) {
	var sentence model.PracticeSentence
	query := r.db.Model(&model.PracticeSentence{})
	if level != "" {
		query = query.Where("level = ?", level)
	}
	err := query.Order("id ASC").Offset(offset).First(&sentence).Error
	if err != nil {
		return nil, err
	}
	return &sentence, nil
}

// List 分页获取句子列表
func (r *SentenceRepository) List(level string, page, pageSize int) ([]*model.PracticeSentence, int64, error) {
	var sentences []*model.PracticeSentence
	var total int64

	query := r.db.Model(&model.PracticeSentence{})
	if level != "" {
		query = query.Where("level = ?", level)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("id ASC").Offset(offset).Limit(pageSize).Find(&sentences).Error; err != nil {
		return nil, 0, err
	}

	return sentences, total, nil
}
