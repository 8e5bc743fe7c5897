package repository

import (
	"gorm.io/gorm"

	"github.com/echomind/echomind_server/internal/model"
)

type ReelRepository struct {
	db *gorm.DB
}

func NewReelRepository(db *gorm.DB) *ReelRepository {
	return &ReelRepository{db: db}
}

func (r *ReelRepository) Create(reel *model.Reel) error {
	return r.db.Create(reel).Error
}

func (r *ReelRepository) GetByID(id int64) (*model.Reel, error) {
	var reel model.Reel
	err := r.db.Where("id = ?", id).First(&reel).Error
	if err != nil {
		return nil, err
	}
	return &reel, nil
}

func (r *ReelRepository) Update(reel *model.Reel) error {
	return r.db.Save(reel).Error
}

func (r *ReelRepository) Delete(id int64) error {
	return r.db.Delete(&model.Reel{}, id).Error
}

// List 分页获取 Reel 列表，可按等级过滤
func (r *ReelRepository) List(level string, page, pageSize int) ([]*model.Reel, int64, error) {
	var reels []*model.Reel
	var total int64

	query := r.db.Model(&model.Reel{})
	if level != "" {
		query = query.Where("level = ?", level)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&reels).Error; err != nil {
		return nil, 0, err
	}

	return reels, total, nil
}

// ListByIDs 按 ID 列表获取 Reel（收藏/点赞列表用），保持传入顺序交给调用方处理
func (r *ReelRepository) ListByIDs(ids []int64) ([]*model.Reel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var reels []*model.Reel
	err := r.db.Where("id IN ?", ids).Find(&reels).Error
	return reels, err
}

// IncrementCounter 原子增减计数字段（like_count / bookmark_count / view_count）
func (r *ReelRepository) IncrementCounter(id int64, column string, delta int) error {
	return r.db.Model(&model.Reel{}).Where("id = ?", id).
		Update(column, gorm.Expr(column+" + ?", delta)).Error
}
