package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/echomind/echomind_server/internal/model"
)

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

func (r *ProgressRepository) Create(progress *model.Progress) error {
	return r.db.Create(progress).Error
}

// ListByUser 分页获取用户进度记录，可按类型过滤
func (r *ProgressRepository) ListByUser(userID int64, progressType string, page, pageSize int) ([]*model.Progress, int64, error) {
	var records []*model.Progress
	var total int64

	query := r.db.Model(&model.Progress{}).Where("user_id = ?", userID)
	if progressType != "" {
		query = query.Where("type = ?", progressType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// CountByUserAndType 统计用户某类进度记录数
func (r *ProgressRepository) CountByUserAndType(userID int64, progressType string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Progress{}).
		Where("user_id = ? AND type = ?", userID, progressType).Count(&count).Error
	return count, err
}

// AverageScore 计算用户某类进度的平均分，无记录时返回 0
func (r *ProgressRepository) AverageScore(userID int64, progressType string) (float64, error) {
	var avg *float64
	err := r.db.Model(&model.Progress{}).
		Where("user_id = ? AND type = ?", userID, progressType).
		Select("AVG(score)").Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// CountActiveDays 统计时间段内有学习记录的天数，同一天多条记录只算一天
func (r *ProgressRepository) CountActiveDays(userID int64, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Progress{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Select("COUNT(DISTINCT DATE(created_at))").
		Scan(&count).Error
	return count, err
}
