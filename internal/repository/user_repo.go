package repository

import (
	"gorm.io/gorm"

	"github.com/echomind/echomind_server/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByGithubID(githubID string) (*model.User, error) {
	var user model.User
	err := r.db.Where("github_id = ?", githubID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByVerificationCode(code string) (*model.User, error) {
	var user model.User
	err := r.db.Where("verification_code = ?", code).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// TryAcquireCloneQuota 原子地占用一次当日克隆配额。
// 先把过期的计数滚动到今天，再做条件自增；只有真正抢到名额才返回 true，
// 并发请求不会超发。
func (r *UserRepository) TryAcquireCloneQuota(id int64, today string, limit int) (bool, error) {
	// 跨天后把计数归零并记录新日期
	err := r.db.Model(&model.User{}).
		Where("id = ? AND (last_clone_date IS NULL OR last_clone_date <> ?)", id, today).
		Updates(map[string]interface{}{
			"daily_clone_count": 0,
			"last_clone_date":   today,
		}).Error
	if err != nil {
		return false, err
	}

	// 仍低于上限才自增，RowsAffected 为 0 表示配额已用完
	result := r.db.Model(&model.User{}).
		Where("id = ? AND last_clone_date = ? AND daily_clone_count < ?", id, today, limit).
		Update("daily_clone_count", gorm.Expr("daily_clone_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// ReleaseCloneQuota 归还一次克隆配额（供应商调用失败时回滚占用）
func (r *UserRepository) ReleaseCloneQuota(id int64, today string) error {
	return r.db.Model(&model.User{}).
		Where("id = ? AND last_clone_date = ? AND daily_clone_count > 0", id, today).
		Update("daily_clone_count", gorm.Expr("daily_clone_count - 1")).Error
}

// SetVoiceClone 保存用户的克隆音色 ID
func (r *UserRepository) SetVoiceClone(id int64, voiceID string) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("voice_clone_id", voiceID).Error
}

// ClearVoiceClone 删除用户保存的克隆音色 ID
func (r *UserRepository) ClearVoiceClone(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("voice_clone_id", nil).Error
}

// AddPoints 原子增加积分
func (r *UserRepository) AddPoints(id int64, points int) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("points", gorm.Expr("points + ?", points)).Error
}

// ListIDsByLevel 按等级筛选用户 ID，level 为 nil 时返回全部（通知扇出用）
func (r *UserRepository) ListIDsByLevel(level *string) ([]int64, error) {
	var ids []int64
	query := r.db.Model(&model.User{})
	if level != nil {
		query = query.Where("level = ?", *level)
	}
	err := query.Pluck("id", &ids).Error
	return ids, err
}

// ResetStaleCloneCounts 把日期已过期的克隆计数清零（cleanup 定时任务用）
func (r *UserRepository) ResetStaleCloneCounts(today string) (int64, error) {
	result := r.db.Model(&model.User{}).
		Where("last_clone_date IS NOT NULL AND last_clone_date <> ? AND daily_clone_count > 0", today).
		Updates(map[string]interface{}{
			"daily_clone_count": 0,
			"last_clone_date":   today,
		})
	return result.RowsAffected, result.Error
}
