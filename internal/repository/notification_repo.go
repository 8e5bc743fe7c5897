package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/echomind/echomind_server/internal/model"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(notification *model.Notification) error {
	return r.db.Create(notification).Error
}

func (r *NotificationRepository) GetByID(id int64) (*model.Notification, error) {
	var notification model.Notification
	err := r.db.Where("id = ?", id).First(&notification).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// FanOut 为目标用户批量创建收件箱记录（worker 扇出用）
func (r *NotificationRepository) FanOut(notificationID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}

	records := make([]model.UserNotification, 0, len(userIDs))
	for _, uid := range userIDs {
		records = append(records, model.UserNotification{
			UserID:         uid,
			NotificationID: notificationID,
		})
	}

	// 分批插入，避免超大 IN 子句
	return r.db.CreateInBatches(records, 500).Error
}

// ListByUser 分页获取用户收件箱
func (r *NotificationRepository) ListByUser(userID int64, page, pageSize int) ([]*model.UserNotification, int64, error) {
	var items []*model.UserNotification
	var total int64

	query := r.db.Model(&model.UserNotification{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Notification").
		Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// CountUnread 统计未读数
func (r *NotificationRepository) CountUnread(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.UserNotification{}).
		Where("user_id = ? AND read_at IS NULL", userID).Count(&count).Error
	return count, err
}

// MarkRead 标记单条已读
func (r *NotificationRepository) MarkRead(userID, userNotificationID int64) error {
	now := time.Now()
	return r.db.Model(&model.UserNotification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", userNotificationID, userID).
		Update("read_at", now).Error
}

// MarkAllRead 标记全部已读
func (r *NotificationRepository) MarkAllRead(userID int64) error {
	now := time.Now()
	return r.db.Model(&model.UserNotification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", now).Error
}

// DeleteOlderThan 删除超过保留期的收件箱记录（cleanup 定时任务用）
func (r *NotificationRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&model.UserNotification{})
	return result.RowsAffected, result.Error
}
