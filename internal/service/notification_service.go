package service

import (
	"context"

	"github.com/echomind/echomind_server/internal/model"
	"github.com/echomind/echomind_server/internal/model/dto"
	"github.com/echomind/echomind_server/internal/pkg/queue"
	"github.com/echomind/echomind_server/internal/repository"
)

// NotificationService 通知广播与收件箱。
// 广播只落库并入队，扇出由 worker 异步完成。
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	q                *queue.Queue
}

func NewNotificationService(notificationRepo *repository.NotificationRepository, q *queue.Queue) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		q:                q,
	}
}

// Broadcast 创建通知并入队等待扇出（管理员）
func (s *NotificationService) Broadcast(ctx context.Context, createdBy int64, req *dto.BroadcastNotificationRequest) (*dto.BroadcastNotificationResponse, error) {
	notificationType := req.Type
	if notificationType == "" {
		notificationType = "system"
	}

	notification := &model.Notification{
		Title:     req.Title,
		Body:      req.Body,
		Type:      notificationType,
		CreatedBy: createdBy,
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		return nil, err
	}

	job := &queue.NotificationJob{
		NotificationID: notification.ID,
		Title:          notification.Title,
		Body:           notification.Body,
		Type:           notification.Type,
		Level:          req.Level,
	}
	if err := s.q.Push(ctx, job); err != nil {
		return nil, err
	}

	return &dto.BroadcastNotificationResponse{
		NotificationID: notification.ID,
	}, nil
}

// ListInbox 分页获取收件箱
func (s *NotificationService) ListInbox(userID int64, page, pageSize int) ([]*model.UserNotification, int64, error) {
	return s.notificationRepo.ListByUser(userID, page, pageSize)
}

// UnreadCount 未读数量
func (s *NotificationService) UnreadCount(userID int64) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}

// MarkRead 标记单条已读
func (s *NotificationService) MarkRead(userID, userNotificationID int64) error {
	return s.notificationRepo.MarkRead(userID, userNotificationID)
}

// MarkAllRead 标记全部已读
func (s *NotificationService) MarkAllRead(userID int64) error {
	return s.notificationRepo.MarkAllRead(userID)
}
