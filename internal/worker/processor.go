package worker

import (
	"context"
	"fmt"
	"log"

	"github.com/echomind/echomind_server/internal/pkg/pubsub"
	"github.com/echomind/echomind_server/internal/pkg/queue"
	"github.com/echomind/echomind_server/internal/repository"
)

// Processor 通知扇出处理器。
// 从队列取出广播任务，为目标用户批量写收件箱，并逐个发布实时事件。
type Processor struct {
	userRepo         *repository.UserRepository
	notificationRepo *repository.NotificationRepository
	publisher        *pubsub.Publisher
}

// NewProcessor 创建任务处理器
func NewProcessor(
	userRepo *repository.UserRepository,
	notificationRepo *repository.NotificationRepository,
	publisher *pubsub.Publisher,
) *Processor {
	return &Processor{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		publisher:        publisher,
	}
}

// Process 处理一条通知扇出任务
func (p *Processor) Process(ctx context.Context, job *queue.NotificationJob) error {
	ids, err := p.userRepo.ListIDsByLevel(job.Level)
	if err != nil {
		return fmt.Errorf("failed to list target users: %w", err)
	}

	if len(ids) == 0 {
		log.Printf("notification %d: no target users", job.NotificationID)
		return nil
	}

	if err := p.notificationRepo.FanOut(job.NotificationID, ids); err != nil {
		return fmt.Errorf("failed to fan out notification %d: %w", job.NotificationID, err)
	}

	log.Printf("notification %d: fanned out to %d users", job.NotificationID, len(ids))

	// 实时事件尽力而为，推送失败不影响收件箱
	for _, userID := range ids {
		unread, err := p.notificationRepo.CountUnread(userID)
		if err != nil {
			log.Printf("notification %d: failed to count unread for user %d: %v", job.NotificationID, userID, err)
			continue
		}

		event := &pubsub.Event{
			Type:           pubsub.EventNotification,
			UserID:         userID,
			NotificationID: job.NotificationID,
			Title:          job.Title,
			Body:           job.Body,
			Unread:         unread,
		}
		if err := p.publisher.PublishEvent(ctx, event); err != nil {
			log.Printf("notification %d: failed to publish event for user %d: %v", job.NotificationID, userID, err)
		}
	}

	return nil
}
