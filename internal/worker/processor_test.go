package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/echomind/echomind_server/internal/model"
	"github.com/echomind/echomind_server/internal/pkg/pubsub"
	"github.com/echomind/echomind_server/internal/pkg/queue"
	"github.com/echomind/echomind_server/internal/repository"
	"github.com/echomind/echomind_server/internal/testutil"
)

func setupProcessor(t *testing.T) (*Processor, *repository.NotificationRepository, *redis.Client, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	processor := NewProcessor(userRepo, notificationRepo, pubsub.NewPublisher(client))

	t.Cleanup(func() {
		client.Close()
		mr.Close()
		testutil.CleanupTestDB(t, db)
	})

	return processor, notificationRepo, client, db
}

// collectEvents 从订阅通道收集 n 条事件，超时报错
func collectEvents(t *testing.T, ch <-chan *redis.Message, n int) []*pubsub.Event {
	t.Helper()

	events := make([]*pubsub.Event, 0, n)
	for len(events) < n {
		select {
		case msg := <-ch:
			var event pubsub.Event
			require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
			events = append(events, &event)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for events, got %d of %d", len(events), n)
		}
	}
	return events
}

func TestProcessor_FanOutToAllUsers(t *testing.T) {
	processor, notificationRepo, client, db := setupProcessor(t)
	ctx := context.Background()

	admin := testutil.TestUser(t, db, testutil.WithRole("admin"))
	u1 := testutil.TestUser(t, db)
	u2 := testutil.TestUser(t, db)

	notification := testutil.TestNotification(t, db, admin.ID, "维护公告")

	sub := client.Subscribe(ctx, pubsub.ChannelNotifications)
	defer sub.Close()
	// 确保订阅生效后再扇出
	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	ch := sub.Channel()

	job := &queue.NotificationJob{
		NotificationID: notification.ID,
		Title:          notification.Title,
		Body:           notification.Body,
		Type:           notification.Type,
	}
	require.NoError(t, processor.Process(ctx, job))

	// 全员收件箱各一条未读
	for _, uid := range []int64{admin.ID, u1.ID, u2.ID} {
		unread, err := notificationRepo.CountUnread(uid)
		require.NoError(t, err)
		assert.Equal(t, int64(1), unread, "user %d", uid)
	}

	events := collectEvents(t, ch, 3)
	seen := make(map[int64]bool)
	for _, event := range events {
		assert.Equal(t, pubsub.EventNotification, event.Type)
		assert.Equal(t, notification.ID, event.NotificationID)
		assert.Equal(t, "维护公告", event.Title)
		assert.Equal(t, int64(1), event.Unread)
		seen[event.UserID] = true
	}
	assert.Len(t, seen, 3)
}

func TestProcessor_FanOutByLevel(t *testing.T) {
	processor, notificationRepo, _, db := setupProcessor(t)
	ctx := context.Background()

	admin := testutil.TestUser(t, db, testutil.WithRole("admin"))
	beginner := testutil.TestUser(t, db, testutil.WithLevel(model.LevelBeginner))
	advanced := testutil.TestUser(t, db, testutil.WithLevel(model.LevelAdvanced))

	notification := testutil.TestNotification(t, db, admin.ID, "新手练习上新")

	level := model.LevelBeginner
	job := &queue.NotificationJob{
		NotificationID: notification.ID,
		Title:          notification.Title,
		Body:           notification.Body,
		Type:           notification.Type,
		Level:          &level,
	}
	require.NoError(t, processor.Process(ctx, job))

	unread, err := notificationRepo.CountUnread(beginner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	unread, err = notificationRepo.CountUnread(advanced.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestProcessor_NoTargetUsers(t *testing.T) {
	processor, _, _, _ := setupProcessor(t)

	job := &queue.NotificationJob{
		NotificationID: 1,
		Title:          "nobody home",
		Body:           "body",
		Type:           "system",
	}
	assert.NoError(t, processor.Process(context.Background(), job))
}
