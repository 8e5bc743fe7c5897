package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echomind/echomind_server/internal/testutil"
)

func TestNotificationRepository_FanOut(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewNotificationRepository(db)

	admin := testutil.TestUser(t, db, testutil.WithRole("admin"))
	u1 := testutil.TestUser(t, db)
	u2 := testutil.TestUser(t, db)
	notification := testutil.TestNotification(t, db, admin.ID, "New feature")

	err := repo.FanOut(notification.ID, []int64{u1.ID, u2.ID})
	require.NoError(t, err)

	items, total, err := repo.ListByUser(u1.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Notification)
	assert.Equal(t, "New feature", items[0].Notification.Title)
	assert.Nil(t, items[0].ReadAt)
}

func TestNotificationRepository_FanOut_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewNotificationRepository(db)

	err := repo.FanOut(1, nil)
	assert.NoError(t, err)
}

func TestNotificationRepository_CountUnread(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewNotificationRepository(db)

	admin := testutil.TestUser(t, db, testutil.WithRole("admin"))
	user := testutil.TestUser(t, db)
	n1 := testutil.TestNotification(t, db, admin.ID, "first")
	n2 := testutil.TestNotification(t, db, admin.ID, "second")

	require.NoError(t, repo.FanOut(n1.ID, []int64{user.ID}))
	require.NoError(t, repo.FanOut(n2.ID, []int64{user.ID}))

	unread, err := repo.CountUnread(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewNotificationRepository(db)

	admin := testutil.TestUser(t, db, testutil.WithRole("admin"))
	user := testutil.TestUser(t, db)
	n := testutil.TestNotification(t, db, admin.ID, "read me")
	require.NoError(t, repo.FanOut(n.ID, []int64{user.ID}))

	items, _, err := repo.ListByUser(user.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, repo.MarkRead(user.ID, items[0].ID))

	unread, err := repo.CountUnread(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestNotificationRepository_MarkRead_OtherUsersRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewNotificationRepository(db)

	admin := testutil.TestUser(t, db, testutil.WithRole("admin"))
	owner := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)
	n := testutil.TestNotification(t, db, admin.ID, "private")
	require.NoError(t, repo.FanOut(n.ID, []int64{owner.ID}))

	items, _, err := repo.ListByUser(owner.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)

	// 其他用户标记不生效
	require.NoError(t, repo.MarkRead(other.ID, items[0].ID))

	unread, err := repo.CountUnread(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestNotificationRepository_MarkAllRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewNotificationRepository(db)

	admin := testutil.TestUser(t, db, testutil.WithRole("admin"))
	user := testutil.TestUser(t, db)
	for i := 0; i < 3; i++ {
		n := testutil.TestNotification(t, db, admin.ID, "bulk")
		require.NoError(t, repo.FanOut(n.ID, []int64{user.ID}))
	}

	require.NoError(t, repo.MarkAllRead(user.ID))

	unread, err := repo.CountUnread(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestNotificationRepository_DeleteOlderThan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewNotificationRepository(db)

	admin := testutil.TestUser(t, db, testutil.WithRole("admin"))
	user := testutil.TestUser(t, db)
	n := testutil.TestNotification(t, db, admin.ID, "old")
	require.NoError(t, repo.FanOut(n.ID, []int64{user.ID}))

	// 未来的截止时间应删掉刚插入的记录
	deleted, err := repo.DeleteOlderThan(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, total, err := repo.ListByUser(user.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
