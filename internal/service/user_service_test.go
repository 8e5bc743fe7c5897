package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echomind/echomind_server/internal/model"
	"github.com/echomind/echomind_server/internal/model/dto"
	"github.com/echomind/echomind_server/internal/repository"
	"github.com/echomind/echomind_server/internal/testutil"
	"gorm.io/gorm"
)

func setupUserService(t *testing.T) (*UserService, *repository.UserRepository, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	service := NewUserService(userRepo, repository.NewProgressRepository(db), nil)

	t.Cleanup(func() {
		testutil.CleanupTestDB(t, db)
	})

	return service, userRepo, db
}

func TestUserService_GetProfile(t *testing.T) {
	service, _, db := setupUserService(t)

	user := testutil.TestUser(t, db, testutil.WithLevel(model.LevelIntermediate))

	info, err := service.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, info.Username)
	assert.Equal(t, model.LevelIntermediate, info.Level)
	assert.True(t, info.LevelTestCompleted)
}

func TestUserService_GetProfile_NotFound(t *testing.T) {
	service, _, _ := setupUserService(t)

	_, err := service.GetProfile(99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	service, _, db := setupUserService(t)

	user := testutil.TestUser(t, db)

	newName := "renamed_user"
	level := model.LevelAdvanced
	info, err := service.UpdateProfile(user.ID, &dto.UpdateProfileRequest{
		Username: &newName,
		Level:    &level,
	})
	require.NoError(t, err)
	assert.Equal(t, newName, info.Username)
	// 选择等级即视为完成等级测试
	assert.True(t, info.LevelTestCompleted)
}

func TestUserService_UpdateProfile_UsernameTaken(t *testing.T) {
	service, _, db := setupUserService(t)

	testutil.TestUser(t, db, testutil.WithUsername("occupied"))
	user := testutil.TestUser(t, db)

	taken := "occupied"
	_, err := service.UpdateProfile(user.ID, &dto.UpdateProfileRequest{Username: &taken})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestUserService_TouchActivity_StartsStreak(t *testing.T) {
	service, userRepo, db := setupUserService(t)

	user := testutil.TestUser(t, db)

	require.NoError(t, service.TouchActivity(user.ID))

	updated, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.DailyStreak)
	require.NotNil(t, updated.LastActiveDate)
}

func TestUserService_TouchActivity_ContinuesStreak(t *testing.T) {
	service, userRepo, db := setupUserService(t)

	user := testutil.TestUser(t, db)

	yesterday := time.Now().AddDate(0, 0, -1)
	require.NoError(t, userRepo.UpdateFields(user.ID, map[string]interface{}{
		"daily_streak":     3,
		"last_active_date": yesterday,
	}))

	require.NoError(t, service.TouchActivity(user.ID))

	updated, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.DailyStreak)
}

func TestUserService_TouchActivity_BreaksStreakAfterGap(t *testing.T) {
	service, userRepo, db := setupUserService(t)

	user := testutil.TestUser(t, db)

	lastWeek := time.Now().AddDate(0, 0, -7)
	require.NoError(t, userRepo.UpdateFields(user.ID, map[string]interface{}{
		"daily_streak":     10,
		"last_active_date": lastWeek,
	}))

	require.NoError(t, service.TouchActivity(user.ID))

	updated, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.DailyStreak)
}

func TestUserService_TouchActivity_SameDayNoChange(t *testing.T) {
	service, userRepo, db := setupUserService(t)

	user := testutil.TestUser(t, db)

	require.NoError(t, service.TouchActivity(user.ID))
	require.NoError(t, service.TouchActivity(user.ID))

	updated, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.DailyStreak)
}

func TestUserService_GetProgressSummary(t *testing.T) {
	service, _, db := setupUserService(t)

	user := testutil.TestUser(t, db, testutil.WithPoints(120))

	testutil.TestProgress(t, db, user.ID, model.ProgressPronunciation, 90)
	testutil.TestProgress(t, db, user.ID, model.ProgressPronunciation, 70)
	testutil.TestProgress(t, db, user.ID, model.ProgressQuiz, 100)

	summary, err := service.GetProgressSummary(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, summary.TotalPoints)
	assert.Equal(t, 2, summary.PracticeCount)
	assert.Equal(t, 1, summary.QuizCount)
}

func TestUserService_ListProgress(t *testing.T) {
	service, _, db := setupUserService(t)

	user := testutil.TestUser(t, db)

	testutil.TestProgress(t, db, user.ID, model.ProgressPronunciation, 85)
	testutil.TestProgress(t, db, user.ID, model.ProgressQuiz, 60)

	records, total, err := service.ListProgress(user.ID, model.ProgressQuiz, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, records, 1)
	assert.Equal(t, 60, records[0].Score)
}
