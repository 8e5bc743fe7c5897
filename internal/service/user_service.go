package service

import (
	"errors"
	"io"
	"log"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/echomind/echomind_server/internal/model"
	"github.com/echomind/echomind_server/internal/model/dto"
	"github.com/echomind/echomind_server/internal/pkg/oss"
	"github.com/echomind/echomind_server/internal/repository"
)

type UserService struct {
	userRepo     *repository.UserRepository
	progressRepo *repository.ProgressRepository
	ossClient    *oss.Client
}

func NewUserService(userRepo *repository.UserRepository, progressRepo *repository.ProgressRepository, ossClient *oss.Client) *UserService {
	return &UserService{
		userRepo:     userRepo,
		progressRepo: progressRepo,
		ossClient:    ossClient,
	}
}

// GetUser 获取用户实体
func (s *UserService) GetUser(userID int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetProfile 获取用户详情
func (s *UserService) GetProfile(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return BuildUserInfo(user), nil
}

// UpdateProfile 更新用户信息
func (s *UserService) UpdateProfile(userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 检查用户名是否已被占用
	if req.Username != nil && *req.Username != user.Username {
		exists, err := s.userRepo.ExistsByUsername(*req.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrUsernameExists
		}
		user.Username = *req.Username
	}

	// 设置等级视为完成了等级测试
	if req.Level != nil {
		user.Level = req.Level
		user.LevelTestCompleted = true
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return BuildUserInfo(user), nil
}

// UploadAvatar 上传用户头像到 OSS
func (s *UserService) UploadAvatar(userID int64, file io.Reader, filename string) (string, error) {
	if s.ossClient == nil {
		return "", errors.New("OSS 客户端未配置")
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}

	avatarURL, err := s.ossClient.UploadAvatar(userID, data, ext)
	if err != nil {
		return "", err
	}

	err = s.userRepo.UpdateFields(userID, map[string]interface{}{
		"avatar_url": avatarURL,
	})
	if err != nil {
		return "", err
	}

	// 旧头像是本桶对象时顺手清理，失败不影响本次上传
	if key := s.ossClient.KeyFromURL(user.AvatarURL); key != "" {
		if err := s.ossClient.Delete(key); err != nil {
			log.Printf("failed to delete old avatar %s for user %d: %v", key, userID, err)
		}
	}

	return avatarURL, nil
}

// TouchActivity 记录一次学习活动，维护连续打卡天数
func (s *UserService) TouchActivity(userID int64) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	before := user.DailyStreak
	user.UpdateStreak(time.Now())
	if user.DailyStreak == before && user.LastActiveDate != nil {
		// 同一天重复活动，只刷新时间戳
		return s.userRepo.UpdateFields(userID, map[string]interface{}{
			"last_active_date": user.LastActiveDate,
		})
	}

	return s.userRepo.UpdateFields(userID, map[string]interface{}{
		"daily_streak":     user.DailyStreak,
		"last_active_date": user.LastActiveDate,
	})
}

// GetProgressSummary 学习进度汇总
func (s *UserService) GetProgressSummary(userID int64) (*dto.ProgressSummary, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	practiceCount, err := s.progressRepo.CountByUserAndType(userID, model.ProgressPronunciation)
	if err != nil {
		return nil, err
	}
	quizCount, err := s.progressRepo.CountByUserAndType(userID, model.ProgressQuiz)
	if err != nil {
		return nil, err
	}

	return &dto.ProgressSummary{
		TotalPoints:   user.Points,
		DailyStreak:   user.DailyStreak,
		PracticeCount: int(practiceCount),
		QuizCount:     int(quizCount),
	}, nil
}

// ListProgress 分页获取进度明细
func (s *UserService) ListProgress(userID int64, progressType string, page, pageSize int) ([]*model.Progress, int64, error) {
	return s.progressRepo.ListByUser(userID, progressType, page, pageSize)
}
