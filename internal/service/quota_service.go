package service

import (
	"errors"
	"time"

	"github.com/echomind/echomind_server/config"
	"github.com/echomind/echomind_server/internal/model"
	"github.com/echomind/echomind_server/internal/repository"
)

var ErrCloneQuotaExceeded = errors.New("今日声音克隆次数已用完")

// QuotaService 声音克隆每日配额的闸门。
// 计数惰性滚动：跨天后首次占用时归零，不依赖定时任务。
type QuotaService struct {
	userRepo *repository.UserRepository
	cfg      *config.VoiceCloneConfig
	now      func() time.Time
}

func NewQuotaService(userRepo *repository.UserRepository, cfg *config.VoiceCloneConfig) *QuotaService {
	return &QuotaService{
		userRepo: userRepo,
		cfg:      cfg,
		now:      time.Now,
	}
}

// DailyLimit 每日克隆上限
func (s *QuotaService) DailyLimit() int {
	return s.cfg.DailyLimit
}

// Acquire 占用一次配额，数据库层条件自增保证并发安全。
// 配额用完返回 ErrCloneQuotaExceeded。
func (s *QuotaService) Acquire(userID int64) error {
	today := s.now().Format(model.CloneDateFormat)
	ok, err := s.userRepo.TryAcquireCloneQuota(userID, today, s.cfg.DailyLimit)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCloneQuotaExceeded
	}
	return nil
}

// Release 归还一次配额（供应商调用失败时回滚）
func (s *QuotaService) Release(userID int64) error {
	today := s.now().Format(model.CloneDateFormat)
	return s.userRepo.ReleaseCloneQuota(userID, today)
}

// Remaining 当前剩余配额。日期已过期时按未使用计算，不写库。
func (s *QuotaService) Remaining(user *model.User) int {
	today := s.now().Format(model.CloneDateFormat)

	used := 0
	if user.LastCloneDate != nil && *user.LastCloneDate == today {
		used = user.DailyCloneCount
	}

	remaining := s.cfg.DailyLimit - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// ResetStale 把日期已过期的计数清零，返回影响行数（cleanup 定时任务用）
func (s *QuotaService) ResetStale() (int64, error) {
	today := s.now().Format(model.CloneDateFormat)
	return s.userRepo.ResetStaleCloneCounts(today)
}
