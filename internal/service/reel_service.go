package service

import (
	"errors"
	"fmt"
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

var ErrReelNotFound = errors.New("视频不存在")

// ReelService 短视频内容与互动
type ReelService struct {
	reelRepo        *repository.ReelRepository
	interactionRepo *repository.InteractionRepository
	ossClient       *oss.Client
}

func NewReelService(reelRepo *repository.ReelRepository, interactionRepo *repository.InteractionRepository, ossClient *oss.Client) *ReelService {
	return &ReelService{
		reelRepo:        reelRepo,
		interactionRepo: interactionRepo,
		ossClient:       ossClient,
	}
}

// ListReels 分页获取 Reel，userID > 0 时附带互动状态
func (s *ReelService) ListReels(userID int64, level string, page, pageSize int) ([]*dto.ReelItem, int64, error) {
	reels, total, err := s.reelRepo.List(level, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.ReelItem, 0, len(reels))
	for _, reel := range reels {
		item := &dto.ReelItem{Reel: reel}
		if userID > 0 {
			if err := s.fillInteractions(userID, item); err != nil {
				return nil, 0, err
			}
		}
		items = append(items, item)
	}

	return items, total, nil
}

// GetReel 获取单个 Reel 并自增播放数
func (s *ReelService) GetReel(userID, reelID int64) (*dto.ReelItem, error) {
	reel, err := s.reelRepo.GetByID(reelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReelNotFound
		}
		return nil, err
	}

	// 播放数尽力而为，失败不影响返回
	if err := s.reelRepo.IncrementCounter(reelID, "view_count", 1); err != nil {
		log.Printf("failed to increment view count for reel %d: %v", reelID, err)
	} else {
		reel.ViewCount++
	}

	item := &dto.ReelItem{Reel: reel}
	if userID > 0 {
		if err := s.fillInteractions(userID, item); err != nil {
			return nil, err
		}
	}

	return item, nil
}

// ToggleLike 点赞/取消点赞
func (s *ReelService) ToggleLike(userID, reelID int64) (*dto.LikeResponse, error) {
	liked, err := s.toggle(userID, reelID, model.InteractionLike, "like_count")
	if err != nil {
		return nil, err
	}

	reel, err := s.reelRepo.GetByID(reelID)
	if err != nil {
		return nil, err
	}

	return &dto.LikeResponse{
		Liked:     liked,
		LikeCount: reel.LikeCount,
	}, nil
}

// ToggleBookmark 收藏/取消收藏
func (s *ReelService) ToggleBookmark(userID, reelID int64) (*dto.BookmarkResponse, error) {
	bookmarked, err := s.toggle(userID, reelID, model.InteractionBookmark, "bookmark_count")
	if err != nil {
		return nil, err
	}

	reel, err := s.reelRepo.GetByID(reelID)
	if err != nil {
		return nil, err
	}

	return &dto.BookmarkResponse{
		Bookmarked:    bookmarked,
		BookmarkCount: reel.BookmarkCount,
	}, nil
}

// toggle 互动开关，返回操作后的状态
func (s *ReelService) toggle(userID, reelID int64, interactionType, counterColumn string) (bool, error) {
	if _, err := s.reelRepo.GetByID(reelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrReelNotFound
		}
		return false, err
	}

	exists, err := s.interactionRepo.Exists(userID, reelID, interactionType)
	if err != nil {
		return false, err
	}

	if exists {
		if err := s.interactionRepo.Delete(userID, reelID, interactionType); err != nil {
			return false, err
		}
		if err := s.reelRepo.IncrementCounter(reelID, counterColumn, -1); err != nil {
			return false, err
		}
		return false, nil
	}

	err = s.interactionRepo.Create(&model.Interaction{
		UserID: userID,
		ReelID: reelID,
		Type:   interactionType,
	})
	if err != nil {
		return false, err
	}
	if err := s.reelRepo.IncrementCounter(reelID, counterColumn, 1); err != nil {
		return false, err
	}
	return true, nil
}

// ListBookmarked 用户收藏的 Reel 列表
func (s *ReelService) ListBookmarked(userID int64, page, pageSize int) ([]*dto.ReelItem, int64, error) {
	ids, total, err := s.interactionRepo.GetUserReelIDs(userID, model.InteractionBookmark, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	reels, err := s.reelRepo.ListByIDs(ids)
	if err != nil {
		return nil, 0, err
	}

	// IN 查询不保证顺序，按收藏顺序重排
	byID := make(map[int64]*model.Reel, len(reels))
	for _, reel := range reels {
		byID[reel.ID] = reel
	}

	items := make([]*dto.ReelItem, 0, len(ids))
	for _, id := range ids {
		reel, ok := byID[id]
		if !ok {
			continue
		}
		item := &dto.ReelItem{Reel: reel, Bookmarked: true}
		liked, err := s.interactionRepo.Exists(userID, id, model.InteractionLike)
		if err != nil {
			return nil, 0, err
		}
		item.Liked = liked
		items = append(items, item)
	}

	return items, total, nil
}

// CreateReel 上传并发布 Reel（管理员）
func (s *ReelService) CreateReel(createdBy int64, req *dto.CreateReelRequest, video io.Reader, videoType string, thumbnail io.Reader, thumbnailName string) (*model.Reel, error) {
	if s.ossClient == nil {
		return nil, errors.New("OSS 客户端未配置")
	}

	videoData, err := io.ReadAll(video)
	if err != nil {
		return nil, err
	}

	reelKey := fmt.Sprintf("%d_%d", createdBy, time.Now().UnixNano())
	videoURL, err := s.ossClient.UploadReelVideo(reelKey, videoData, videoType)
	if err != nil {
		return nil, err
	}

	var thumbnailURL string
	if thumbnail != nil {
		thumbData, err := io.ReadAll(thumbnail)
		if err != nil {
			return nil, err
		}
		ext := filepath.Ext(thumbnailName)
		if ext == "" {
			ext = ".jpg"
		}
		thumbnailURL, err = s.ossClient.UploadReelThumbnail(reelKey, thumbData, ext)
		if err != nil {
			return nil, err
		}
	}

	reel := &model.Reel{
		Title:        req.Title,
		Description:  req.Description,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		Level:        req.Level,
		Topic:        req.Topic,
		CreatedBy:    createdBy,
	}

	if err := s.reelRepo.Create(reel); err != nil {
		return nil, err
	}
	return reel, nil
}

// DeleteReel 删除 Reel（管理员）
func (s *ReelService) DeleteReel(id int64) error {
	return s.reelRepo.Delete(id)
}

func (s *ReelService) fillInteractions(userID int64, item *dto.ReelItem) error {
	interactions, err := s.interactionRepo.GetByUserAndReel(userID, item.ID)
	if err != nil {
		return err
	}
	for _, in := range interactions {
		switch in.Type {
		case model.InteractionLike:
			item.Liked = true
		case model.InteractionBookmark:
			item.Bookmarked = true
		}
	}
	return nil
}
