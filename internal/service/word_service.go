package service

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/echomind/echomind_server/internal/model"
	"github.com/echomind/echomind_server/internal/model/dto"
	"github.com/echomind/echomind_server/internal/pkg/dictapi"
	"github.com/echomind/echomind_server/internal/repository"
)

var ErrWordEntryNotFound = errors.New("词汇不存在")

// WordService 词汇表管理
type WordService struct {
	wordRepo *repository.WordRepository
	dict     *dictapi.Client
}

func NewWordService(wordRepo *repository.WordRepository, dict *dictapi.Client) *WordService {
	return &WordService{
		wordRepo: wordRepo,
		dict:     dict,
	}
}

// ListWords 分页获取词汇列表
func (s *WordService) ListWords(level, topic string, page, pageSize int) ([]*model.Word, int64, error) {
	return s.wordRepo.List(level, topic, page, pageSize)
}

// GetWord 按 ID 获取词汇
func (s *WordService) GetWord(id int64) (*model.Word, error) {
	word, err := s.wordRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWordEntryNotFound
		}
		return nil, err
	}
	return word, nil
}

// CreateWord 新建词汇（管理员）。音标缺失时尝试从词典 API 补全。
func (s *WordService) CreateWord(ctx context.Context, req *dto.CreateWordRequest) (*model.Word, error) {
	word := &model.Word{
		Word:        req.Word,
		Phonetic:    req.Phonetic,
		Definition:  req.Definition,
		Example:     req.Example,
		Translation: req.Translation,
		Level:       req.Level,
		Topic:       req.Topic,
	}
	if word.Topic == "" {
		word.Topic = "vocabulary"
	}

	if word.Phonetic == "" && s.dict != nil {
		if entry, err := s.dict.Lookup(ctx, req.Word); err == nil {
			word.Phonetic = entry.Phonetic
		} else if !errors.Is(err, dictapi.ErrNotFound) {
			log.Printf("dictionary lookup failed for %q: %v", req.Word, err)
		}
	}

	if err := s.wordRepo.Create(word); err != nil {
		return nil, err
	}
	return word, nil
}

// UpdateWord 更新词汇（管理员）
func (s *WordService) UpdateWord(id int64, req *dto.UpdateWordRequest) (*model.Word, error) {
	word, err := s.wordRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWordEntryNotFound
		}
		return nil, err
	}

	if req.Word != nil {
		word.Word = *req.Word
	}
	if req.Phonetic != nil {
		word.Phonetic = *req.Phonetic
	}
	if req.Definition != nil {
		word.Definition = *req.Definition
	}
	if req.Example != nil {
		word.Example = *req.Example
	}
	if req.Translation != nil {
		word.Translation = *req.Translation
	}
	if req.Level != nil {
		word.Level = *req.Level
	}
	if req.Topic != nil {
		word.Topic = *req.Topic
	}

	if err := s.wordRepo.Update(word); err != nil {
		return nil, err
	}
	return word, nil
}

// DeleteWord 删除词汇（管理员）
func (s *WordService) DeleteWord(id int64) error {
	return s.wordRepo.Delete(id)
}
