package service

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/echomind/echomind_server/internal/model"
	"github.com/echomind/echomind_server/internal/model/dto"
	"github.com/echomind/echomind_server/internal/repository"
)

var ErrNoSentences = errors.New("该等级暂无练习句子")

// PracticeService 练习句子管理与随机出题
type PracticeService struct {
	sentenceRepo *repository.SentenceRepository

	mu  sync.Mutex
	rng *rand.Rand
}

func NewPracticeService(sentenceRepo *repository.SentenceRepository, rng *rand.Rand) *PracticeService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &PracticeService{
		sentenceRepo: sentenceRepo,
		rng:          rng,
	}
}

// GetRandomSentence 随机取一条练习句子，level 为空时不限等级
func (s *PracticeService) GetRandomSentence(level string) (*model.PracticeSentence, error) {
	count, err := s.sentenceRepo.CountByLevel(level)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNoSentences
	}

	s.mu.Lock()
	offset := s.rng.Intn(int(count))
	s.mu.Unlock()

	return s.sentenceRepo.GetAtOffset(level, offset)
}

// GetSentence 按 ID 获取句子
func (s *PracticeService) GetSentence(id int64) (*model.PracticeSentence, error) {
	sentence, err := s.sentenceRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSentences
		}
		return nil, err
	}
	return sentence, nil
}

// ListSentences 分页获取句子列表
func (s *PracticeService) ListSentences(level string, page, pageSize int) ([]*model.PracticeSentence, int64, error) {
	return s.sentenceRepo.List(level, page, pageSize)
}

// CreateSentence 新建练习句子（管理员）
func (s *PracticeService) CreateSentence(req *dto.CreateSentenceRequest) (*model.PracticeSentence, error) {
	sentence := &model.PracticeSentence{
		Sentence:    req.Sentence,
		Phonetic:    req.Phonetic,
		Translation: req.Translation,
		Level:       req.Level,
		Topic:       req.Topic,
	}
	if sentence.Topic == "" {
		sentence.Topic = "pronunciation"
	}

	if err := s.sentenceRepo.Create(sentence); err != nil {
		return nil, err
	}
	return sentence, nil
}

// UpdateSentence 更新练习句子（管理员）
func (s *PracticeService) UpdateSentence(id int64, req *dto.UpdateSentenceRequest) (*model.PracticeSentence, error) {
	sentence, err := s.sentenceRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSentences
		}
		return nil, err
	}

	if req.Sentence != nil {
		sentence.Sentence = *req.Sentence
	}
	if req.Phonetic != nil {
		sentence.Phonetic = req.Phonetic
	}
	if req.Translation != nil {
		sentence.Translation = req.Translation
	}
	if req.Level != nil {
		sentence.Level = *req.Level
	}
	if req.Topic != nil {
		sentence.Topic = *req.Topic
	}

	if err := s.sentenceRepo.Update(sentence); err != nil {
		return nil, err
	}
	return sentence, nil
}

// DeleteSentence 删除练习句子（管理员）
func (s *PracticeService) DeleteSentence(id int64) error {
	return s.sentenceRepo.Delete(id)
}
