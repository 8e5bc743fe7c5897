package service

import (
	"context"
	"encoding/base64"
	"errors"
	"log"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/echomind/echomind_server/config"
	"github.com/echomind/echomind_server/internal/model"
	"github.com/echomind/echomind_server/internal/model/dto"
	"github.com/echomind/echomind_server/internal/pkg/dictapi"
	"github.com/echomind/echomind_server/internal/pkg/similarity"
	"github.com/echomind/echomind_server/internal/repository"
)

var ErrWordNotFound = errors.New("未找到该单词")

const (
	StatusCorrect   = "correct"
	StatusIncorrect = "incorrect"
)

// PronunciationService 发音练习编排：识别、评分、反馈、克隆纠正
type PronunciationService struct {
	speech       *SpeechService
	voice        *VoiceCloneService
	userRepo     *repository.UserRepository
	progressRepo *repository.ProgressRepository
	dict         *dictapi.Client
	cfg          *config.PronunciationConfig

	sentencePolicy similarity.WordOverlapPolicy
	wordPolicy     similarity.LevenshteinPolicy

	// rand.Rand 非并发安全，离线分析统一走 offlineAnalyze
	mu  sync.Mutex
	rng *rand.Rand
}

func NewPronunciationService(
	speech *SpeechService,
	voice *VoiceCloneService,
	userRepo *repository.UserRepository,
	progressRepo *repository.ProgressRepository,
	dict *dictapi.Client,
	cfg *config.PronunciationConfig,
	rng *rand.Rand,
) *PronunciationService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &PronunciationService{
		speech:         speech,
		voice:          voice,
		userRepo:       userRepo,
		progressRepo:   progressRepo,
		dict:           dict,
		cfg:            cfg,
		sentencePolicy: similarity.WordOverlapPolicy{Threshold: cfg.SentenceThreshold},
		wordPolicy:     similarity.LevenshteinPolicy{Threshold: cfg.CorrectionThreshold},
		rng:            rng,
	}
}

// AnalyzeWord 单词跟读评分，落进度记录并累加积分。
// 识别服务不可用时退化为离线音节演示。
func (s *PronunciationService) AnalyzeWord(ctx context.Context, userID int64, word string, audio []byte, mimeType string) (*dto.AnalyzeResult, error) {
	var result *dto.AnalyzeResult

	switch {
	case !s.speech.Available():
		result = s.analyzeWordOffline(word)
	default:
		transcript, err := s.speech.Transcribe(ctx, audio, mimeType)
		if err != nil {
			// 识别失败不阻断练习，降级为离线分析
			log.Printf("transcription failed, falling back to offline analysis: %v", err)
			result = s.analyzeWordOffline(word)
			break
		}

		score := s.wordPolicy.Score(word, transcript.Text)
		result = &dto.AnalyzeResult{
			Score:           score,
			Transcription:   transcript.Text,
			ExpectedText:    word,
			NeedsCorrection: s.wordPolicy.NeedsCorrection(score),
			Feedback:        similarity.FeedbackFor(score, s.cfg.Feedback),
		}
		for _, w := range transcript.Words {
			result.WordConfidences = append(result.WordConfidences, dto.WordConfidence{
				Word:       w.Word,
				Confidence: w.Confidence,
			})
		}
	}

	s.recordPractice(userID, word, result.Score)
	return result, nil
}

func (s *PronunciationService) analyzeWordOffline(word string) *dto.AnalyzeResult {
	analysis := s.offlineAnalyze(word)

	return &dto.AnalyzeResult{
		Score: analysis.Score,
		// 离线模式回显目标词作为识别结果
		Transcription:   strings.ToLower(word),
		ExpectedText:    word,
		NeedsCorrection: s.wordPolicy.NeedsCorrection(analysis.Score),
		Feedback:        similarity.FeedbackFor(analysis.Score, s.cfg.Feedback),
		Offline:         true,
		Syllables:       toSyllableDTO(analysis.Syllables),
	}
}

// recordPractice 落一条发音练习进度并累加积分，失败只记日志不影响返回
func (s *PronunciationService) recordPractice(userID int64, word string, score int) {
	points := score / 10
	record := &model.Progress{
		UserID:       userID,
		Type:         model.ProgressPronunciation,
		Score:        score,
		PointsEarned: points,
		Word:         word,
	}
	if err := s.progressRepo.Create(record); err != nil {
		log.Printf("failed to record practice progress for user %d: %v", userID, err)
		return
	}
	if points > 0 {
		if err := s.userRepo.AddPoints(userID, points); err != nil {
			log.Printf("failed to add points for user %d: %v", userID, err)
		}
	}
}

// AnalyzeAndCorrect 整句练习：评分，不达标时用一次性克隆音色合成标准读音。
// 配额先于识别校验，用完直接拒绝；合成环节的故障只降级（丢失纠正音频），不报错。
func (s *PronunciationService) AnalyzeAndCorrect(ctx context.Context, user *model.User, sentence string, audio []byte, mimeType string) (*dto.AnalyzeAndCorrectResult, error) {
	// 配额用完就不再浪费一次识别调用
	if s.voice.quota.Remaining(user) <= 0 {
		return nil, ErrCloneQuotaExceeded
	}

	if !s.speech.Available() {
		return s.analyzeSentenceOffline(user, sentence), nil
	}

	transcript, err := s.speech.Transcribe(ctx, audio, mimeType)
	if err != nil {
		log.Printf("transcription failed, falling back to offline analysis: %v", err)
		return s.analyzeSentenceOffline(user, sentence), nil
	}

	score := s.sentencePolicy.Score(sentence, transcript.Text)
	percent := int(math.Round(score * 100))

	result := &dto.AnalyzeAndCorrectResult{
		Transcript: transcript.Text,
		Similarity: percent,
		Feedback:   similarity.FeedbackFor(percent, s.cfg.Feedback),
	}

	if s.sentencePolicy.Correct(score) {
		result.Status = StatusCorrect
	} else {
		result.Status = StatusIncorrect
		result.CommonMistakes = missingWords(sentence, transcript.Text)

		// 纠正音频是尽力而为：合成环节的失败只损失这个字段
		corrected, speakErr := s.voice.SpeakEphemeral(ctx, user, audio, mimeType, sentence)
		switch {
		case speakErr == nil:
			result.CorrectedAudio = base64.StdEncoding.EncodeToString(corrected)
		case errors.Is(speakErr, ErrCloneQuotaExceeded),
			errors.Is(speakErr, ErrVoiceServiceUnavailable),
			errors.Is(speakErr, ErrNoVoiceSample):
			// 配额入口已挡过，这里只剩并发占用或缺配置的降级情形
		default:
			log.Printf("voice correction failed for user %d: %v", user.ID, speakErr)
		}
	}

	result.RemainingClones = s.remainingClones(user)
	return result, nil
}

func (s *PronunciationService) analyzeSentenceOffline(user *model.User, sentence string) *dto.AnalyzeAndCorrectResult {
	var all []similarity.Syllable
	total := 0
	count := 0

	for _, word := range strings.Fields(sentence) {
		analysis := s.offlineAnalyze(strings.Trim(word, ".,!?"))
		all = append(all, analysis.Syllables...)
		total += analysis.Score
		count++
	}

	score := 0
	if count > 0 {
		score = total / count
	}

	status := StatusIncorrect
	if float64(score)/100 >= s.sentencePolicy.Threshold {
		status = StatusCorrect
	}

	return &dto.AnalyzeAndCorrectResult{
		Status: status,
		// 离线模式回显目标句作为识别结果
		Transcript:      strings.ToLower(sentence),
		Similarity:      score,
		Feedback:        similarity.FeedbackFor(score, s.cfg.Feedback),
		WordAnalysis:    toSyllableDTO(all),
		RemainingClones: s.remainingClones(user),
	}
}

// CloneCorrect 用用户保存的克隆音色朗读指定文本
func (s *PronunciationService) CloneCorrect(ctx context.Context, user *model.User, text string, audio []byte, mimeType string) (*dto.CloneCorrectResult, error) {
	data, err := s.voice.SpeakPersisted(ctx, user, audio, mimeType, text)
	if err != nil {
		return nil, err
	}

	return &dto.CloneCorrectResult{
		Audio:          base64.StdEncoding.EncodeToString(data),
		ContentType:    "audio/mpeg",
		UsageRemaining: s.remainingClones(user),
		Text:           text,
	}, nil
}

// Phonetics 查询单词音标与释义
func (s *PronunciationService) Phonetics(ctx context.Context, word string) (*dto.Phonetics, error) {
	entry, err := s.dict.Lookup(ctx, word)
	if err != nil {
		if errors.Is(err, dictapi.ErrNotFound) {
			return nil, ErrWordNotFound
		}
		return nil, err
	}

	result := &dto.Phonetics{
		Word:     entry.Word,
		Phonetic: entry.Phonetic,
		AudioURL: entry.AudioURL,
	}
	for _, m := range entry.Meanings {
		result.Meanings = append(result.Meanings, dto.PhoneticMeaning{
			PartOfSpeech: m.PartOfSpeech,
			Definition:   m.Definition,
		})
	}

	return result, nil
}

func (s *PronunciationService) offlineAnalyze(word string) similarity.OfflineAnalysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return similarity.AnalyzeOffline(word, s.rng)
}

// remainingClones 重新读库取最新计数，Speak 之后内存里的 user 已过期
func (s *PronunciationService) remainingClones(user *model.User) int {
	fresh, err := s.userRepo.GetByID(user.ID)
	if err != nil {
		fresh = user
	}
	return s.voice.quota.Remaining(fresh)
}

func toSyllableDTO(syllables []similarity.Syllable) []dto.SyllableAnalysis {
	out := make([]dto.SyllableAnalysis, len(syllables))
	for i, syl := range syllables {
		out[i] = dto.SyllableAnalysis{
			Syllable: syl.Text,
			Correct:  syl.Correct,
			Phonetic: syl.Phonetic,
			Tip:      syl.Tip,
		}
	}
	return out
}

// missingWords 目标句中未被识别出来的词，作为常见错误提示
func missingWords(target, transcript string) []string {
	spoken := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(stripPunct(transcript))) {
		spoken[w] = struct{}{}
	}

	var missing []string
	seen := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(stripPunct(target))) {
		if _, ok := spoken[w]; ok {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		missing = append(missing, w)
	}
	return missing
}

func stripPunct(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '!', '?':
			return -1
		}
		return r
	}, s)
}
