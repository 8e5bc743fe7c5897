package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/echomind/echomind_server/internal/model"
	"github.com/echomind/echomind_server/internal/model/dto"
	"github.com/echomind/echomind_server/internal/repository"
)

var (
	ErrVoiceServiceUnavailable = errors.New("语音合成服务暂不可用")
	ErrNoVoiceSample           = errors.New("缺少录音样本，无法创建声音克隆")
)

// VoiceSynthesizer 声音克隆供应商适配层
type VoiceSynthesizer interface {
	Configured() bool
	CloneVoice(ctx context.Context, name string, audio []byte, mimeType string) (string, error)
	TextToSpeech(ctx context.Context, text, voiceID string) ([]byte, error)
	DeleteVoice(ctx context.Context, voiceID string) error
}

// VoiceResolver 决定一次合成使用哪个音色。
// 返回的 cleanup 在合成完成后调用（可为 nil）。
type VoiceResolver interface {
	Resolve(ctx context.Context, user *model.User, audio []byte, mimeType string) (voiceID string, cleanup func(context.Context), err error)
}

// PersistedResolver 复用用户保存的音色，没有时克隆并保存
type PersistedResolver struct {
	synth    VoiceSynthesizer
	userRepo *repository.UserRepository
}

func NewPersistedResolver(synth VoiceSynthesizer, userRepo *repository.UserRepository) *PersistedResolver {
	return &PersistedResolver{synth: synth, userRepo: userRepo}
}

func (r *PersistedResolver) Resolve(ctx context.Context, user *model.User, audio []byte, mimeType string) (string, func(context.Context), error) {
	if user.VoiceCloneID != nil && *user.VoiceCloneID != "" {
		return *user.VoiceCloneID, nil, nil
	}

	if len(audio) == 0 {
		return "", nil, ErrNoVoiceSample
	}

	voiceID, err := r.synth.CloneVoice(ctx, cloneName(user.ID), audio, mimeType)
	if err != nil {
		return "", nil, fmt.Errorf("failed to clone voice: %w", err)
	}

	if err := r.userRepo.SetVoiceClone(user.ID, voiceID); err != nil {
		// 保存失败不阻断本次合成，下次会重新克隆
		log.Printf("failed to persist voice clone for user %d: %v", user.ID, err)
	}

	return voiceID, nil, nil
}

// EphemeralResolver 每次克隆临时音色，用完即删
type EphemeralResolver struct {
	synth VoiceSynthesizer
}

func NewEphemeralResolver(synth VoiceSynthesizer) *EphemeralResolver {
	return &EphemeralResolver{synth: synth}
}

func (r *EphemeralResolver) Resolve(ctx context.Context, user *model.User, audio []byte, mimeType string) (string, func(context.Context), error) {
	if len(audio) == 0 {
		return "", nil, ErrNoVoiceSample
	}

	voiceID, err := r.synth.CloneVoice(ctx, cloneName(user.ID), audio, mimeType)
	if err != nil {
		return "", nil, fmt.Errorf("failed to clone voice: %w", err)
	}

	cleanup := func(ctx context.Context) {
		// 临时音色删除失败只记日志，不影响结果
		if err := r.synth.DeleteVoice(ctx, voiceID); err != nil {
			log.Printf("failed to delete ephemeral voice %s: %v", voiceID, err)
		}
	}

	return voiceID, cleanup, nil
}

func cloneName(userID int64) string {
	return fmt.Sprintf("echomind_user_%d", userID)
}

// VoiceCloneService 声音克隆与合成的编排：配额占用、音色解析、语音合成。
// 两种音色生命周期由调用方按场景选择：整句纠正用临时音色，克隆朗读复用保存的音色。
type VoiceCloneService struct {
	synth     VoiceSynthesizer
	persisted VoiceResolver
	ephemeral VoiceResolver
	quota     *QuotaService
	userRepo  *repository.UserRepository
}

func NewVoiceCloneService(synth VoiceSynthesizer, quota *QuotaService, userRepo *repository.UserRepository) *VoiceCloneService {
	return &VoiceCloneService{
		synth:     synth,
		persisted: NewPersistedResolver(synth, userRepo),
		ephemeral: NewEphemeralResolver(synth),
		quota:     quota,
		userRepo:  userRepo,
	}
}

// Available 是否配置了声音克隆服务
func (s *VoiceCloneService) Available() bool {
	return s.synth.Configured()
}

// SpeakPersisted 用用户保存的音色朗读文本（没有时克隆并保存），返回 mp3 字节
func (s *VoiceCloneService) SpeakPersisted(ctx context.Context, user *model.User, audio []byte, mimeType, text string) ([]byte, error) {
	return s.speakWith(ctx, s.persisted, user, audio, mimeType, text)
}

// SpeakEphemeral 用一次性临时音色朗读文本，合成后即删，不在用户上留痕
func (s *VoiceCloneService) SpeakEphemeral(ctx context.Context, user *model.User, audio []byte, mimeType, text string) ([]byte, error) {
	return s.speakWith(ctx, s.ephemeral, user, audio, mimeType, text)
}

// speakWith 占用一次每日配额后合成；供应商调用失败时配额回滚
func (s *VoiceCloneService) speakWith(ctx context.Context, resolver VoiceResolver, user *model.User, audio []byte, mimeType, text string) ([]byte, error) {
	if !s.synth.Configured() {
		return nil, ErrVoiceServiceUnavailable
	}

	if err := s.quota.Acquire(user.ID); err != nil {
		return nil, err
	}

	result, err := s.speak(ctx, resolver, user, audio, mimeType, text)
	if err != nil {
		if releaseErr := s.quota.Release(user.ID); releaseErr != nil {
			log.Printf("failed to release clone quota for user %d: %v", user.ID, releaseErr)
		}
		return nil, err
	}

	return result, nil
}

func (s *VoiceCloneService) speak(ctx context.Context, resolver VoiceResolver, user *model.User, audio []byte, mimeType, text string) ([]byte, error) {
	voiceID, cleanup, err := resolver.Resolve(ctx, user, audio, mimeType)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup(ctx)
	}

	data, err := s.synth.TextToSpeech(ctx, text, voiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}

	return data, nil
}

// Status 用户声音克隆状态与剩余配额
func (s *VoiceCloneService) Status(user *model.User) *dto.VoiceStatus {
	return &dto.VoiceStatus{
		HasVoiceClone:  user.VoiceCloneID != nil && *user.VoiceCloneID != "",
		UsageRemaining: s.quota.Remaining(user),
		DailyLimit:     s.quota.DailyLimit(),
	}
}

// DeleteClone 删除用户保存的音色（供应商侧与数据库侧）
func (s *VoiceCloneService) DeleteClone(ctx context.Context, user *model.User) error {
	if user.VoiceCloneID == nil || *user.VoiceCloneID == "" {
		return nil
	}

	if s.synth.Configured() {
		if err := s.synth.DeleteVoice(ctx, *user.VoiceCloneID); err != nil {
			// 供应商侧删除失败不阻断，本地记录先清掉
			log.Printf("failed to delete voice %s for user %d: %v", *user.VoiceCloneID, user.ID, err)
		}
	}

	return s.userRepo.ClearVoiceClone(user.ID)
}
