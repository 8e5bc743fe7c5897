package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echomind/echomind_server/config"
	"github.com/echomind/echomind_server/internal/model"
	"github.com/echomind/echomind_server/internal/repository"
	"github.com/echomind/echomind_server/internal/testutil"
)

// fakeSynth 声音克隆供应商的测试替身
type fakeSynth struct {
	configured bool
	voiceID    string
	cloneErr   error
	ttsData    []byte
	ttsErr     error

	cloneCalls int
	ttsCalls   int
	deleted    []string
}

func (f *fakeSynth) Configured() bool { return f.configured }

func (f *fakeSynth) CloneVoice(ctx context.Context, name string, audio []byte, mimeType string) (string, error) {
	f.cloneCalls++
	if f.cloneErr != nil {
		return "", f.cloneErr
	}
	return f.voiceID, nil
}

func (f *fakeSynth) TextToSpeech(ctx context.Context, text, voiceID string) ([]byte, error) {
	f.ttsCalls++
	if f.ttsErr != nil {
		return nil, f.ttsErr
	}
	return f.ttsData, nil
}

func (f *fakeSynth) DeleteVoice(ctx context.Context, voiceID string) error {
	f.deleted = append(f.deleted, voiceID)
	return nil
}

func newVoiceCloneService(userRepo *repository.UserRepository, synth *fakeSynth) *VoiceCloneService {
	cfg := &config.VoiceCloneConfig{DailyLimit: 5}
	return NewVoiceCloneService(synth, NewQuotaService(userRepo, cfg), userRepo)
}

func TestVoiceCloneService_SpeakPersisted_SavesVoice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	userRepo := repository.NewUserRepository(db)
	synth := &fakeSynth{configured: true, voiceID: "voice_new", ttsData: []byte("mp3-bytes")}
	service := newVoiceCloneService(userRepo, synth)

	user := testutil.TestUser(t, db)

	data, err := service.SpeakPersisted(context.Background(), user, []byte("sample"), "audio/webm", "hello world")
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3-bytes"), data)
	assert.Equal(t, 1, synth.cloneCalls)
	assert.Empty(t, synth.deleted)

	// 音色已保存，配额已占用
	updated, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.VoiceCloneID)
	assert.Equal(t, "voice_new", *updated.VoiceCloneID)
	assert.Equal(t, 1, updated.DailyCloneCount)
}

func TestVoiceCloneService_SpeakPersisted_ReusesSavedVoice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	userRepo := repository.NewUserRepository(db)
	synth := &fakeSynth{configured: true, voiceID: "ignored", ttsData: []byte("audio")}
	service := newVoiceCloneService(userRepo, synth)

	user := testutil.TestUser(t, db, testutil.WithVoiceClone("voice_saved"))

	_, err := service.SpeakPersisted(context.Background(), user, nil, "", "hello")
	require.NoError(t, err)

	// 有保存的音色时不再克隆
	assert.Equal(t, 0, synth.cloneCalls)
	assert.Equal(t, 1, synth.ttsCalls)
}

func TestVoiceCloneService_SpeakEphemeral_DeletesVoice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	userRepo := repository.NewUserRepository(db)
	synth := &fakeSynth{configured: true, voiceID: "voice_tmp", ttsData: []byte("audio")}
	service := newVoiceCloneService(userRepo, synth)

	user := testutil.TestUser(t, db)

	_, err := service.SpeakEphemeral(context.Background(), user, []byte("sample"), "audio/webm", "hello")
	require.NoError(t, err)

	// 临时音色用完即删，不写库
	assert.Equal(t, []string{"voice_tmp"}, synth.deleted)
	updated, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Nil(t, updated.VoiceCloneID)
}

func TestVoiceCloneService_SpeakEphemeral_IgnoresSavedVoice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	userRepo := repository.NewUserRepository(db)
	synth := &fakeSynth{configured: true, voiceID: "voice_once", ttsData: []byte("audio")}
	service := newVoiceCloneService(userRepo, synth)

	user := testutil.TestUser(t, db, testutil.WithVoiceClone("voice_saved"))

	_, err := service.SpeakEphemeral(context.Background(), user, []byte("sample"), "audio/webm", "hello")
	require.NoError(t, err)

	// 临时路径不复用保存的音色：新克隆一个、用完删掉，库里的记录原样保留
	assert.Equal(t, 1, synth.cloneCalls)
	assert.Equal(t, []string{"voice_once"}, synth.deleted)
	updated, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.VoiceCloneID)
	assert.Equal(t, "voice_saved", *updated.VoiceCloneID)
}

func TestVoiceCloneService_Speak_Unconfigured(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	userRepo := repository.NewUserRepository(db)
	synth := &fakeSynth{configured: false}
	service := newVoiceCloneService(userRepo, synth)

	user := testutil.TestUser(t, db)

	_, err := service.SpeakPersisted(context.Background(), user, []byte("sample"), "audio/webm", "hello")
	assert.ErrorIs(t, err, ErrVoiceServiceUnavailable)
}

func TestVoiceCloneService_Speak_QuotaExceeded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	userRepo := repository.NewUserRepository(db)
	synth := &fakeSynth{configured: true, voiceID: "voice_x", ttsData: []byte("audio")}
	service := newVoiceCloneService(userRepo, synth)

	today := time.Now().Format(model.CloneDateFormat)
	user := testutil.TestUser(t, db, testutil.WithCloneUsage(5, today))

	_, err := service.SpeakPersisted(context.Background(), user, []byte("sample"), "audio/webm", "hello")
	assert.ErrorIs(t, err, ErrCloneQuotaExceeded)
	assert.Equal(t, 0, synth.ttsCalls)
}

func TestVoiceCloneService_Speak_ReleasesQuotaOnFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	userRepo := repository.NewUserRepository(db)
	synth := &fakeSynth{configured: true, voiceID: "voice_x", ttsErr: errors.New("provider down")}
	service := newVoiceCloneService(userRepo, synth)

	user := testutil.TestUser(t, db)

	_, err := service.SpeakPersisted(context.Background(), user, []byte("sample"), "audio/webm", "hello")
	require.Error(t, err)

	// 合成失败时配额回滚
	updated, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.DailyCloneCount)
}

func TestVoiceCloneService_Speak_NoSampleForNewClone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	userRepo := repository.NewUserRepository(db)
	synth := &fakeSynth{configured: true, voiceID: "voice_x", ttsData: []byte("audio")}
	service := newVoiceCloneService(userRepo, synth)

	user := testutil.TestUser(t, db)

	_, err := service.SpeakPersisted(context.Background(), user, nil, "", "hello")
	assert.ErrorIs(t, err, ErrNoVoiceSample)
}

func TestVoiceCloneService_Status(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	userRepo := repository.NewUserRepository(db)
	synth := &fakeSynth{configured: true}
	service := newVoiceCloneService(userRepo, synth)

	today := time.Now().Format(model.CloneDateFormat)
	user := testutil.TestUser(t, db, testutil.WithVoiceClone("voice_a"), testutil.WithCloneUsage(2, today))

	status := service.Status(user)
	assert.True(t, status.HasVoiceClone)
	assert.Equal(t, 3, status.UsageRemaining)
	assert.Equal(t, 5, status.DailyLimit)
}

func TestVoiceCloneService_DeleteClone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	userRepo := repository.NewUserRepository(db)
	synth := &fakeSynth{configured: true}
	service := newVoiceCloneService(userRepo, synth)

	user := testutil.TestUser(t, db, testutil.WithVoiceClone("voice_gone"))

	require.NoError(t, service.DeleteClone(context.Background(), user))

	assert.Equal(t, []string{"voice_gone"}, synth.deleted)
	updated, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Nil(t, updated.VoiceCloneID)
}
