package handler

import (
	"bytes"
	"context"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echomind/echomind_server/config"
	"github.com/echomind/echomind_server/internal/model"
	"github.com/echomind/echomind_server/internal/pkg/deepgram"
	"github.com/echomind/echomind_server/internal/pkg/response"
	"github.com/echomind/echomind_server/internal/repository"
	"github.com/echomind/echomind_server/internal/service"
	"github.com/echomind/echomind_server/internal/testutil"
)

// stubTranscriber 固定返回一段识别文本
type stubTranscriber struct {
	text string
}

func (s *stubTranscriber) Configured() bool { return true }

func (s *stubTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (*deepgram.Transcript, error) {
	return &deepgram.Transcript{Text: s.text}, nil
}

// stubSynth 固定返回一段合成音频
type stubSynth struct {
	audio []byte
}

func (s *stubSynth) Configured() bool { return true }

func (s *stubSynth) CloneVoice(ctx context.Context, name string, audio []byte, mimeType string) (string, error) {
	return "voice_stub", nil
}

func (s *stubSynth) TextToSpeech(ctx context.Context, text, voiceID string) ([]byte, error) {
	return s.audio, nil
}

func (s *stubSynth) DeleteVoice(ctx context.Context, voiceID string) error { return nil }

func setupPronunciationHandler(t *testing.T, transcriber service.Transcriber, synth service.VoiceSynthesizer) (*PronunciationHandler, *testContext) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	userRepo := repository.NewUserRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	cloneCfg := &config.VoiceCloneConfig{DailyLimit: 5}
	voiceService := service.NewVoiceCloneService(synth, service.NewQuotaService(userRepo, cloneCfg), userRepo)
	speechService := service.NewSpeechService(transcriber)

	pronunciationCfg := &config.PronunciationConfig{
		SentenceThreshold:   0.8,
		CorrectionThreshold: 85,
		Feedback:            config.DefaultFeedback(),
	}
	rng := rand.New(rand.NewSource(1))
	pronunciationService := service.NewPronunciationService(
		speechService, voiceService, userRepo, progressRepo, nil, pronunciationCfg, rng)
	userService := service.NewUserService(userRepo, progressRepo, nil)

	handler := NewPronunciationHandler(pronunciationService, voiceService, userService, &config.UploadConfig{})

	return handler, &testContext{DB: db}
}

// performMultipart 构造带录音文件的 multipart 请求
func performMultipart(r http.Handler, path string, fields map[string]string, audio []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		writer.WriteField(key, value)
	}
	if audio != nil {
		part, _ := writer.CreateFormFile("audio", "recording.webm")
		part.Write(audio)
	}
	writer.Close()

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPronunciationHandler_Analyze_Success(t *testing.T) {
	handler, ctx := setupPronunciationHandler(t, &stubTranscriber{text: "hello"}, &stubSynth{audio: []byte("mp3")})

	user := testutil.TestUser(t, ctx.DB)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.POST("/pronunciation/analyze", handler.Analyze)

	w := performMultipart(router, "/pronunciation/analyze", map[string]string{"word": "hello"}, []byte("audio"))
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(100), data["score"])
}

func TestPronunciationHandler_Analyze_MissingWord(t *testing.T) {
	handler, ctx := setupPronunciationHandler(t, &stubTranscriber{text: "hello"}, &stubSynth{})

	user := testutil.TestUser(t, ctx.DB)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.POST("/pronunciation/analyze", handler.Analyze)

	w := performMultipart(router, "/pronunciation/analyze", nil, []byte("audio"))
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestPronunciationHandler_AnalyzeAndCorrect_QuotaExhausted(t *testing.T) {
	handler, ctx := setupPronunciationHandler(t, &stubTranscriber{text: "anything"}, &stubSynth{audio: []byte("mp3")})

	today := time.Now().Format(model.CloneDateFormat)
	user := testutil.TestUser(t, ctx.DB, testutil.WithCloneUsage(5, today))

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.POST("/pronunciation/analyze-correct", handler.AnalyzeAndCorrect)

	// 当日第 6 次克隆请求直接被配额挡下
	w := performMultipart(router, "/pronunciation/analyze-correct",
		map[string]string{"sentence": "The quick brown fox."}, []byte("audio"))
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeQuotaExceeded, resp.Code)
}

func TestPronunciationHandler_AnalyzeAndCorrect_Success(t *testing.T) {
	handler, ctx := setupPronunciationHandler(t, &stubTranscriber{text: "the quick brown fox"}, &stubSynth{audio: []byte("mp3")})

	user := testutil.TestUser(t, ctx.DB)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.POST("/pronunciation/analyze-correct", handler.AnalyzeAndCorrect)

	w := performMultipart(router, "/pronunciation/analyze-correct",
		map[string]string{"sentence": "The quick brown fox."}, []byte("audio"))
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "correct", data["status"])
}
