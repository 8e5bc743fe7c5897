package handler

import (
	"errors"
	"io"
	"log"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/echomind/echomind_server/config"
	"github.com/echomind/echomind_server/internal/api/middleware"
	"github.com/echomind/echomind_server/internal/pkg/response"
	"github.com/echomind/echomind_server/internal/service"
)

type PronunciationHandler struct {
	pronunciationService *service.PronunciationService
	voiceService         *service.VoiceCloneService
	userService          *service.UserService
	uploadCfg            *config.UploadConfig
}

func NewPronunciationHandler(
	pronunciationService *service.PronunciationService,
	voiceService *service.VoiceCloneService,
	userService *service.UserService,
	uploadCfg *config.UploadConfig,
) *PronunciationHandler {
	return &PronunciationHandler{
		pronunciationService: pronunciationService,
		voiceService:         voiceService,
		userService:          userService,
		uploadCfg:            uploadCfg,
	}
}

// readAudio 读取 multipart 表单中的录音文件。
// 识别服务不可用时允许不传录音（离线模式），此时返回空数据。
func (h *PronunciationHandler) readAudio(c *gin.Context, required bool) ([]byte, string, bool) {
	file, err := c.FormFile("audio")
	if err != nil {
		if !required {
			return nil, "", true
		}
		response.ParamError(c, "请上传录音文件")
		return nil, "", false
	}

	if h.uploadCfg.MaxAudioSize > 0 && file.Size > h.uploadCfg.MaxAudioSize {
		response.ParamError(c, "录音文件过大")
		return nil, "", false
	}

	contentType := file.Header.Get("Content-Type")
	if !h.audioTypeAllowed(contentType) {
		response.ParamError(c, "不支持的录音格式")
		return nil, "", false
	}

	data, ok := readFile(c, file)
	if !ok {
		return nil, "", false
	}

	return data, contentType, true
}

func (h *PronunciationHandler) audioTypeAllowed(contentType string) bool {
	if len(h.uploadCfg.AudioTypes) == 0 {
		return true
	}
	for _, allowed := range h.uploadCfg.AudioTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

func readFile(c *gin.Context, file *multipart.FileHeader) ([]byte, bool) {
	f, err := file.Open()
	if err != nil {
		response.ServerError(c, "文件读取失败")
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.ServerError(c, "文件读取失败")
		return nil, false
	}
	return data, true
}

// Analyze 单词发音评分
// POST /api/v1/pronunciation/analyze (multipart: word, audio)
func (h *PronunciationHandler) Analyze(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	word := c.PostForm("word")
	if word == "" {
		response.ParamError(c, "缺少 word 参数")
		return
	}

	audio, contentType, ok := h.readAudio(c, false)
	if !ok {
		return
	}

	result, err := h.pronunciationService.AnalyzeWord(c.Request.Context(), userID, word, audio, contentType)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, result)
}

// AnalyzeAndCorrect 整句练习：评分并用用户音色合成纠正音频
// POST /api/v1/pronunciation/analyze-correct (multipart: sentence, audio)
func (h *PronunciationHandler) AnalyzeAndCorrect(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	sentence := c.PostForm("sentence")
	if sentence == "" {
		response.ParamError(c, "缺少 sentence 参数")
		return
	}

	audio, contentType, ok := h.readAudio(c, false)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(userID)
	if err != nil {
		response.AuthError(c, "")
		return
	}

	result, err := h.pronunciationService.AnalyzeAndCorrect(c.Request.Context(), user, sentence, audio, contentType)
	if err != nil {
		if errors.Is(err, service.ErrCloneQuotaExceeded) {
			response.QuotaError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	// 练习活动计入打卡，失败不影响返回
	if err := h.userService.TouchActivity(userID); err != nil {
		log.Printf("failed to touch activity for user %d: %v", userID, err)
	}

	response.Success(c, result)
}

// CloneCorrect 用用户克隆音色朗读指定文本
// POST /api/v1/pronunciation/clone-correct (multipart: text, audio)
func (h *PronunciationHandler) CloneCorrect(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	text := c.PostForm("text")
	if text == "" {
		response.ParamError(c, "缺少 text 参数")
		return
	}

	audio, contentType, ok := h.readAudio(c, false)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(userID)
	if err != nil {
		response.AuthError(c, "")
		return
	}

	result, err := h.pronunciationService.CloneCorrect(c.Request.Context(), user, text, audio, contentType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCloneQuotaExceeded):
			response.QuotaError(c, err.Error())
		case errors.Is(err, service.ErrNoVoiceSample):
			response.NoVoiceSampleError(c, err.Error())
		case errors.Is(err, service.ErrVoiceServiceUnavailable):
			response.ServerError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, result)
}

// VoiceStatus 声音克隆状态与剩余配额
// GET /api/v1/pronunciation/voice-status
func (h *PronunciationHandler) VoiceStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	user, err := h.userService.GetUser(userID)
	if err != nil {
		response.AuthError(c, "")
		return
	}

	response.Success(c, h.voiceService.Status(user))
}

// DeleteVoiceClone 删除已保存的声音克隆
// DELETE /api/v1/pronunciation/voice-clone
func (h *PronunciationHandler) DeleteVoiceClone(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	user, err := h.userService.GetUser(userID)
	if err != nil {
		response.AuthError(c, "")
		return
	}

	if err := h.voiceService.DeleteClone(c.Request.Context(), user); err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "已删除", nil)
}

// Phonetics 词典音标查询
// GET /api/v1/pronunciation/phonetics/:word
func (h *PronunciationHandler) Phonetics(c *gin.Context) {
	word := c.Param("word")
	if word == "" {
		response.ParamError(c, "缺少 word 参数")
		return
	}

	result, err := h.pronunciationService.Phonetics(c.Request.Context(), word)
	if err != nil {
		if errors.Is(err, service.ErrWordNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, result)
}
