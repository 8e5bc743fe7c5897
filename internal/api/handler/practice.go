package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/echomind/echomind_server/internal/model"
	"github.com/echomind/echomind_server/internal/model/dto"
	"github.com/echomind/echomind_server/internal/pkg/response"
	"github.com/echomind/echomind_server/internal/service"
)

type PracticeHandler struct {
	practiceService *service.PracticeService
}

func NewPracticeHandler(practiceService *service.PracticeService) *PracticeHandler {
	return &PracticeHandler{
		practiceService: practiceService,
	}
}

// GetRandomSentence 按等级随机取一条练习句子
// GET /api/v1/practice/sentence?level=beginner
func (h *PracticeHandler) GetRandomSentence(c *gin.Context) {
	level := c.DefaultQuery("level", model.LevelBeginner)

	sentence, err := h.practiceService.GetRandomSentence(level)
	if err != nil {
		if errors.Is(err, service.ErrNoSentences) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, sentence)
}

// ListSentences 分页获取练习句子
// GET /api/v1/practice/sentences
func (h *PracticeHandler) ListSentences(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	level := c.Query("level")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	sentences, total, err := h.practiceService.ListSentences(level, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, sentences)
}

// CreateSentence 新建练习句子（管理员）
// POST /api/v1/admin/practice/sentences
func (h *PracticeHandler) CreateSentence(c *gin.Context) {
	var req dto.CreateSentenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	sentence, err := h.practiceService.CreateSentence(&req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "创建成功", sentence)
}

// UpdateSentence 更新练习句子（管理员）
// PUT /api/v1/admin/practice/sentences/:id
func (h *PracticeHandler) UpdateSentence(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的句子ID")
		return
	}

	var req dto.UpdateSentenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	sentence, err := h.practiceService.UpdateSentence(id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNoSentences) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "更新成功", sentence)
}

// DeleteSentence 删除练习句子（管理员）
// DELETE /api/v1/admin/practice/sentences/:id
func (h *PracticeHandler) DeleteSentence(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的句子ID")
		return
	}

	if err := h.practiceService.DeleteSentence(id); err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
