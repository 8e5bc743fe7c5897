package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/echomind/echomind_server/internal/model/dto"
	"github.com/echomind/echomind_server/internal/pkg/response"
	"github.com/echomind/echomind_server/internal/service"
)

type WordHandler struct {
	wordService *service.WordService
}

func NewWordHandler(wordService *service.WordService) *WordHandler {
	return &WordHandler{
		wordService: wordService,
	}
}

// List 分页获取词汇
// GET /api/v1/words
func (h *WordHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	level := c.Query("level")
	topic := c.Query("topic")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	words, total, err := h.wordService.ListWords(level, topic, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, words)
}

// Get 获取单个词汇
// GET /api/v1/words/:id
func (h *WordHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的词汇ID")
		return
	}

	word, err := h.wordService.GetWord(id)
	if err != nil {
		if errors.Is(err, service.ErrWordEntryNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, word)
}

// Create 新建词汇（管理员）
// POST /api/v1/admin/words
func (h *WordHandler) Create(c *gin.Context) {
	var req dto.CreateWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	word, err := h.wordService.CreateWord(c.Request.Context(), &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "创建成功", word)
}

// Update 更新词汇（管理员）
// PUT /api/v1/admin/words/:id
func (h *WordHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的词汇ID")
		return
	}

	var req dto.UpdateWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	word, err := h.wordService.UpdateWord(id, &req)
	if err != nil {
		if errors.Is(err, service.ErrWordEntryNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "更新成功", word)
}

// Delete 删除词汇（管理员）
// DELETE /api/v1/admin/words/:id
func (h *WordHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的词汇ID")
		return
	}

	if err := h.wordService.DeleteWord(id); err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
