package handler

import (
	"errors"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/echomind/echomind_server/internal/api/middleware"
	"github.com/echomind/echomind_server/internal/model/dto"
	"github.com/echomind/echomind_server/internal/pkg/response"
	"github.com/echomind/echomind_server/internal/service"
)

type QuizHandler struct {
	quizService *service.QuizService
	userService *service.UserService
}

func NewQuizHandler(quizService *service.QuizService, userService *service.UserService) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		userService: userService,
	}
}

// List 分页获取测验
// GET /api/v1/quizzes
func (h *QuizHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	level := c.Query("level")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	quizzes, total, err := h.quizService.ListQuizzes(level, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, quizzes)
}

// Get 获取测验详情（含题目）
// GET /api/v1/quizzes/:id
func (h *QuizHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的测验ID")
		return
	}

	quiz, err := h.quizService.GetQuiz(id)
	if err != nil {
		if errors.Is(err, service.ErrQuizNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, quiz)
}

// Submit 提交测验答案
// POST /api/v1/quizzes/:id/submit
func (h *QuizHandler) Submit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	quizID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的测验ID")
		return
	}

	var req dto.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	result, err := h.quizService.Submit(userID, quizID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuizNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrAnswerMismatch):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	// 测验计入打卡，失败不影响返回
	if err := h.userService.TouchActivity(userID); err != nil {
		log.Printf("failed to touch activity for user %d: %v", userID, err)
	}

	response.Success(c, result)
}

// Create 新建测验（管理员）
// POST /api/v1/admin/quizzes
func (h *QuizHandler) Create(c *gin.Context) {
	var req dto.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	quiz, err := h.quizService.CreateQuiz(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuestion) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "创建成功", quiz)
}

// Delete 删除测验（管理员）
// DELETE /api/v1/admin/quizzes/:id
func (h *QuizHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的测验ID")
		return
	}

	if err := h.quizService.DeleteQuiz(id); err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
