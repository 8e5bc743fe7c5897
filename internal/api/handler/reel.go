package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/echomind/echomind_server/config"
	"github.com/echomind/echomind_server/internal/api/middleware"
	"github.com/echomind/echomind_server/internal/model/dto"
	"github.com/echomind/echomind_server/internal/pkg/response"
	"github.com/echomind/echomind_server/internal/service"
)

type ReelHandler struct {
	reelService *service.ReelService
	uploadCfg   *config.UploadConfig
}

func NewReelHandler(reelService *service.ReelService, uploadCfg *config.UploadConfig) *ReelHandler {
	return &ReelHandler{
		reelService: reelService,
		uploadCfg:   uploadCfg,
	}
}

// List 分页获取 Reel（可选认证，登录后附带互动状态）
// GET /api/v1/reels
func (h *ReelHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	level := c.Query("level")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var userID int64
	if id, ok := middleware.GetUserID(c); ok {
		userID = id
	}

	items, total, err := h.reelService.ListReels(userID, level, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Get 获取单个 Reel
// GET /api/v1/reels/:id
func (h *ReelHandler) Get(c *gin.Context) {
	reelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的视频ID")
		return
	}

	var userID int64
	if id, ok := middleware.GetUserID(c); ok {
		userID = id
	}

	item, err := h.reelService.GetReel(userID, reelID)
	if err != nil {
		if errors.Is(err, service.ErrReelNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, item)
}

// ToggleLike 点赞/取消点赞
// POST /api/v1/reels/:id/like
func (h *ReelHandler) ToggleLike(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	reelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的视频ID")
		return
	}

	resp, err := h.reelService.ToggleLike(userID, reelID)
	if err != nil {
		if errors.Is(err, service.ErrReelNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, resp)
}

// ToggleBookmark 收藏/取消收藏
// POST /api/v1/reels/:id/bookmark
func (h *ReelHandler) ToggleBookmark(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	reelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的视频ID")
		return
	}

	resp, err := h.reelService.ToggleBookmark(userID, reelID)
	if err != nil {
		if errors.Is(err, service.ErrReelNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, resp)
}

// ListBookmarked 用户收藏的 Reel 列表
// GET /api/v1/reels/bookmarked
func (h *ReelHandler) ListBookmarked(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.reelService.ListBookmarked(userID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Create 上传并发布 Reel（管理员）
// POST /api/v1/admin/reels (multipart: title, description, level, topic, video, thumbnail)
func (h *ReelHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateReelRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	videoFile, err := c.FormFile("video")
	if err != nil {
		response.ParamError(c, "请上传视频文件")
		return
	}
	if h.uploadCfg.MaxVideoSize > 0 && videoFile.Size > h.uploadCfg.MaxVideoSize {
		response.ParamError(c, "视频文件过大")
		return
	}

	video, err := videoFile.Open()
	if err != nil {
		response.ServerError(c, "文件读取失败")
		return
	}
	defer video.Close()

	// 封面可选
	var thumb io.Reader
	var thumbName string
	if thumbFile, err := c.FormFile("thumbnail"); err == nil {
		f, err := thumbFile.Open()
		if err != nil {
			response.ServerError(c, "文件读取失败")
			return
		}
		defer f.Close()
		thumb = f
		thumbName = thumbFile.Filename
	}

	reel, err := h.reelService.CreateReel(userID, &req, video, videoFile.Header.Get("Content-Type"), thumb, thumbName)
	if err != nil {
		response.ServerError(c, "发布失败")
		return
	}

	response.SuccessWithMessage(c, "发布成功", reel)
}

// Delete 删除 Reel（管理员）
// DELETE /api/v1/admin/reels/:id
func (h *ReelHandler) Delete(c *gin.Context) {
	reelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的视频ID")
		return
	}

	if err := h.reelService.DeleteReel(reelID); err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
