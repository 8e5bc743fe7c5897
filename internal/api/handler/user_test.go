package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echomind/echomind_server/internal/model"
	"github.com/echomind/echomind_server/internal/model/dto"
	"github.com/echomind/echomind_server/internal/pkg/response"
	"github.com/echomind/echomind_server/internal/repository"
	"github.com/echomind/echomind_server/internal/service"
	"github.com/echomind/echomind_server/internal/testutil"
)

func setupUserHandler(t *testing.T) (*UserHandler, *testContext) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	userRepo := repository.NewUserRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	userService := service.NewUserService(userRepo, progressRepo, nil)
	handler := NewUserHandler(userService)

	return handler, &testContext{DB: db}
}

func TestUserHandler_GetProfile_Success(t *testing.T) {
	handler, ctx := setupUserHandler(t)

	user := testutil.TestUser(t, ctx.DB, testutil.WithLevel(model.LevelIntermediate))

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.GET("/user/profile", handler.GetProfile)

	req := httptest.NewRequest("GET", "/user/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, user.Username, data["username"])
	assert.Equal(t, model.LevelIntermediate, data["level"])
	assert.Equal(t, true, data["level_test_completed"])
}

func TestUserHandler_GetProfile_Unauthorized(t *testing.T) {
	handler, _ := setupUserHandler(t)

	router := gin.New()
	// No auth middleware
	router.GET("/user/profile", handler.GetProfile)

	req := httptest.NewRequest("GET", "/user/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestUserHandler_UpdateProfile_Success(t *testing.T) {
	handler, ctx := setupUserHandler(t)

	user := testutil.TestUser(t, ctx.DB)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.PUT("/user/profile", handler.UpdateProfile)

	username := "newname"
	level := model.LevelAdvanced
	req := dto.UpdateProfileRequest{Username: &username, Level: &level}

	w := performRequest(router, "PUT", "/user/profile", req)
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "newname", data["username"])
	assert.Equal(t, model.LevelAdvanced, data["level"])
}

func TestUserHandler_UpdateProfile_UsernameTaken(t *testing.T) {
	handler, ctx := setupUserHandler(t)

	testutil.TestUser(t, ctx.DB, testutil.WithUsername("occupied"))
	user := testutil.TestUser(t, ctx.DB)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.PUT("/user/profile", handler.UpdateProfile)

	username := "occupied"
	req := dto.UpdateProfileRequest{Username: &username}

	w := performRequest(router, "PUT", "/user/profile", req)
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestUserHandler_UpdateProfile_InvalidLevel(t *testing.T) {
	handler, ctx := setupUserHandler(t)

	user := testutil.TestUser(t, ctx.DB)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.PUT("/user/profile", handler.UpdateProfile)

	req := map[string]string{"level": "native"}

	w := performRequest(router, "PUT", "/user/profile", req)
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestUserHandler_GetProgress_Summary(t *testing.T) {
	handler, ctx := setupUserHandler(t)

	user := testutil.TestUser(t, ctx.DB, testutil.WithPoints(120))
	testutil.TestProgress(t, ctx.DB, user.ID, model.ProgressPronunciation, 90)
	testutil.TestProgress(t, ctx.DB, user.ID, model.ProgressQuiz, 80)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.GET("/user/progress", handler.GetProgress)

	req := httptest.NewRequest("GET", "/user/progress", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(120), data["total_points"])
	assert.Equal(t, float64(1), data["practice_count"])
	assert.Equal(t, float64(1), data["quiz_count"])
}

func TestUserHandler_ListProgress_FilterByType(t *testing.T) {
	handler, ctx := setupUserHandler(t)

	user := testutil.TestUser(t, ctx.DB)
	testutil.TestProgress(t, ctx.DB, user.ID, model.ProgressPronunciation, 90)
	testutil.TestProgress(t, ctx.DB, user.ID, model.ProgressPronunciation, 70)
	testutil.TestProgress(t, ctx.DB, user.ID, model.ProgressQuiz, 80)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.GET("/user/progress/records", handler.ListProgress)

	req := httptest.NewRequest("GET", "/user/progress/records?type=pronunciation-practice", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), data["total"])
}
