package api

import (
	"github.com/gin-gonic/gin"

	"github.com/echomind/echomind_server/config"
	"github.com/echomind/echomind_server/internal/api/handler"
	"github.com/echomind/echomind_server/internal/api/middleware"
	"github.com/echomind/echomind_server/internal/repository"
)

type Router struct {
	authHandler          *handler.AuthHandler
	userHandler          *handler.UserHandler
	pronunciationHandler *handler.PronunciationHandler
	practiceHandler      *handler.PracticeHandler
	wordHandler          *handler.WordHandler
	quizHandler          *handler.QuizHandler
	reelHandler          *handler.ReelHandler
	notificationHandler  *handler.NotificationHandler
	websocketHandler     *handler.WebSocketHandler
	userRepo             *repository.UserRepository
	cfg                  *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	pronunciationHandler *handler.PronunciationHandler,
	practiceHandler *handler.PracticeHandler,
	wordHandler *handler.WordHandler,
	quizHandler *handler.QuizHandler,
	reelHandler *handler.ReelHandler,
	notificationHandler *handler.NotificationHandler,
	websocketHandler *handler.WebSocketHandler,
	userRepo *repository.UserRepository,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:          authHandler,
		userHandler:          userHandler,
		pronunciationHandler: pronunciationHandler,
		practiceHandler:      practiceHandler,
		wordHandler:          wordHandler,
		quizHandler:          quizHandler,
		reelHandler:          reelHandler,
		notificationHandler:  notificationHandler,
		websocketHandler:     websocketHandler,
		userRepo:             userRepo,
		cfg:                  cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/verify-email", r.authHandler.VerifyEmail)
			auth.GET("/github", r.authHandler.GithubAuth)
			auth.GET("/github/callback", r.authHandler.GithubCallback)
		}

		// Reel 浏览（可选认证，登录后附带互动状态）
		reels := api.Group("/reels")
		reels.Use(middleware.OptionalAuth(r.cfg.JWT.Secret))
		{
			reels.GET("", r.reelHandler.List)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 用户
			user := authenticated.Group("/user")
			{
				user.GET("/profile", r.userHandler.GetProfile)
				user.PUT("/profile", r.userHandler.UpdateProfile)
				user.POST("/avatar", r.userHandler.UploadAvatar)
				user.GET("/progress", r.userHandler.GetProgress)
				user.GET("/progress/records", r.userHandler.ListProgress)
			}

			// 发音练习
			pronunciation := authenticated.Group("/pronunciation")
			{
				pronunciation.POST("/analyze", r.pronunciationHandler.Analyze)
				pronunciation.POST("/analyze-correct", r.pronunciationHandler.AnalyzeAndCorrect)
				pronunciation.POST("/clone-correct", r.pronunciationHandler.CloneCorrect)
				pronunciation.GET("/voice-status", r.pronunciationHandler.VoiceStatus)
				pronunciation.DELETE("/voice-clone", r.pronunciationHandler.DeleteVoiceClone)
				pronunciation.GET("/phonetics/:word", r.pronunciationHandler.Phonetics)
			}

			// 练习句子与词汇
			authenticated.GET("/practice/sentence", r.practiceHandler.GetRandomSentence)
			authenticated.GET("/practice/sentences", r.practiceHandler.ListSentences)
			authenticated.GET("/words", r.wordHandler.List)
			authenticated.GET("/words/:id", r.wordHandler.Get)

			// 测验
			authenticated.GET("/quizzes", r.quizHandler.List)
			authenticated.GET("/quizzes/:id", r.quizHandler.Get)
			authenticated.POST("/quizzes/:id/submit", r.quizHandler.Submit)

			// Reel 互动
			authenticated.GET("/reels/bookmarked", r.reelHandler.ListBookmarked)
			authenticated.GET("/reels/:id", r.reelHandler.Get)
			authenticated.POST("/reels/:id/like", r.reelHandler.ToggleLike)
			authenticated.POST("/reels/:id/bookmark", r.reelHandler.ToggleBookmark)

			// 通知收件箱
			notifications := authenticated.Group("/notifications")
			{
				notifications.GET("", r.notificationHandler.List)
				notifications.GET("/unread-count", r.notificationHandler.UnreadCount)
				notifications.PUT("/read-all", r.notificationHandler.MarkAllRead)
				notifications.PUT("/:id/read", r.notificationHandler.MarkRead)
			}
		}

		// 管理接口
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(r.cfg.JWT.Secret), middleware.AdminOnly(r.userRepo))
		{
			admin.POST("/practice/sentences", r.practiceHandler.CreateSentence)
			admin.PUT("/practice/sentences/:id", r.practiceHandler.UpdateSentence)
			admin.DELETE("/practice/sentences/:id", r.practiceHandler.DeleteSentence)

			admin.POST("/words", r.wordHandler.Create)
			admin.PUT("/words/:id", r.wordHandler.Update)
			admin.DELETE("/words/:id", r.wordHandler.Delete)

			admin.POST("/quizzes", r.quizHandler.Create)
			admin.DELETE("/quizzes/:id", r.quizHandler.Delete)

			admin.POST("/reels", r.reelHandler.Create)
			admin.DELETE("/reels/:id", r.reelHandler.Delete)

			admin.POST("/notifications", r.notificationHandler.Broadcast)
		}
	}

	return engine
}
