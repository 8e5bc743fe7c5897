package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/echomind/echomind_server/config"
	"github.com/echomind/echomind_server/internal/api"
	"github.com/echomind/echomind_server/internal/api/handler"
	"github.com/echomind/echomind_server/internal/database"
	"github.com/echomind/echomind_server/internal/pkg/deepgram"
	"github.com/echomind/echomind_server/internal/pkg/dictapi"
	"github.com/echomind/echomind_server/internal/pkg/elevenlabs"
	"github.com/echomind/echomind_server/internal/pkg/email"
	"github.com/echomind/echomind_server/internal/pkg/oauth"
	"github.com/echomind/echomind_server/internal/pkg/oss"
	"github.com/echomind/echomind_server/internal/pkg/pubsub"
	"github.com/echomind/echomind_server/internal/pkg/queue"
	"github.com/echomind/echomind_server/internal/pkg/ws"
	"github.com/echomind/echomind_server/internal/repository"
	"github.com/echomind/echomind_server/internal/service"
)

func main() {
	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS（可选）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			log.Println("OSS client initialized")
		}
	}

	// 初始化邮件服务（可选）
	var mailer *email.Service
	if cfg.Email.SMTPHost != "" {
		mailer = email.NewService(&cfg.Email)
		log.Println("Email service initialized")
	}

	// 初始化 Queue
	notificationQueue := queue.NewQueue(rdb, cfg.Queue.NotificationQueue)

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	sentenceRepo := repository.NewSentenceRepository(db)
	wordRepo := repository.NewWordRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	reelRepo := repository.NewReelRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	// 初始化外部服务客户端
	transcriber := deepgram.NewClient(&cfg.Deepgram)
	synthesizer := elevenlabs.NewClient(&cfg.ElevenLabs)
	dictClient := dictapi.NewClient()

	// 初始化 Service
	authService := service.NewAuthService(userRepo, cfg, mailer)
	userService := service.NewUserService(userRepo, progressRepo, ossClient)
	quotaService := service.NewQuotaService(userRepo, &cfg.VoiceClone)
	voiceService := service.NewVoiceCloneService(synthesizer, quotaService, userRepo)
	speechService := service.NewSpeechService(transcriber)
	pronunciationService := service.NewPronunciationService(speechService, voiceService, userRepo, progressRepo, dictClient, &cfg.Pronunciation, nil)
	practiceService := service.NewPracticeService(sentenceRepo, nil)
	wordService := service.NewWordService(wordRepo, dictClient)
	quizService := service.NewQuizService(quizRepo, progressRepo, userRepo)
	reelService := service.NewReelService(reelRepo, interactionRepo, ossClient)
	notificationService := service.NewNotificationService(notificationRepo, notificationQueue)

	// 初始化 Handler
	stateStore := oauth.NewStateStore(rdb)
	authHandler := handler.NewAuthHandler(authService, stateStore)
	userHandler := handler.NewUserHandler(userService)
	pronunciationHandler := handler.NewPronunciationHandler(pronunciationService, voiceService, userService, &cfg.Upload)
	practiceHandler := handler.NewPracticeHandler(practiceService)
	wordHandler := handler.NewWordHandler(wordService)
	quizHandler := handler.NewQuizHandler(quizService, userService)
	reelHandler := handler.NewReelHandler(reelService, &cfg.Upload)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 订阅 worker 发布的实时事件，推送给本机在线连接
	subscriber := pubsub.NewSubscriber(rdb)
	go func() {
		err := subscriber.Subscribe(context.Background(), func(event *pubsub.Event) {
			if !wsHub.IsOnline(event.UserID) {
				return
			}
			msg := &ws.Message{Type: event.Type, Data: event}
			if err := wsHub.SendToUser(event.UserID, msg); err != nil {
				log.Printf("Failed to push event to user %d: %v", event.UserID, err)
			}
		})
		if err != nil && err != context.Canceled {
			log.Printf("Event subscriber stopped: %v", err)
		}
	}()

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		userHandler,
		pronunciationHandler,
		practiceHandler,
		wordHandler,
		quizHandler,
		reelHandler,
		notificationHandler,
		websocketHandler,
		userRepo,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
