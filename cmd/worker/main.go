package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/echomind/echomind_server/config"
	"github.com/echomind/echomind_server/internal/database"
	"github.com/echomind/echomind_server/internal/pkg/cron"
	"github.com/echomind/echomind_server/internal/pkg/pubsub"
	"github.com/echomind/echomind_server/internal/pkg/queue"
	"github.com/echomind/echomind_server/internal/repository"
	"github.com/echomind/echomind_server/internal/service"
	"github.com/echomind/echomind_server/internal/worker"
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

	// 初始化 Queue 和 Pub/Sub
	jobQueue := queue.NewQueue(rdb, cfg.Queue.NotificationQueue)
	publisher := pubsub.NewPublisher(rdb)

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// 创建任务处理器
	processor := worker.NewProcessor(userRepo, notificationRepo, publisher)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	// 周期维护任务：重置过期克隆配额、清理过期收件箱
	quotaService := service.NewQuotaService(userRepo, &cfg.VoiceClone)
	retention := time.Duration(cfg.Notification.RetentionDays) * 24 * time.Hour

	runner := cron.NewRunner()
	runner.Add(cron.Job{
		Name:     "reset-clone-quota",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			n, err := quotaService.ResetStale()
			if err != nil {
				return err
			}
			if n > 0 {
				log.Printf("Reset clone quota for %d users", n)
			}
			return nil
		},
	})
	runner.Add(cron.Job{
		Name:     "purge-old-notifications",
		Interval: 24 * time.Hour,
		Run: func(ctx context.Context) error {
			n, err := notificationRepo.DeleteOlderThan(time.Now().Add(-retention))
			if err != nil {
				return err
			}
			if n > 0 {
				log.Printf("Purged %d inbox records older than %d days", n, cfg.Notification.RetentionDays)
			}
			return nil
		},
	})
	runner.Start(ctx)

	log.Printf("Worker started, max workers: %d", cfg.Queue.MaxWorkers)

	// 启动 worker 循环
	for i := 0; i < cfg.Queue.MaxWorkers; i++ {
		go func(workerID int) {
			for {
				select {
				case <-ctx.Done():
					log.Printf("Worker %d shutting down", workerID)
					return
				default:
					// 从队列获取任务
					job, err := jobQueue.Pop(ctx, 5*time.Second)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Printf("Worker %d: failed to pop job: %v", workerID, err)
						continue
					}

					if job == nil {
						continue // 超时，继续等待
					}

					log.Printf("Worker %d: fanning out notification %d", workerID, job.NotificationID)
					if err := processor.Process(ctx, job); err != nil {
						log.Printf("Worker %d: notification %d failed: %v", workerID, job.NotificationID, err)
					}
				}
			}
		}(i)
	}

	// 等待 context 取消
	<-ctx.Done()
	log.Println("Worker shutdown complete")
}
