package main

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/echomind/echomind_server/config"
	"github.com/echomind/echomind_server/internal/database"
	"github.com/echomind/echomind_server/internal/model"
	"github.com/echomind/echomind_server/internal/repository"
	"github.com/echomind/echomind_server/internal/service"

	"gorm.io/gorm"
)

var (
	dryRun             = flag.Bool("dry-run", true, "Dry run mode, don't actually modify data")
	resetQuota         = flag.Bool("reset-quota", true, "Reset stale daily voice clone counters")
	purgeNotifications = flag.Bool("purge-notifications", true, "Purge inbox records past retention")
	retentionOverride  = flag.Int("retention-days", 0, "Override notification retention days (0 = use config)")
)

func main() {
	flag.Parse()

	log.Println("🧹 Starting cleanup task...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 连接数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	var quotaReset int64
	var purged int64

	// 1. 重置过期的每日克隆配额
	if *resetQuota {
		log.Println("\n🎙  Resetting stale voice clone counters...")
		quotaReset = resetStaleQuota(db, userRepo, cfg, *dryRun)
	}

	// 2. 清理超过保留期的收件箱记录
	if *purgeNotifications {
		days := cfg.Notification.RetentionDays
		if *retentionOverride > 0 {
			days = *retentionOverride
		}
		log.Printf("\n📬 Purging inbox records older than %d days...", days)
		purged = purgeOldNotifications(db, notificationRepo, days, *dryRun)
	}

	// 输出统计
	log.Println("\n" + strings.Repeat("=", 60))
	log.Println("📊 Cleanup Summary")
	log.Println(strings.Repeat("=", 60))
	log.Printf("Quota counters reset: %d", quotaReset)
	log.Printf("Inbox records purged: %d", purged)
	if *dryRun {
		log.Println("\n⚠️  DRY RUN MODE - No data was actually modified")
		log.Println("   Run with -dry-run=false to apply changes")
	} else {
		log.Println("\n✅ Cleanup completed!")
	}
	log.Println(strings.Repeat("=", 60))
}

// resetStaleQuota 把不是今天的 daily_clone_count 清零
func resetStaleQuota(db *gorm.DB, userRepo *repository.UserRepository, cfg *config.Config, dryRun bool) int64 {
	today := time.Now().Format(model.CloneDateFormat)

	if dryRun {
		var count int64
		err := db.Model(&model.User{}).
			Where("last_clone_date IS NOT NULL AND last_clone_date <> ? AND daily_clone_count > 0", today).
			Count(&count).Error
		if err != nil {
			log.Printf("  ❌ Failed to count stale counters: %v", err)
			return 0
		}
		log.Printf("Would reset %d stale counters", count)
		return count
	}

	quotaService := service.NewQuotaService(userRepo, &cfg.VoiceClone)
	n, err := quotaService.ResetStale()
	if err != nil {
		log.Printf("  ❌ Failed to reset counters: %v", err)
		return 0
	}
	log.Printf("Reset %d stale counters", n)
	return n
}

// purgeOldNotifications 删除超过保留期的用户收件箱记录
func purgeOldNotifications(db *gorm.DB, notificationRepo *repository.NotificationRepository, days int, dryRun bool) int64 {
	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)

	if dryRun {
		var count int64
		err := db.Model(&model.UserNotification{}).
			Where("created_at < ?", cutoff).
			Count(&count).Error
		if err != nil {
			log.Printf("  ❌ Failed to count old records: %v", err)
			return 0
		}
		log.Printf("Would purge %d records (before %s)", count, cutoff.Format("2006-01-02"))
		return count
	}

	n, err := notificationRepo.DeleteOlderThan(cutoff)
	if err != nil {
		log.Printf("  ❌ Failed to purge records: %v", err)
		return 0
	}
	log.Printf("Purged %d records (before %s)", n, cutoff.Format("2006-01-02"))
	return n
}
