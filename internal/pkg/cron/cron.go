package cron

import (
	"context"
	"log"
	"time"
)

// Job 周期任务
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Runner 简易周期任务调度器。
// 每个任务一个 goroutine，按固定间隔执行，失败只记日志。
type Runner struct {
	jobs []Job
}

func NewRunner() *Runner {
	return &Runner{}
}

// Add 注册任务
func (r *Runner) Add(job Job) {
	r.jobs = append(r.jobs, job)
}

// Start 启动所有任务，ctx 取消后停止
func (r *Runner) Start(ctx context.Context) {
	for _, job := range r.jobs {
		go r.loop(ctx, job)
	}
}

func (r *Runner) loop(ctx context.Context, job Job) {
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	log.Printf("cron job %q started, interval %s", job.Name, job.Interval)

	for {
		select {
		case <-ctx.Done():
			log.Printf("cron job %q stopped", job.Name)
			return
		case <-ticker.C:
			if err := job.Run(ctx); err != nil {
				log.Printf("cron job %q failed: %v", job.Name, err)
			}
		}
	}
}
