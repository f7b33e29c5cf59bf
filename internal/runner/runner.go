package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Task is a scheduled background job.
type Task interface {
	Name() string
	Schedule() string // cron expression with seconds field
	Timeout() time.Duration
	Run(ctx context.Context) error
}

// Runner executes registered tasks on their cron schedules.
type Runner struct {
	cron  *cron.Cron
	tasks []Task
	wg    sync.WaitGroup
}

func New() *Runner {
	return &Runner{cron: cron.New(cron.WithSeconds())}
}

// Register adds a task. Must be called before Start.
func (r *Runner) Register(task Task) {
	r.tasks = append(r.tasks, task)
}

// Start schedules all registered tasks and starts the cron loop.
func (r *Runner) Start(ctx context.Context) error {
	for _, task := range r.tasks {
		task := task
		slog.Info("registering task", "task", task.Name(), "schedule", task.Schedule())
		_, err := r.cron.AddFunc(task.Schedule(), func() {
			r.executeTask(ctx, task)
		})
		if err != nil {
			return fmt.Errorf("failed to schedule task %s: %w", task.Name(), err)
		}
	}

	r.cron.Start()
	return nil
}

func (r *Runner) executeTask(ctx context.Context, task Task) {
	r.wg.Add(1)
	defer r.wg.Done()

	taskCtx, cancel := context.WithTimeout(ctx, task.Timeout())
	defer cancel()

	start := time.Now()
	err := task.Run(taskCtx)
	duration := time.Since(start)

	if err != nil {
		slog.Error("task failed", "task", task.Name(), "duration", duration, "error", err)
	} else {
		slog.Info("task completed", "task", task.Name(), "duration", duration)
	}
}

// Stop halts scheduling and waits for running tasks to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	r.wg.Wait()
	<-ctx.Done()
}
