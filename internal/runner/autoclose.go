package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/ShivamHirwani/quick-desk/internal/metrics"
	"github.com/ShivamHirwani/quick-desk/internal/repository"
)

// AutoCloseTask closes tickets that have sat in resolved longer than the
// configured cutoff. One set-wide update per run.
type AutoCloseTask struct {
	tickets  *repository.TicketRepository
	schedule string
	after    time.Duration
}

func NewAutoCloseTask(tickets *repository.TicketRepository, schedule string, after time.Duration) *AutoCloseTask {
	return &AutoCloseTask{tickets: tickets, schedule: schedule, after: after}
}

func (t *AutoCloseTask) Name() string { return "ticket-autoclose" }

func (t *AutoCloseTask) Schedule() string { return t.schedule }

func (t *AutoCloseTask) Timeout() time.Duration { return time.Minute }

func (t *AutoCloseTask) Run(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-t.after)
	closed, err := t.tickets.AutoCloseResolved(ctx, cutoff)
	if err != nil {
		return err
	}
	if closed > 0 {
		metrics.RecordAutoClosed(closed)
		slog.Info("auto-closed resolved tickets", "count", closed, "cutoff", cutoff)
	}
	return nil
}
