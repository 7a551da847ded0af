package record

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/imaadfakier/spicychatdotai-scraper/models"
)

// Job produces the value stored under Name.
type Job struct {
	Name string
	Run  func(ctx context.Context) (any, error)
}

// Run is the outcome of one Collect call.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Record     *Record

	// Failed lists the jobs that contributed an error value.
	Failed []string
}

// Collect runs jobs one after another. Each job contributes exactly one
// key: its value on success, a models.ErrorValue on error or panic. A
// failing job never stops the ones after it.
func Collect(ctx context.Context, jobs []Job) *Run {
	run := &Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Record:    New(),
	}
	slog.Info("run started", "run_id", run.ID, "jobs", len(jobs))

	for _, job := range jobs {
		start := time.Now()
		v, err := runJob(ctx, job)
		if err != nil {
			slog.Warn("job failed",
				"run_id", run.ID,
				"job", job.Name,
				"error", err,
				"elapsed", time.Since(start),
			)
			run.Record.Set(job.Name, models.ToValue(err))
			run.Failed = append(run.Failed, job.Name)
			continue
		}
		slog.Info("job done", "run_id", run.ID, "job", job.Name, "elapsed", time.Since(start))
		run.Record.Set(job.Name, v)
	}

	run.FinishedAt = time.Now()
	slog.Info("run finished",
		"run_id", run.ID,
		"failed", len(run.Failed),
		"elapsed", run.FinishedAt.Sub(run.StartedAt),
	)
	return run
}

func runJob(ctx context.Context, job Job) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v = nil
			err = models.NewScrapeError(models.ErrCodeUnexpected, fmt.Sprint(r), nil)
		}
	}()
	return job.Run(ctx)
}
