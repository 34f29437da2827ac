package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

type maintenanceJob struct {
	name string
	spec string
	run  func(ctx context.Context, now time.Time) (int64, error)
}

// newMaintenance schedules store housekeeping. Jobs run in UTC and never overlap.
func newMaintenance(logger *slog.Logger, jobs []maintenanceJob) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	for _, job := range jobs {
		job := job
		if _, err := c.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			n, err := job.run(ctx, time.Now().UTC())
			if err != nil {
				logger.WarnContext(ctx, "maintenance job failed",
					"service", "suckdsa",
					"module", "maintenance",
					"layer", "bootstrap",
					"operation", job.name,
					"outcome", "failure",
					"error", err,
				)
				return
			}
			logger.DebugContext(ctx, "maintenance job completed",
				"service", "suckdsa",
				"module", "maintenance",
				"layer", "bootstrap",
				"operation", job.name,
				"outcome", "success",
				"removed", n,
			)
		}); err != nil {
			return nil, err
		}
	}
	return c, nil
}
