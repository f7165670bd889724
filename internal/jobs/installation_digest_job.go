package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/signgroup/workshop-api/internal/domain"
)

// InstallationDigestJobName is the name of the morning installation digest job
const InstallationDigestJobName = "installation_digest"

// DigestWindow is how far ahead the digest looks for scheduled installations
const DigestWindow = 7 * 24 * time.Hour

// InstallationSource lists jobs scheduled for installation inside a window.
// The interface keeps the job from importing the repository package directly.
type InstallationSource interface {
	ListScheduledForInstallation(ctx context.Context, from, to time.Time) ([]domain.Job, error)
}

// InstallationDigestJob logs a morning digest of the installations due
// in the coming week so the workshop crew sees what is on the board.
type InstallationDigestJob struct {
	source  InstallationSource
	logger  *zap.Logger
	timeout time.Duration
}

// NewInstallationDigestJob creates a new installation digest job.
// The timeout controls how long the digest query is allowed to run.
func NewInstallationDigestJob(source InstallationSource, logger *zap.Logger, timeout time.Duration) *InstallationDigestJob {
	return &InstallationDigestJob{
		source:  source,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes the installation digest job.
func (j *InstallationDigestJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	now := time.Now().UTC()
	from := now.Truncate(24 * time.Hour)
	jobs, err := j.source.ListScheduledForInstallation(ctx, from, from.Add(DigestWindow))
	if err != nil {
		j.logger.Error("installation digest failed", zap.Error(err))
		return
	}

	if len(jobs) == 0 {
		j.logger.Info("no installations scheduled in the coming week")
		return
	}

	dueToday := 0
	for i := range jobs {
		job := &jobs[i]
		if job.InstallationDate == nil {
			continue
		}
		if job.InstallationDate.Before(from.Add(24 * time.Hour)) {
			dueToday++
		}
		j.logger.Info("upcoming installation",
			zap.String("job_id", job.ID.String()),
			zap.String("client", job.ClientName),
			zap.String("address", job.InstallationAddress),
			zap.String("stage", string(job.Stage)),
			zap.String("date", job.InstallationDate.Format("2006-01-02")),
		)
	}

	j.logger.Info("installation digest complete",
		zap.Int("scheduled", len(jobs)),
		zap.Int("due_today", dueToday),
	)
}
