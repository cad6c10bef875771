package jobs

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"
)

// JobsContainer exposes started jobs to the API layer for manual
// triggering.
type JobsContainer struct {
	ChannelSync *ChannelSyncJob
}

// InitializeJobs starts the scheduled sync sweep in the background.
// The cadence comes from SYNC_INTERVAL_MINUTES (default 60); the
// scheduler only re-invokes the sweep, retries stay a caller decision.
func InitializeJobs(ctx context.Context, syncJob *ChannelSyncJob) *JobsContainer {
	interval := 60 * time.Minute
	if raw := os.Getenv("SYNC_INTERVAL_MINUTES"); raw != "" {
		if mins, err := strconv.Atoi(raw); err == nil && mins > 0 {
			interval = time.Duration(mins) * time.Minute
		} else {
			log.Printf("[Jobs] Ignoring invalid SYNC_INTERVAL_MINUTES=%q", raw)
		}
	}

	go syncJob.RunScheduled(ctx, interval)

	return &JobsContainer{ChannelSync: syncJob}
}
