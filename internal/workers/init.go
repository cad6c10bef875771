package workers

import (
	"context"
	"log"

	"staylink/channelsync/internal/common"
	"staylink/channelsync/internal/jobs"
)

type WorkersContainer struct {
	SyncQueue *SyncQueueWorker
}

// InitWorkers starts the sync-request queue consumers. queue is nil
// when Redis is not configured; the trigger endpoint then runs syncs
// inline and no worker is started.
func InitWorkers(ctx context.Context, queue *common.SyncQueueService, syncJob *jobs.ChannelSyncJob) *WorkersContainer {
	if queue == nil {
		return &WorkersContainer{}
	}

	worker := NewSyncQueueWorker("sync_queue", queue, syncJob)
	go func() {
		if err := worker.Start(ctx, 3); err != nil {
			log.Printf("[SyncQueueWorker] Workers stopped: %v", err)
		}
	}()

	return &WorkersContainer{SyncQueue: worker}
}
