package workers

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"staylink/channelsync/internal/common"
	"staylink/channelsync/internal/jobs"
)

const syncConsumerGroup = "sync-workers"

// SyncQueueWorker consumes queued sync requests from the Redis stream
// and runs the orchestrator for each. Manual triggers from the API go
// through this queue so bursts drain at worker pace instead of fanning
// out unbounded goroutines.
type SyncQueueWorker struct {
	workerID string
	queue    *common.SyncQueueService
	syncJob  *jobs.ChannelSyncJob
}

// NewSyncQueueWorker creates a new sync queue worker
func NewSyncQueueWorker(workerID string, queue *common.SyncQueueService, syncJob *jobs.ChannelSyncJob) *SyncQueueWorker {
	return &SyncQueueWorker{
		workerID: workerID,
		queue:    queue,
		syncJob:  syncJob,
	}
}

// Start spawns numWorkers consumers on the shared stream and blocks
// until ctx is done.
func (w *SyncQueueWorker) Start(ctx context.Context, numWorkers int) error {
	log.Printf("[SyncQueueWorker] Starting %d workers with ID prefix: %s", numWorkers, w.workerID)

	if err := w.queue.CreateConsumerGroup(ctx, syncConsumerGroup); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		consumerName := fmt.Sprintf("%s-worker-%d", w.workerID, i)

		go func(consumerName string) {
			defer wg.Done()
			w.processQueue(ctx, consumerName)
		}(consumerName)
	}

	wg.Wait()
	log.Printf("[SyncQueueWorker] All workers stopped")
	return nil
}

// processQueue continuously drains sync requests for one consumer.
func (w *SyncQueueWorker) processQueue(ctx context.Context, consumerName string) {
	log.Printf("[%s] Started processing sync requests", consumerName)

	processedCount := 0
	errorCount := 0

	for {
		select {
		case <-ctx.Done():
			log.Printf("[%s] Shutting down. Processed: %d, Errors: %d", consumerName, processedCount, errorCount)
			return
		default:
			req, messageID, err := w.queue.Dequeue(ctx, syncConsumerGroup, consumerName, 5*time.Second)
			if err != nil {
				log.Printf("[%s] Error dequeuing sync request: %v", consumerName, err)
				errorCount++
				time.Sleep(time.Second)
				continue
			}
			if req == nil {
				// Block time elapsed with nothing queued
				continue
			}

			if err := w.syncJob.SyncAll(ctx, req.IntegrationID); err != nil {
				// The orchestrator already appended FAILED sync logs;
				// ack anyway, retrying is the scheduler's decision.
				log.Printf("[%s] Sync failed for integration %s: %v", consumerName, req.IntegrationID, err)
				errorCount++
			} else {
				processedCount++
			}

			if err := w.queue.Ack(ctx, syncConsumerGroup, messageID); err != nil {
				log.Printf("[%s] Error acking message %s: %v", consumerName, messageID, err)
			}
		}
	}
}
