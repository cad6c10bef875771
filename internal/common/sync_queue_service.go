package common

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SyncQueueService provides the sync-request queue using Redis Streams.
// Manual sync triggers enqueue here; the sync queue worker consumes and
// runs the orchestrator, so a burst of triggers never piles up
// concurrent syncs for the same integration.
type SyncQueueService struct {
	client *redis.Client
}

// NewSyncQueueService creates a new Redis-backed sync queue
func NewSyncQueueService(client *redis.Client) *SyncQueueService {
	return &SyncQueueService{client: client}
}

// SyncRequest is one queued request to sync an integration
type SyncRequest struct {
	IntegrationID string    `json:"integration_id"`
	RequestedBy   string    `json:"requested_by,omitempty"`
	RequestedAt   time.Time `json:"requested_at"`
}

// SyncRequestStream is the stream all sync requests go to.
const SyncRequestStream = "sync:requests"

// Enqueue adds a sync request to the stream.
// XADD sync:requests * data <json>
func (s *SyncQueueService) Enqueue(ctx context.Context, req *SyncRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal sync request: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: SyncRequestStream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}

	if _, err := s.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}

	return nil
}

// Dequeue reads the next sync request using a consumer group.
// Returns (request, messageID, error); a nil request means the block
// time elapsed with nothing to do.
func (s *SyncQueueService) Dequeue(ctx context.Context, groupName, consumerName string, blockTime time.Duration) (*SyncRequest, string, error) {
	args := &redis.XReadGroupArgs{
		Group:    groupName,
		Consumer: consumerName,
		Streams:  []string{SyncRequestStream, ">"}, // ">" means new messages only
		Count:    1,
		Block:    blockTime,
	}

	streams, err := s.client.XReadGroup(ctx, args).Result()
	if err != nil {
		if err == redis.Nil {
			// No messages available (timeout)
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to read from stream: %w", err)
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, "", nil
	}

	msg := streams[0].Messages[0]

	dataStr, ok := msg.Values["data"].(string)
	if !ok {
		return nil, "", fmt.Errorf("invalid message format: data field missing")
	}

	var req SyncRequest
	if err := json.Unmarshal([]byte(dataStr), &req); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal sync request: %w", err)
	}

	return &req, msg.ID, nil
}

// Ack acknowledges successful processing of a message
func (s *SyncQueueService) Ack(ctx context.Context, groupName, messageID string) error {
	return s.client.XAck(ctx, SyncRequestStream, groupName, messageID).Err()
}

// CreateConsumerGroup creates a consumer group for the stream if it doesn't exist
func (s *SyncQueueService) CreateConsumerGroup(ctx context.Context, groupName string) error {
	// XGROUP CREATE sync:requests group 0 MKSTREAM
	err := s.client.XGroupCreateMkStream(ctx, SyncRequestStream, groupName, "0").Err()
	if err != nil && err.Error() == "BUSYGROUP Consumer Group name already exists" {
		return nil
	}
	return err
}

// QueueLength returns the number of messages in the stream
func (s *SyncQueueService) QueueLength(ctx context.Context) (int64, error) {
	length, err := s.client.XLen(ctx, SyncRequestStream).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return length, nil
}

// TrimStream keeps only the most recent maxLen messages
func (s *SyncQueueService) TrimStream(ctx context.Context, maxLen int64) error {
	return s.client.XTrimMaxLen(ctx, SyncRequestStream, maxLen).Err()
}
