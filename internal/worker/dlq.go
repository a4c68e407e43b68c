package worker

// Dead letter queue: jobs that exhaust their attempts, or fail permanently,
// land in dlq:<queue> for inspection and manual requeue.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DLQEntry wraps a failed job with what went wrong.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      time.Time       `json:"failed_at"`
	Attempts      int             `json:"attempts"`
}

// SendToDLQ pushes a failed job to the dead letter queue. Errors are logged,
// not returned: the job is already lost to the main queue.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, jobType string, payload json.RawMessage, reason string, attempts int) {
	entry := DLQEntry{
		OriginalQueue: queue,
		JobType:       jobType,
		Payload:       payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC(),
		Attempts:      attempts,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to marshal entry")
		return
	}
	key := DLQPrefix + queue
	if err := rdb.LPush(context.WithoutCancel(ctx), key, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", key).Msg("dlq: failed to push")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("job_type", jobType).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job moved to dead letter queue")
}

// ListDLQ returns up to limit entries, newest first.
func ListDLQ(ctx context.Context, rdb *redis.Client, queue string, limit int64) ([]DLQEntry, error) {
	raws, err := rdb.LRange(ctx, DLQPrefix+queue, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]DLQEntry, 0, len(raws))
	for _, raw := range raws {
		var e DLQEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("dlq: corrupt entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// RequeueDLQ moves every entry back to its original queue with a fresh
// attempt counter and returns how many were moved.
func RequeueDLQ(ctx context.Context, rdb *redis.Client, queue string) (int, error) {
	key := DLQPrefix + queue
	n := 0
	for {
		raw, err := rdb.RPop(ctx, key).Result()
		if err == redis.Nil {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		var e DLQEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return n, fmt.Errorf("dlq: corrupt entry: %w", err)
		}
		encoded, err := json.Marshal(Job{Type: e.JobType, Payload: e.Payload})
		if err != nil {
			return n, err
		}
		if err := rdb.LPush(ctx, e.OriginalQueue, encoded).Err(); err != nil {
			return n, err
		}
		n++
	}
}

// DLQLength returns the number of entries in a DLQ for monitoring.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
