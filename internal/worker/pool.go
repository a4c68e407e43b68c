package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail = "jobs:email"

	JobEmail = "email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// JobHandler processes one job payload. A returned error counts as a failed
// attempt.
type JobHandler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes queued jobs and routes them by type.
type Pool struct {
	rdb         *redis.Client
	queues      []string
	handlers    map[string]JobHandler
	maxAttempts int
	backoff     func(attempt int) time.Duration
}

func NewPool(rdb *redis.Client, handlers map[string]JobHandler) *Pool {
	return &Pool{
		rdb:         rdb,
		queues:      []string{QueueEmail},
		handlers:    handlers,
		maxAttempts: MaxEmailAttempts,
		backoff:     backoffExponencial,
	}
}

// backoffExponencial waits 1s, 2s, 4s … between attempts, capped at 1m.
func backoffExponencial(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}
	d := time.Duration(1<<uint(attempt-1)) * time.Second
	if d > time.Minute {
		d = time.Minute
	}
	return d
}

// Start launches numWorkers goroutines consuming the queues.
// Each goroutine blocks on BRPOP, so idle workers cost nothing.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			p.handle(ctx, result[0], result[1])
		}
	}
}

// accion is what the pool does with a job after one attempt.
type accion int

const (
	accionHecho accion = iota
	accionReintentar
	accionDLQ
)

// procesar runs one attempt and decides the job's fate. The job's Attempts
// counter is incremented in place.
func (p *Pool) procesar(ctx context.Context, job *Job) (accion, error) {
	h, ok := p.handlers[job.Type]
	if !ok {
		return accionDLQ, fmt.Errorf("no handler for job type %q", job.Type)
	}
	job.Attempts++
	err := h.Process(ctx, job.Payload)
	if err == nil {
		return accionHecho, nil
	}
	if IsPermanent(err) || job.Attempts >= p.maxAttempts {
		return accionDLQ, err
	}
	return accionReintentar, err
}

func (p *Pool) handle(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.rdb, queue, "unknown", json.RawMessage(fmt.Sprintf("%q", raw)), err.Error(), 0)
		return
	}
	log.Debug().Str("type", job.Type).Str("queue", queue).Int("attempt", job.Attempts+1).Msg("processing job")

	switch acc, err := p.procesar(ctx, &job); acc {
	case accionHecho:
	case accionReintentar:
		log.Warn().Err(err).Str("type", job.Type).Int("attempts", job.Attempts).Msg("job failed, requeueing")
		select {
		case <-ctx.Done():
		case <-time.After(p.backoff(job.Attempts)):
		}
		encoded, mErr := json.Marshal(job)
		if mErr != nil {
			log.Error().Err(mErr).Msg("failed to re-encode job")
			return
		}
		// Requeue with a fresh context so a shutdown does not drop the job.
		if pErr := p.rdb.LPush(context.Background(), queue, encoded).Err(); pErr != nil {
			log.Error().Err(pErr).Str("queue", queue).Msg("failed to requeue job")
		}
	case accionDLQ:
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload,
			fmt.Sprintf("failed after %d attempts: %v", job.Attempts, err), job.Attempts)
	}
}

// PermanentError marks a failure that retrying cannot fix.
type PermanentError struct{ Err error }

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// IsPermanent reports whether err is wrapped in a PermanentError.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}
