package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andviana23/trato-sub001/internal/domain"
)

const (
	keySeq       = "jobs:seq"
	keyReady     = "jobs:ready"
	keyDelayed   = "jobs:delayed"
	keyDataPfx   = "jobs:data:"
	keyCompleted = "jobs:completed"
	keyFailed    = "jobs:failed"

	completedRetention = 100
	failedRetention    = 50

	// priorityStride spaces priority bands in the ready set score so FIFO
	// order within a band is preserved by the enqueue sequence number.
	priorityStride = 1e12
)

// Queue implements usecase.JobQueue on Redis. Ready jobs live in a sorted
// set scored by priority band plus enqueue sequence; delayed jobs wait in a
// second sorted set scored by their ready time and are promoted on dequeue.
type Queue struct {
	client    *redis.Client
	retryBase time.Duration
}

// NewQueue creates a new Queue. retryBase is the backoff unit for the first
// retry; later retries double it.
func NewQueue(client *redis.Client, retryBase time.Duration) *Queue {
	if retryBase <= 0 {
		retryBase = 5 * time.Second
	}

	return &Queue{client: client, retryBase: retryBase}
}

// Enqueue makes a job visible to workers immediately.
func (q *Queue) Enqueue(ctx context.Context, job *domain.Job) error {
	job.Status = domain.JobStatusPending

	score, err := q.readyScore(ctx, job.Priority)
	if err != nil {
		return err
	}

	if err := q.saveJob(ctx, job); err != nil {
		return err
	}

	return q.client.ZAdd(ctx, keyReady, redis.Z{Score: score, Member: job.ID}).Err()
}

// Dequeue promotes due delayed jobs, then pops the highest-priority ready
// job. Returns nil without error when the queue is empty.
func (q *Queue) Dequeue(ctx context.Context) (*domain.Job, error) {
	if err := q.promoteDue(ctx); err != nil {
		return nil, err
	}

	members, err := q.client.ZPopMin(ctx, keyReady, 1).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}

	jobID, _ := members[0].Member.(string)

	job, err := q.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	job.Status = domain.JobStatusActive
	if err := q.saveJob(ctx, job); err != nil {
		return nil, err
	}

	return job, nil
}

// Complete moves a job into the bounded completed set. A non-empty LastError
// marks an explicit non-success, kept visible for operators.
func (q *Queue) Complete(ctx context.Context, job *domain.Job) error {
	now := time.Now().UTC()
	job.Status = domain.JobStatusCompleted
	job.FinishedAt = &now

	return q.archive(ctx, job, keyCompleted, completedRetention)
}

// Retry re-queues a retryable failure with exponential backoff, or moves the
// job into the bounded failed set when the cause is non-retryable or the
// attempt budget is spent.
func (q *Queue) Retry(ctx context.Context, job *domain.Job, cause error) error {
	job.AttemptsMade++
	if cause != nil {
		job.LastError = cause.Error()
	}

	if !domain.IsRetryable(cause) || job.AttemptsMade >= job.MaxAttempts {
		now := time.Now().UTC()
		job.Status = domain.JobStatusFailed
		job.FinishedAt = &now

		return q.archive(ctx, job, keyFailed, failedRetention)
	}

	delay := domain.RetryDelay(q.retryBase, job.AttemptsMade)
	job.Status = domain.JobStatusDelayed
	job.ReadyAt = time.Now().UTC().Add(delay)

	if err := q.saveJob(ctx, job); err != nil {
		return err
	}

	return q.client.ZAdd(ctx, keyDelayed, redis.Z{
		Score:  float64(job.ReadyAt.UnixMilli()),
		Member: job.ID,
	}).Err()
}

// ListFailed returns the most recent permanently failed jobs.
func (q *Queue) ListFailed(ctx context.Context, limit int) ([]*domain.Job, error) {
	if limit <= 0 || limit > failedRetention {
		limit = failedRetention
	}

	raw, err := q.client.LRange(ctx, keyFailed, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	jobs := make([]*domain.Job, 0, len(raw))
	for _, item := range raw {
		var job domain.Job
		if err := json.Unmarshal([]byte(item), &job); err != nil {
			return nil, err
		}
		jobs = append(jobs, &job)
	}

	return jobs, nil
}

// promoteDue moves delayed jobs whose ready time has passed back into the
// ready set at their original priority.
func (q *Queue) promoteDue(ctx context.Context) error {
	now := time.Now().UTC().UnixMilli()

	due, err := q.client.ZRangeByScore(ctx, keyDelayed, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now, 10),
	}).Result()
	if err != nil {
		return err
	}

	for _, jobID := range due {
		job, err := q.loadJob(ctx, jobID)
		if err != nil {
			if errors.Is(err, redis.Nil) {
				_ = q.client.ZRem(ctx, keyDelayed, jobID).Err()
				continue
			}
			return err
		}

		score, err := q.readyScore(ctx, job.Priority)
		if err != nil {
			return err
		}

		job.Status = domain.JobStatusPending
		if err := q.saveJob(ctx, job); err != nil {
			return err
		}

		pipe := q.client.TxPipeline()
		pipe.ZRem(ctx, keyDelayed, jobID)
		pipe.ZAdd(ctx, keyReady, redis.Z{Score: score, Member: jobID})
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (q *Queue) readyScore(ctx context.Context, priority int) (float64, error) {
	if priority < 1 {
		priority = 1
	}

	seq, err := q.client.Incr(ctx, keySeq).Result()
	if err != nil {
		return 0, err
	}

	return float64(priority)*priorityStride + float64(seq), nil
}

func (q *Queue) saveJob(ctx context.Context, job *domain.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	return q.client.Set(ctx, keyDataPfx+job.ID, data, 0).Err()
}

func (q *Queue) loadJob(ctx context.Context, jobID string) (*domain.Job, error) {
	data, err := q.client.Get(ctx, keyDataPfx+jobID).Result()
	if err != nil {
		return nil, err
	}

	var job domain.Job
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, err
	}

	return &job, nil
}

// archive serializes a finished job into a bounded list and drops its data
// key.
func (q *Queue) archive(ctx context.Context, job *domain.Job, key string, retention int64) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	pipe := q.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, retention-1)
	pipe.Del(ctx, keyDataPfx+job.ID)
	_, err = pipe.Exec(ctx)

	return err
}
