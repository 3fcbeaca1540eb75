package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/andviana23/trato-sub001/internal/domain"
)

func newJob(id string, priority int) *domain.Job {
	payload, _ := json.Marshal(map[string]string{"payment_id": "pay_" + id})
	now := time.Now().UTC()

	return &domain.Job{
		ID:          id,
		Type:        domain.JobTypeProcessPayment,
		Payload:     payload,
		Priority:    priority,
		MaxAttempts: 3,
		Status:      domain.JobStatusPending,
		EnqueuedAt:  now,
		ReadyAt:     now,
	}
}

func TestQueueEnqueueDequeue(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	q := NewQueue(client, time.Second)
	ctx := context.Background()

	if err := q.Enqueue(ctx, newJob("j1", 1)); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	job, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("dequeue failed: %v", err)
	}
	if job == nil || job.ID != "j1" {
		t.Fatalf("expected j1, got %+v", job)
	}
	if job.Status != domain.JobStatusActive {
		t.Errorf("expected active status, got %s", job.Status)
	}

	// Queue is drained.
	job, err = q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("dequeue on empty queue failed: %v", err)
	}
	if job != nil {
		t.Fatalf("expected empty queue, got %+v", job)
	}
}

func TestQueuePriorityOrder(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	q := NewQueue(client, time.Second)
	ctx := context.Background()

	if err := q.Enqueue(ctx, newJob("low-1", 5)); err != nil {
		t.Fatal(err)
	}
	if err := q.Enqueue(ctx, newJob("high", 1)); err != nil {
		t.Fatal(err)
	}
	if err := q.Enqueue(ctx, newJob("low-2", 5)); err != nil {
		t.Fatal(err)
	}

	var order []string
	for {
		job, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if job == nil {
			break
		}
		order = append(order, job.ID)
	}

	want := []string{"high", "low-1", "low-2"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestQueueRetrySchedulesBackoff(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	q := NewQueue(client, 30*time.Millisecond)
	ctx := context.Background()

	job := newJob("j1", 1)
	if err := q.Enqueue(ctx, job); err != nil {
		t.Fatal(err)
	}

	active, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if err := q.Retry(ctx, active, errors.New("connection refused")); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if active.AttemptsMade != 1 {
		t.Errorf("expected 1 attempt, got %d", active.AttemptsMade)
	}
	if active.Status != domain.JobStatusDelayed {
		t.Errorf("expected delayed status, got %s", active.Status)
	}

	// Not visible yet.
	got, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("job must stay delayed, got %+v", got)
	}

	// After the backoff has elapsed it is promoted again.
	time.Sleep(50 * time.Millisecond)

	got, err = q.Dequeue(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.ID != "j1" {
		t.Fatalf("expected promoted j1, got %+v", got)
	}
}

func TestQueueRetryExhaustionMovesToFailed(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	q := NewQueue(client, time.Millisecond)
	ctx := context.Background()

	job := newJob("j1", 1)
	job.MaxAttempts = 2
	job.AttemptsMade = 1

	if err := q.Retry(ctx, job, errors.New("still broken")); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if job.Status != domain.JobStatusFailed {
		t.Errorf("expected failed status, got %s", job.Status)
	}

	failed, err := q.ListFailed(ctx, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(failed) != 1 || failed[0].ID != "j1" {
		t.Fatalf("expected j1 in failed set, got %+v", failed)
	}
	if failed[0].LastError != "still broken" {
		t.Errorf("expected cause recorded, got %q", failed[0].LastError)
	}
}

func TestQueueNonRetryableGoesStraightToFailed(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	q := NewQueue(client, time.Second)
	ctx := context.Background()

	job := newJob("j1", 1)

	if err := q.Retry(ctx, job, domain.ErrDuplicatePayment); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if job.Status != domain.JobStatusFailed {
		t.Errorf("non-retryable cause must fail immediately, got %s", job.Status)
	}

	failed, err := q.ListFailed(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(failed) != 1 {
		t.Fatalf("expected 1 failed job, got %d", len(failed))
	}
}

func TestQueueCompleteRetention(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	q := NewQueue(client, time.Second)
	ctx := context.Background()

	for i := 0; i < completedRetention+20; i++ {
		job := newJob(fmt.Sprintf("job-%03d", i), 1)
		if err := q.Complete(ctx, job); err != nil {
			t.Fatalf("complete failed: %v", err)
		}
	}

	length, err := client.LLen(ctx, keyCompleted).Result()
	if err != nil {
		t.Fatal(err)
	}
	if length != completedRetention {
		t.Fatalf("expected completed set capped at %d, got %d", completedRetention, length)
	}
}
