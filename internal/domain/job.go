package domain

import (
	"encoding/json"
	"time"
)

// JobType identifies the work a queued job carries.
type JobType string

// JobTypeProcessPayment turns one confirmed payment into a ledger posting
// plus a revenue record.
const JobTypeProcessPayment JobType = "payment.process"

// JobStatus is the queue lifecycle state of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusDelayed   JobStatus = "delayed"
	JobStatusActive    JobStatus = "active"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Job is one unit of queued work. Jobs are created by the webhook gateway
// and consumed exclusively by the revenue worker.
type Job struct {
	ID           string          `json:"id"`
	Type         JobType         `json:"type"`
	Payload      json.RawMessage `json:"payload"`
	Priority     int             `json:"priority"` // 1 is highest
	AttemptsMade int             `json:"attempts_made"`
	MaxAttempts  int             `json:"max_attempts"`
	Status       JobStatus       `json:"status"`
	LastError    string          `json:"last_error,omitempty"`
	EnqueuedAt   time.Time       `json:"enqueued_at"`
	ReadyAt      time.Time       `json:"ready_at"`
	FinishedAt   *time.Time      `json:"finished_at,omitempty"`
}

// RetryDelay computes the exponential backoff before the given attempt is
// re-run: base * 2^(attempt-1).
func RetryDelay(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base * time.Duration(1<<uint(attempt-1))
}

// ProcessPaymentJob is the payload of a JobTypeProcessPayment job: the
// webhook's payment sub-object plus its envelope.
type ProcessPaymentJob struct {
	Event     string         `json:"event"`
	WebhookID string         `json:"webhook_id,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
	UnitID    string         `json:"unit_id"`
	Payment   PaymentPayload `json:"payment"`
}
