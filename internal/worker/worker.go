package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/andviana23/trato-sub001/internal/domain"
	"github.com/andviana23/trato-sub001/internal/infrastructure/metrics"
	"github.com/andviana23/trato-sub001/internal/usecase"
)

// PaymentProcessor posts one payment to the ledger.
type PaymentProcessor interface {
	ProcessPayment(ctx context.Context, input usecase.ProcessPaymentInput) (*domain.RevenueRecord, error)
}

// Worker drains the job queue and feeds the revenue processor. Retry
// scheduling is delegated to the queue; the worker only classifies outcomes.
type Worker struct {
	queue       usecase.JobQueue
	processor   PaymentProcessor
	logger      zerolog.Logger
	metrics     *metrics.Metrics
	concurrency int
	pollDelay   time.Duration
}

// Config for Worker.
type Config struct {
	Queue       usecase.JobQueue
	Processor   PaymentProcessor
	Logger      zerolog.Logger
	Metrics     *metrics.Metrics // optional
	Concurrency int
	PollDelay   time.Duration
}

// New creates a new Worker.
func New(cfg Config) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.PollDelay <= 0 {
		cfg.PollDelay = 500 * time.Millisecond
	}

	return &Worker{
		queue:       cfg.Queue,
		processor:   cfg.Processor,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		concurrency: cfg.Concurrency,
		pollDelay:   cfg.PollDelay,
	}
}

// Start runs the worker loops until the context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info().
		Int("concurrency", w.concurrency).
		Dur("poll_delay", w.pollDelay).
		Msg("worker started")

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.loop(ctx)
		}()
	}

	wg.Wait()
	w.logger.Info().Msg("worker shut down")

	return ctx.Err()
}

func (w *Worker) loop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error().Err(err).Msg("dequeue failed")
			w.sleep(ctx)
			continue
		}

		if job == nil {
			w.sleep(ctx)
			continue
		}

		w.handle(ctx, job)
	}
}

func (w *Worker) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(w.pollDelay):
	}
}

// handle runs one job and settles its queue state.
func (w *Worker) handle(ctx context.Context, job *domain.Job) {
	start := time.Now()
	err := w.run(ctx, job)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		w.logger.Info().
			Str("job_id", job.ID).
			Dur("elapsed", elapsed).
			Msg("job completed")
		w.complete(ctx, job)

	case errors.Is(err, domain.ErrDuplicatePayment):
		// An explicit non-success: the job is settled, but the cause stays
		// visible on the archived job so operators can see retransmission
		// volume.
		w.logger.Warn().
			Str("job_id", job.ID).
			Err(err).
			Msg("duplicate payment, job settled")
		job.LastError = err.Error()
		if w.metrics != nil {
			w.metrics.PaymentsDuplicated.Inc()
		}
		w.complete(ctx, job)

	default:
		w.logger.Error().
			Str("job_id", job.ID).
			Int("attempts", job.AttemptsMade+1).
			Err(err).
			Msg("job failed")
		w.retry(ctx, job, err)
	}

	if w.metrics != nil {
		w.metrics.ProcessingDuration.Observe(elapsed.Seconds())
	}
}

func (w *Worker) run(ctx context.Context, job *domain.Job) error {
	switch job.Type {
	case domain.JobTypeProcessPayment:
		return w.processPayment(ctx, job)
	default:
		return fmt.Errorf("%w: unknown job type %q", domain.ErrInvalidPayload, job.Type)
	}
}

func (w *Worker) processPayment(ctx context.Context, job *domain.Job) error {
	var payload domain.ProcessPaymentJob
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}

	record, err := w.processor.ProcessPayment(ctx, usecase.ProcessPaymentInput{
		Event:     payload.Event,
		WebhookID: payload.WebhookID,
		Timestamp: payload.Timestamp,
		UnitID:    payload.UnitID,
		Payment:   payload.Payment,
		CreatedBy: "worker",
	})
	if err != nil {
		return err
	}

	if w.metrics != nil {
		w.metrics.PaymentsProcessed.Inc()
		amount, _ := record.Value.Float64()
		w.metrics.RevenueAmount.Observe(amount)
	}

	return nil
}

func (w *Worker) complete(ctx context.Context, job *domain.Job) {
	if err := w.queue.Complete(ctx, job); err != nil {
		w.logger.Error().Str("job_id", job.ID).Err(err).Msg("failed to settle job")
		return
	}
	if w.metrics != nil {
		w.metrics.JobsCompleted.Inc()
	}
}

func (w *Worker) retry(ctx context.Context, job *domain.Job, cause error) {
	if err := w.queue.Retry(ctx, job, cause); err != nil {
		w.logger.Error().Str("job_id", job.ID).Err(err).Msg("failed to re-queue job")
		return
	}

	if w.metrics == nil {
		return
	}
	if job.Status == domain.JobStatusFailed {
		w.metrics.JobsFailed.Inc()
	} else {
		w.metrics.JobsRetried.Inc()
	}
}
