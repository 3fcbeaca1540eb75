package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/andviana23/trato-sub001/internal/domain"
)

// WebhookConfig tunes the gateway's queueing behavior.
type WebhookConfig struct {
	Secret      string
	UnitID      string
	MaxAttempts int
}

// WebhookUseCase authenticates inbound gateway notifications, audit-logs
// every well-formed one, and enqueues eligible payment events for processing.
type WebhookUseCase struct {
	logRepo  WebhookLogRepository
	queue    JobQueue
	cfg      WebhookConfig
	validate *validator.Validate
}

// NewWebhookUseCase creates a new WebhookUseCase.
func NewWebhookUseCase(logRepo WebhookLogRepository, queue JobQueue, cfg WebhookConfig) *WebhookUseCase {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}

	return &WebhookUseCase{
		logRepo:  logRepo,
		queue:    queue,
		cfg:      cfg,
		validate: validator.New(),
	}
}

// WebhookResult is the gateway's answer to one notification.
type WebhookResult struct {
	Message   string
	JobID     string
	Processed bool
}

// VerifySignature recomputes the HMAC-SHA256 hex digest of the raw request
// body and compares it against the provided signature in constant time. A
// missing signature and a mismatched one are both authentication failures,
// distinguished only for the audit trail.
func (uc *WebhookUseCase) VerifySignature(rawBody []byte, provided string) error {
	if provided == "" {
		return domain.ErrSignatureAbsent
	}

	mac := hmac.New(sha256.New, []byte(uc.cfg.Secret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(provided)) {
		return domain.ErrSignatureInvalid
	}

	return nil
}

// HandleWebhook runs the full gateway contract over one raw notification.
// Every well-formed notification writes exactly one WebhookLog row; audit
// completeness does not depend on successful authentication.
func (uc *WebhookUseCase) HandleWebhook(ctx context.Context, rawBody []byte, signature string) (*WebhookResult, error) {
	var notification domain.PaymentNotification
	if err := json.Unmarshal(rawBody, &notification); err != nil || notification.Event == "" {
		// No well-formed event to log.
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}

	if err := uc.VerifySignature(rawBody, signature); err != nil {
		if logErr := uc.writeLog(ctx, &notification, rawBody, signature, false, err); logErr != nil {
			return nil, fmt.Errorf("audit log write: %w", logErr)
		}
		return nil, err
	}

	if !uc.eligible(&notification) {
		if err := uc.writeLog(ctx, &notification, rawBody, signature, false, nil); err != nil {
			return nil, fmt.Errorf("audit log write: %w", err)
		}
		return &WebhookResult{Message: "event acknowledged"}, nil
	}

	job, err := uc.enqueue(ctx, &notification)
	if err != nil {
		err = fmt.Errorf("enqueue processing job: %w", err)
		if logErr := uc.writeLog(ctx, &notification, rawBody, signature, false, err); logErr != nil {
			return nil, fmt.Errorf("audit log write: %w", logErr)
		}
		return nil, err
	}

	if err := uc.writeLog(ctx, &notification, rawBody, signature, true, nil); err != nil {
		return nil, fmt.Errorf("audit log write: %w", err)
	}

	return &WebhookResult{
		Message:   "payment queued for processing",
		JobID:     job.ID,
		Processed: true,
	}, nil
}

// eligible decides whether the event gets processed: only a confirmed
// payment on a PAYMENT_CONFIRMED event with a structurally complete payment
// object. Everything else is acknowledged without processing.
func (uc *WebhookUseCase) eligible(n *domain.PaymentNotification) bool {
	if domain.ParsePaymentEvent(n.Event) != domain.PaymentEventConfirmed {
		return false
	}

	if n.Payment == nil || n.Payment.Status != domain.PaymentStatusConfirmed {
		return false
	}

	return uc.validate.Struct(n.Payment) == nil
}

func (uc *WebhookUseCase) enqueue(ctx context.Context, n *domain.PaymentNotification) (*domain.Job, error) {
	payload, err := json.Marshal(domain.ProcessPaymentJob{
		Event:     n.Event,
		WebhookID: n.WebhookID,
		Timestamp: n.Timestamp,
		UnitID:    uc.cfg.UnitID,
		Payment:   *n.Payment,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &domain.Job{
		ID:          uuid.New().String(),
		Type:        domain.JobTypeProcessPayment,
		Payload:     payload,
		Priority:    1,
		MaxAttempts: uc.cfg.MaxAttempts,
		Status:      domain.JobStatusPending,
		EnqueuedAt:  now,
		ReadyAt:     now,
	}

	if err := uc.queue.Enqueue(ctx, job); err != nil {
		return nil, err
	}

	return job, nil
}

func (uc *WebhookUseCase) writeLog(ctx context.Context, n *domain.PaymentNotification, rawBody []byte, signature string, processed bool, cause error) error {
	log := &domain.WebhookLog{
		ID:        uuid.New().String(),
		Event:     n.Event,
		Payload:   rawBody,
		Signature: signature,
		Processed: processed,
		CreatedAt: time.Now().UTC(),
	}

	if processed {
		now := time.Now().UTC()
		log.ProcessedAt = &now
	}

	if cause != nil {
		msg := errorText(cause)
		log.Error = &msg
	}

	return uc.logRepo.Create(ctx, log)
}

// errorText collapses the two authentication failures into the audit wording
// the gateway has always used.
func errorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrSignatureAbsent):
		return "absent signature"
	case errors.Is(err, domain.ErrSignatureInvalid):
		return "invalid signature"
	}
	return err.Error()
}
