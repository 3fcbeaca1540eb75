package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/andviana23/trato-sub001/internal/adapter/http/dto"
	"github.com/andviana23/trato-sub001/internal/domain"
	"github.com/andviana23/trato-sub001/internal/infrastructure/metrics"
	"github.com/andviana23/trato-sub001/internal/usecase"
)

// SignatureHeader carries the hex HMAC-SHA256 digest of the raw body.
const SignatureHeader = "X-Webhook-Signature"

// Webhook bodies above this size are rejected before signature verification.
const maxWebhookBody = 1 << 20

// WebhookHandler receives payment notifications from the gateway.
type WebhookHandler struct {
	webhookUC *usecase.WebhookUseCase
	logRepo   usecase.WebhookLogRepository
	metrics   *metrics.Metrics
}

// NewWebhookHandler creates a new WebhookHandler. Metrics may be nil.
func NewWebhookHandler(webhookUC *usecase.WebhookUseCase, logRepo usecase.WebhookLogRepository, m *metrics.Metrics) *WebhookHandler {
	return &WebhookHandler{
		webhookUC: webhookUC,
		logRepo:   logRepo,
		metrics:   m,
	}
}

// Receive handles one inbound payment notification.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body", err.Error())
		return
	}

	h.countReceived(body)

	result, err := h.webhookUC.HandleWebhook(r.Context(), body, r.Header.Get(SignatureHeader))
	if err != nil {
		status := mapDomainError(err)
		h.countRejected(err)
		writeError(w, status, "webhook rejected", err.Error())
		return
	}

	if !result.Processed && h.metrics != nil {
		h.metrics.WebhooksIgnored.Inc()
	}

	writeJSON(w, http.StatusOK, dto.WebhookAckResponse{
		Message:   result.Message,
		JobID:     result.JobID,
		Processed: result.Processed,
	})
}

// ListLogs returns the webhook audit trail, newest first.
func (h *WebhookHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	logs, err := h.logRepo.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list webhook logs", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WebhookLogsFromDomain(logs))
}

func (h *WebhookHandler) countReceived(body []byte) {
	if h.metrics == nil {
		return
	}

	h.metrics.WebhooksReceived.WithLabelValues(eventLabel(body)).Inc()
}

// eventLabel maps the body onto the closed event set so an unauthenticated
// caller cannot mint unbounded label series.
func eventLabel(body []byte) string {
	var envelope struct {
		Event string `json:"event"`
	}
	if json.Unmarshal(body, &envelope) != nil {
		return "other"
	}

	event := domain.ParsePaymentEvent(envelope.Event)
	if event == domain.PaymentEventIgnored {
		return "other"
	}
	return string(event)
}

func (h *WebhookHandler) countRejected(err error) {
	if h.metrics == nil {
		return
	}

	reason := "internal"
	switch {
	case errors.Is(err, domain.ErrSignatureAbsent):
		reason = "signature_absent"
	case errors.Is(err, domain.ErrSignatureInvalid):
		reason = "signature_invalid"
	case errors.Is(err, domain.ErrInvalidPayload):
		reason = "invalid_payload"
	}

	h.metrics.WebhooksRejected.WithLabelValues(reason).Inc()
}
