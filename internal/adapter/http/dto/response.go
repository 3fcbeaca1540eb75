package dto

import (
	"time"

	"github.com/andviana23/trato-sub001/internal/domain"
)

// WebhookAckResponse is the gateway's answer to one notification.
type WebhookAckResponse struct {
	Message   string `json:"message"`
	JobID     string `json:"job_id,omitempty"`
	Processed bool   `json:"processed"`
}

// PeriodResponse renders a closed date range as calendar dates.
type PeriodResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// PeriodFromDomain converts a domain period to its response form.
func PeriodFromDomain(p domain.Period) PeriodResponse {
	return PeriodResponse{
		From: p.From.Format("2006-01-02"),
		To:   p.To.Format("2006-01-02"),
	}
}

// DREResponse represents an income statement in API responses.
type DREResponse struct {
	Period PeriodResponse `json:"period"`
	*domain.DREStatement
}

// DREFromDomain converts a domain statement to a response.
func DREFromDomain(st *domain.DREStatement) *DREResponse {
	return &DREResponse{
		Period:       PeriodFromDomain(st.Period),
		DREStatement: st,
	}
}

// DREComparisonResponse represents a period-over-period comparison.
type DREComparisonResponse struct {
	Current  *DREResponse                `json:"current"`
	Previous *DREResponse                `json:"previous"`
	Deltas   map[string]domain.LineDelta `json:"deltas"`
}

// DREComparisonFromDomain converts a domain comparison to a response.
func DREComparisonFromDomain(c *domain.DREComparison) *DREComparisonResponse {
	return &DREComparisonResponse{
		Current:  DREFromDomain(c.Current),
		Previous: DREFromDomain(c.Previous),
		Deltas:   c.Deltas,
	}
}

// ValidationResponse represents a validation report in API responses.
type ValidationResponse struct {
	Period PeriodResponse `json:"period"`
	*domain.ValidationReport
}

// ValidationFromDomain converts a domain report to a response.
func ValidationFromDomain(r *domain.ValidationReport) *ValidationResponse {
	return &ValidationResponse{
		Period:           PeriodFromDomain(r.Period),
		ValidationReport: r,
	}
}

// JobResponse represents a queued job in API responses.
type JobResponse struct {
	ID           string     `json:"id"`
	Type         string     `json:"type"`
	Priority     int        `json:"priority"`
	AttemptsMade int        `json:"attempts_made"`
	MaxAttempts  int        `json:"max_attempts"`
	Status       string     `json:"status"`
	LastError    string     `json:"last_error,omitempty"`
	EnqueuedAt   time.Time  `json:"enqueued_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// JobFromDomain converts a domain job to a response.
func JobFromDomain(j *domain.Job) *JobResponse {
	return &JobResponse{
		ID:           j.ID,
		Type:         string(j.Type),
		Priority:     j.Priority,
		AttemptsMade: j.AttemptsMade,
		MaxAttempts:  j.MaxAttempts,
		Status:       string(j.Status),
		LastError:    j.LastError,
		EnqueuedAt:   j.EnqueuedAt,
		FinishedAt:   j.FinishedAt,
	}
}

// JobsFromDomain converts domain jobs to responses.
func JobsFromDomain(jobs []*domain.Job) []*JobResponse {
	result := make([]*JobResponse, len(jobs))
	for i, j := range jobs {
		result[i] = JobFromDomain(j)
	}
	return result
}

// WebhookLogResponse represents an audit log row in API responses. The raw
// payload is omitted on the list endpoint.
type WebhookLogResponse struct {
	ID          string     `json:"id"`
	Event       string     `json:"event"`
	Processed   bool       `json:"processed"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	Error       *string    `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// WebhookLogFromDomain converts a domain log row to a response.
func WebhookLogFromDomain(l *domain.WebhookLog) *WebhookLogResponse {
	return &WebhookLogResponse{
		ID:          l.ID,
		Event:       l.Event,
		Processed:   l.Processed,
		ProcessedAt: l.ProcessedAt,
		Error:       l.Error,
		CreatedAt:   l.CreatedAt,
	}
}

// WebhookLogsFromDomain converts domain log rows to responses.
func WebhookLogsFromDomain(logs []*domain.WebhookLog) []*WebhookLogResponse {
	result := make([]*WebhookLogResponse, len(logs))
	for i, l := range logs {
		result[i] = WebhookLogFromDomain(l)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
