package handler

import (
	"net/http"

	"github.com/andviana23/trato-sub001/internal/adapter/http/dto"
	"github.com/andviana23/trato-sub001/internal/usecase"
)

// JobHandler exposes the job queue for inspection.
type JobHandler struct {
	queue usecase.JobQueue
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(queue usecase.JobQueue) *JobHandler {
	return &JobHandler{queue: queue}
}

// ListFailed returns jobs that exhausted their attempts or failed on a
// non-retryable error, newest first.
func (h *JobHandler) ListFailed(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)

	jobs, err := h.queue.ListFailed(r.Context(), limit)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list failed jobs", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.JobsFromDomain(jobs))
}
