package handler

import (
	"fmt"
	"net/http"

	"github.com/andviana23/trato-sub001/internal/adapter/http/dto"
	"github.com/andviana23/trato-sub001/internal/usecase"
)

// ReportHandler serves income statements and financial validation reports.
type ReportHandler struct {
	dreUC        *usecase.DREUseCase
	validationUC *usecase.ValidationUseCase
	defaultUnit  string
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(dreUC *usecase.DREUseCase, validationUC *usecase.ValidationUseCase, defaultUnit string) *ReportHandler {
	return &ReportHandler{
		dreUC:        dreUC,
		validationUC: validationUC,
		defaultUnit:  defaultUnit,
	}
}

// GetDRE computes the income statement for a unit and period.
func (h *ReportHandler) GetDRE(w http.ResponseWriter, r *http.Request) {
	query, err := dto.ParseReportQuery(r.URL.Query(), h.defaultUnit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report query", err.Error())
		return
	}

	statement, err := h.dreUC.ComputeDRE(r.Context(), usecase.ComputeDREInput{
		UnitID: query.UnitID,
		Period: query.Period,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute statement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DREFromDomain(statement))
}

// CompareDRE computes two statements and their per-line deltas. The previous
// period comes from previous_from and previous_to.
func (h *ReportHandler) CompareDRE(w http.ResponseWriter, r *http.Request) {
	query, err := dto.ParseReportQuery(r.URL.Query(), h.defaultUnit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report query", err.Error())
		return
	}

	previous, err := dto.ParsePeriod(r.URL.Query().Get("previous_from"), r.URL.Query().Get("previous_to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid previous period", err.Error())
		return
	}

	comparison, err := h.dreUC.ComputeDREComparison(r.Context(), query.Period, previous, query.UnitID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute comparison", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DREComparisonFromDomain(comparison))
}

// ExportDRE downloads the statement as CSV (default) or JSON.
func (h *ReportHandler) ExportDRE(w http.ResponseWriter, r *http.Request) {
	query, err := dto.ParseReportQuery(r.URL.Query(), h.defaultUnit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report query", err.Error())
		return
	}

	statement, err := h.dreUC.ComputeDRE(r.Context(), usecase.ComputeDREInput{
		UnitID: query.UnitID,
		Period: query.Period,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute statement", err.Error())
		return
	}

	var (
		data        []byte
		filename    string
		contentType string
	)

	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		data, filename, err = h.dreUC.ExportCSV(statement)
		contentType = "text/csv"
	case "json":
		data, filename, err = h.dreUC.ExportJSON(statement)
		contentType = "application/json"
	default:
		writeError(w, http.StatusBadRequest, "invalid export format", format)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to export statement", err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Validate runs the financial check battery over a unit and period.
func (h *ReportHandler) Validate(w http.ResponseWriter, r *http.Request) {
	query, err := dto.ParseReportQuery(r.URL.Query(), h.defaultUnit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report query", err.Error())
		return
	}

	report, err := h.validationUC.ValidatePeriod(r.Context(), usecase.ValidatePeriodInput{
		UnitID: query.UnitID,
		Period: query.Period,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to validate period", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ValidationFromDomain(report))
}
