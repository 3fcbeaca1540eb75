package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/andviana23/trato-sub001/internal/domain"
	"github.com/andviana23/trato-sub001/internal/usecase"
	"github.com/andviana23/trato-sub001/internal/usecase/mocks"
)

func newReportFixture() (*ReportHandler, *mocks.MockEntryRepository, *mocks.MockAccountRepository) {
	entryRepo := mocks.NewMockEntryRepository()
	accountRepo := mocks.NewMockAccountRepository()

	dreUC := usecase.NewDREUseCase(entryRepo, usecase.DREConfig{
		DeductionPrefix:        "4.9",
		FinancialRevenuePrefix: "3.9",
		FinancialExpensePrefix: "6.9",
		IncomeTaxRate:          decimal.RequireFromString("0.15"),
	})
	validationUC := usecase.NewValidationUseCase(accountRepo, entryRepo)

	return NewReportHandler(dreUC, validationUC, "unit-1"), entryRepo, accountRepo
}

func seedBalances(entryRepo *mocks.MockEntryRepository) {
	entryRepo.SumByAccountFunc = func(ctx context.Context, unitID string, p domain.Period) ([]*domain.AccountBalance, error) {
		return []*domain.AccountBalance{
			{
				AccountID:   "acc-rev",
				Code:        "3.1.01",
				Name:        "service revenue",
				Type:        domain.AccountTypeRevenue,
				DebitTotal:  decimal.Zero,
				CreditTotal: decimal.RequireFromString("50000"),
			},
			{
				AccountID:   "acc-cost",
				Code:        "5.1.01",
				Name:        "service cost",
				Type:        domain.AccountTypeCost,
				DebitTotal:  decimal.RequireFromString("20000"),
				CreditTotal: decimal.Zero,
			},
		}, nil
	}
}

func TestReportHandler_GetDRE(t *testing.T) {
	handler, entryRepo, _ := newReportFixture()
	seedBalances(entryRepo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/dre?from=2025-06-01&to=2025-06-30", nil)
	rec := httptest.NewRecorder()

	handler.GetDRE(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["unit_id"] != "unit-1" {
		t.Errorf("unit_id = %v, want unit-1", resp["unit_id"])
	}
	// Decimals marshal as JSON strings.
	if resp["receita_bruta"] != "50000" {
		t.Errorf("receita_bruta = %v, want 50000", resp["receita_bruta"])
	}
	if resp["lucro_bruto"] != "30000" {
		t.Errorf("lucro_bruto = %v, want 30000", resp["lucro_bruto"])
	}

	periodField, ok := resp["period"].(map[string]any)
	if !ok || periodField["from"] != "2025-06-01" {
		t.Errorf("period = %v, want from 2025-06-01", resp["period"])
	}
}

func TestReportHandler_GetDRE_MissingPeriod(t *testing.T) {
	handler, _, _ := newReportFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/dre", nil)
	rec := httptest.NewRecorder()

	handler.GetDRE(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestReportHandler_ExportDRE_CSV(t *testing.T) {
	handler, entryRepo, _ := newReportFixture()
	seedBalances(entryRepo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/dre/export?from=2025-06-01&to=2025-06-30", nil)
	rec := httptest.NewRecorder()

	handler.ExportDRE(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "dre_unit-1_2025-06-01_2025-06-30.csv") {
		t.Errorf("Content-Disposition = %q, want period-stamped csv filename", cd)
	}
	if !strings.Contains(rec.Body.String(), "receita_bruta,50000.00") {
		t.Errorf("body missing gross revenue line: %s", rec.Body.String())
	}
}

func TestReportHandler_ExportDRE_UnknownFormat(t *testing.T) {
	handler, entryRepo, _ := newReportFixture()
	seedBalances(entryRepo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/dre/export?from=2025-06-01&to=2025-06-30&format=xlsx", nil)
	rec := httptest.NewRecorder()

	handler.ExportDRE(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestReportHandler_CompareDRE(t *testing.T) {
	handler, entryRepo, _ := newReportFixture()

	entryRepo.SumByAccountFunc = func(ctx context.Context, unitID string, p domain.Period) ([]*domain.AccountBalance, error) {
		amount := "10000"
		if p.From.Month() == 6 {
			amount = "20000"
		}
		return []*domain.AccountBalance{{
			AccountID:   "acc-rev",
			Code:        "3.1.01",
			Name:        "service revenue",
			Type:        domain.AccountTypeRevenue,
			DebitTotal:  decimal.Zero,
			CreditTotal: decimal.RequireFromString(amount),
		}}, nil
	}

	target := "/api/v1/reports/dre/comparison?from=2025-06-01&to=2025-06-30&previous_from=2025-05-01&previous_to=2025-05-31"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()

	handler.CompareDRE(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Deltas map[string]struct {
			Absolute   string `json:"absolute"`
			Percentage string `json:"percentage"`
		} `json:"deltas"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	delta, ok := resp.Deltas["receita_bruta"]
	if !ok {
		t.Fatalf("missing receita_bruta delta: %+v", resp.Deltas)
	}
	if delta.Absolute != "10000" {
		t.Errorf("absolute delta = %s, want 10000", delta.Absolute)
	}
	if delta.Percentage != "100" {
		t.Errorf("percentage delta = %s, want 100", delta.Percentage)
	}
}

func TestReportHandler_Validate(t *testing.T) {
	handler, entryRepo, accountRepo := newReportFixture()

	cash := &domain.Account{ID: "acc-cash", Code: "1.1.01", Name: "cash", Type: domain.AccountTypeAsset, Active: true}
	revenue := &domain.Account{ID: "acc-rev", Code: "3.1.01", Name: "revenue", Type: domain.AccountTypeRevenue, Active: true}
	accountRepo.Create(context.Background(), cash)
	accountRepo.Create(context.Background(), revenue)

	entryRepo.ListConfirmedByPeriodFunc = func(ctx context.Context, unitID string, p domain.Period) ([]*domain.LedgerEntry, error) {
		return []*domain.LedgerEntry{{
			ID:              "e1",
			UnitID:          unitID,
			DebitAccountID:  "acc-cash",
			CreditAccountID: "acc-rev",
			Amount:          decimal.RequireFromString("150.00"),
			Description:     "subscription pay_1",
			Status:          domain.EntryStatusConfirmed,
			CompetenceDate:  p.From,
		}}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/validation?from=2025-06-01&to=2025-06-30", nil)
	rec := httptest.NewRecorder()

	handler.Validate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		IsValid bool `json:"is_valid"`
		Summary struct {
			TotalChecks  int `json:"total_checks"`
			PassedChecks int `json:"passed_checks"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.IsValid {
		t.Errorf("expected valid period, got %s", rec.Body.String())
	}
	if resp.Summary.TotalChecks != domain.CheckCount || resp.Summary.PassedChecks != domain.CheckCount {
		t.Errorf("summary = %+v, want all %d checks passed", resp.Summary, domain.CheckCount)
	}
}
