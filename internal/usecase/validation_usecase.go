package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andviana23/trato-sub001/internal/domain"
)

// DefaultOutlierMultiple flags amounts above this multiple of the period
// mean as outliers.
var DefaultOutlierMultiple = decimal.NewFromInt(10)

// ValidationUseCase runs the fixed battery of structural checks over a
// period's confirmed postings. Read-only; safe alongside ingestion.
type ValidationUseCase struct {
	accountRepo     AccountRepository
	entryRepo       EntryRepository
	outlierMultiple decimal.Decimal
}

// NewValidationUseCase creates a new ValidationUseCase.
func NewValidationUseCase(accountRepo AccountRepository, entryRepo EntryRepository) *ValidationUseCase {
	return &ValidationUseCase{
		accountRepo:     accountRepo,
		entryRepo:       entryRepo,
		outlierMultiple: DefaultOutlierMultiple,
	}
}

// ValidatePeriodInput selects the period and unit to check.
type ValidatePeriodInput struct {
	Period domain.Period
	UnitID string
}

// ValidatePeriod executes all six check categories in order and returns the
// verdict. A period is valid iff no critical finding was produced; warnings
// alone do not invalidate.
func (uc *ValidationUseCase) ValidatePeriod(ctx context.Context, input ValidatePeriodInput) (*domain.ValidationReport, error) {
	if err := input.Period.Validate(); err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.ListConfirmedByPeriod(ctx, input.UnitID, input.Period)
	if err != nil {
		return nil, fmt.Errorf("load period entries: %w", err)
	}

	accounts, err := uc.accountRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chart of accounts: %w", err)
	}

	known := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		known[a.ID] = true
	}

	checks := []func([]*domain.LedgerEntry) []domain.ValidationFinding{
		func(es []*domain.LedgerEntry) []domain.ValidationFinding { return checkReferentialIntegrity(es, known) },
		checkAccountingBalance,
		checkInvalidValues,
		uc.checkOutliers,
		checkAnomalousPatterns,
		checkMissingDescriptions,
	}

	report := &domain.ValidationReport{
		UnitID:    input.UnitID,
		Period:    input.Period,
		Errors:    []domain.ValidationFinding{},
		CheckedAt: time.Now().UTC(),
	}
	report.Summary.TotalChecks = domain.CheckCount

	for _, check := range checks {
		findings := check(entries)
		if len(findings) == 0 {
			report.Summary.PassedChecks++
		}
		report.Errors = append(report.Errors, findings...)
	}

	report.IsValid = true
	for _, f := range report.Errors {
		if f.Severity == domain.SeverityCritical {
			report.IsValid = false
			break
		}
	}

	return report, nil
}

// checkReferentialIntegrity flags entries whose account references do not
// resolve against the chart of accounts.
func checkReferentialIntegrity(entries []*domain.LedgerEntry, known map[string]bool) []domain.ValidationFinding {
	var findings []domain.ValidationFinding
	for _, e := range entries {
		if !known[e.DebitAccountID] {
			findings = append(findings, domain.ValidationFinding{
				Code:     domain.CheckReferentialIntegrity,
				Severity: domain.SeverityCritical,
				Message:  fmt.Sprintf("debit account %s does not exist", e.DebitAccountID),
				EntryID:  e.ID,
			})
		}
		if !known[e.CreditAccountID] {
			findings = append(findings, domain.ValidationFinding{
				Code:     domain.CheckReferentialIntegrity,
				Severity: domain.SeverityCritical,
				Message:  fmt.Sprintf("credit account %s does not exist", e.CreditAccountID),
				EntryID:  e.ID,
			})
		}
	}
	return findings
}

// checkAccountingBalance compares the debit-flagged and credit-flagged
// totals for the period within the rounding epsilon.
func checkAccountingBalance(entries []*domain.LedgerEntry) []domain.ValidationFinding {
	debits, credits := decimal.Zero, decimal.Zero
	for _, e := range entries {
		switch e.Side {
		case domain.EntrySideDebit:
			debits = debits.Add(e.Amount)
		case domain.EntrySideCredit:
			credits = credits.Add(e.Amount)
		}
	}

	diff := debits.Sub(credits).Abs()
	if diff.GreaterThan(domain.BalanceEpsilon) {
		return []domain.ValidationFinding{{
			Code:     domain.CheckAccountingImbalance,
			Severity: domain.SeverityCritical,
			Message: fmt.Sprintf("debits %s and credits %s differ by %s",
				debits.StringFixed(2), credits.StringFixed(2), diff.StringFixed(2)),
		}}
	}

	return nil
}

func checkInvalidValues(entries []*domain.LedgerEntry) []domain.ValidationFinding {
	var findings []domain.ValidationFinding
	for _, e := range entries {
		if !e.Amount.IsPositive() {
			findings = append(findings, domain.ValidationFinding{
				Code:     domain.CheckInvalidValue,
				Severity: domain.SeverityCritical,
				Message:  fmt.Sprintf("amount %s is not positive", e.Amount.StringFixed(2)),
				EntryID:  e.ID,
			})
		}
	}
	return findings
}

// checkOutliers flags amounts far above the period's typical value.
// Informational: an outlier is not necessarily invalid.
func (uc *ValidationUseCase) checkOutliers(entries []*domain.LedgerEntry) []domain.ValidationFinding {
	if len(entries) < 2 {
		return nil
	}

	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}

	mean := total.DivRound(decimal.NewFromInt(int64(len(entries))), 4)
	if !mean.IsPositive() {
		return nil
	}

	threshold := mean.Mul(uc.outlierMultiple)

	var findings []domain.ValidationFinding
	for _, e := range entries {
		if e.Amount.GreaterThan(threshold) {
			findings = append(findings, domain.ValidationFinding{
				Code:     domain.CheckOutlierValue,
				Severity: domain.SeverityWarning,
				Message: fmt.Sprintf("amount %s exceeds %sx the period mean of %s",
					e.Amount.StringFixed(2), uc.outlierMultiple.String(), mean.StringFixed(2)),
				EntryID: e.ID,
			})
		}
	}
	return findings
}

// checkAnomalousPatterns flags duplicate-looking postings: same competence
// day, amount and account pair.
func checkAnomalousPatterns(entries []*domain.LedgerEntry) []domain.ValidationFinding {
	seen := make(map[string]string, len(entries))

	var findings []domain.ValidationFinding
	for _, e := range entries {
		key := fmt.Sprintf("%s|%s|%s|%s",
			e.CompetenceDate.Format("2006-01-02"), e.Amount.String(), e.DebitAccountID, e.CreditAccountID)

		if firstID, ok := seen[key]; ok {
			findings = append(findings, domain.ValidationFinding{
				Code:     domain.CheckAnomalousPattern,
				Severity: domain.SeverityWarning,
				Message:  fmt.Sprintf("entry looks like a duplicate of %s", firstID),
				EntryID:  e.ID,
			})
			continue
		}
		seen[key] = e.ID
	}
	return findings
}

func checkMissingDescriptions(entries []*domain.LedgerEntry) []domain.ValidationFinding {
	var findings []domain.ValidationFinding
	for _, e := range entries {
		if strings.TrimSpace(e.Description) == "" {
			findings = append(findings, domain.ValidationFinding{
				Code:     domain.CheckMissingDescription,
				Severity: domain.SeverityWarning,
				Message:  "entry has no historic text",
				EntryID:  e.ID,
			})
		}
	}
	return findings
}
