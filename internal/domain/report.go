package domain

import "time"

// CheckSeverity grades a validation finding. Only critical findings
// invalidate a period.
type CheckSeverity string

const (
	SeverityWarning  CheckSeverity = "warning"
	SeverityCritical CheckSeverity = "critical"
)

// CheckCode identifies which check category produced a finding.
type CheckCode string

const (
	CheckReferentialIntegrity CheckCode = "REFERENTIAL_INTEGRITY"
	CheckAccountingImbalance  CheckCode = "ACCOUNTING_IMBALANCE"
	CheckInvalidValue         CheckCode = "INVALID_VALUE"
	CheckOutlierValue         CheckCode = "OUTLIER_VALUE"
	CheckAnomalousPattern     CheckCode = "ANOMALOUS_PATTERN"
	CheckMissingDescription   CheckCode = "MISSING_DESCRIPTION"
)

// CheckCount is the fixed number of check categories a validation run
// executes.
const CheckCount = 6

// ValidationFinding is one itemized error produced by a check.
type ValidationFinding struct {
	Code     CheckCode     `json:"code"`
	Severity CheckSeverity `json:"severity"`
	Message  string        `json:"message"`
	EntryID  string        `json:"entry_id,omitempty"`
}

// ValidationSummary counts check categories executed and passed.
type ValidationSummary struct {
	TotalChecks  int `json:"total_checks"`
	PassedChecks int `json:"passed_checks"`
}

// ValidationReport is the verdict of a validation run over a period.
// IsValid is true iff no critical finding was produced.
type ValidationReport struct {
	IsValid   bool                `json:"is_valid"`
	Errors    []ValidationFinding `json:"errors"`
	Summary   ValidationSummary   `json:"summary"`
	UnitID    string              `json:"unit_id"`
	Period    Period              `json:"-"`
	CheckedAt time.Time           `json:"checked_at"`
}
