package dto

import (
	"fmt"
	"net/url"
	"time"

	"github.com/andviana23/trato-sub001/internal/domain"
)

const dateLayout = "2006-01-02"

// ReportQuery carries the query parameters shared by the report endpoints.
type ReportQuery struct {
	UnitID string
	Period domain.Period
}

// ParseReportQuery reads unit_id, from and to from the query string. The
// unit falls back to the configured default when absent; the period is
// required and must be a valid calendar range.
func ParseReportQuery(q url.Values, defaultUnit string) (ReportQuery, error) {
	unitID := q.Get("unit_id")
	if unitID == "" {
		unitID = defaultUnit
	}

	period, err := ParsePeriod(q.Get("from"), q.Get("to"))
	if err != nil {
		return ReportQuery{}, err
	}

	return ReportQuery{UnitID: unitID, Period: period}, nil
}

// ParsePeriod parses a closed date range from two YYYY-MM-DD values. The
// upper bound is extended to the end of its day so same-day entries with a
// timestamp are included.
func ParsePeriod(fromStr, toStr string) (domain.Period, error) {
	from, err := time.Parse(dateLayout, fromStr)
	if err != nil {
		return domain.Period{}, fmt.Errorf("%w: from %q", domain.ErrInvalidPeriod, fromStr)
	}

	to, err := time.Parse(dateLayout, toStr)
	if err != nil {
		return domain.Period{}, fmt.Errorf("%w: to %q", domain.ErrInvalidPeriod, toStr)
	}

	period := domain.Period{
		From: from,
		To:   to.Add(24*time.Hour - time.Nanosecond),
	}
	if err := period.Validate(); err != nil {
		return domain.Period{}, err
	}

	return period, nil
}
