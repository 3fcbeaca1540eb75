package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var cents = decimal.NewFromInt(100)

// ValueFromCents converts a gateway amount in minor currency units to major
// units with two-decimal precision: 10000 -> 100.00, 99 -> 0.99, 0 -> 0.00.
func ValueFromCents(v int64) decimal.Decimal {
	return decimal.NewFromInt(v).DivRound(cents, 2)
}

// RevenueRecord is one recognized payment. PaymentID is the external gateway
// identifier and doubles as the idempotency key; the store enforces its
// uniqueness. Each record owns exactly one LedgerEntry.
type RevenueRecord struct {
	ID            string
	PaymentID     string
	CustomerID    *string
	Value         decimal.Decimal
	Description   string
	LedgerEntryID string
	CreatedAt     time.Time
}

// Customer is the local mirror of a gateway customer, matched by the
// gateway's external id. Enrichment is best-effort: a missing customer never
// blocks posting.
type Customer struct {
	ID         string
	ExternalID string
	Name       string
	Email      string
	UnitID     string
	CreatedAt  time.Time
}
