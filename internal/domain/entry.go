package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntrySide flags which side of the books an entry is bucketed under when
// checking the balance invariant. It does not decide which account is
// debited; both account references are explicit on the entry.
type EntrySide string

const (
	EntrySideDebit  EntrySide = "debit"
	EntrySideCredit EntrySide = "credit"
)

// EntryStatus is the lifecycle state of a ledger entry. Reports only ever
// read confirmed entries.
type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "pending"
	EntryStatusConfirmed EntryStatus = "confirmed"
	EntryStatusCancelled EntryStatus = "cancelled"
)

// BalanceEpsilon absorbs rounding when comparing debit and credit totals.
var BalanceEpsilon = decimal.NewFromFloat(0.01)

// LedgerEntry is one atomic double-entry posting: a positive amount moved
// from a debit account to a credit account within a competence period.
type LedgerEntry struct {
	ID              string
	EntryDate       time.Time
	CompetenceDate  time.Time // accounting period the entry belongs to
	DocumentNumber  string
	Description     string
	Amount          decimal.Decimal
	Side            EntrySide
	DebitAccountID  string
	CreditAccountID string
	UnitID          string
	Status          EntryStatus
	CreatedBy       string
	CreatedAt       time.Time
}

// Validate checks the posting invariants.
func (e *LedgerEntry) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return fmt.Errorf("%w: description is empty", ErrInvalidEntry)
	}

	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidEntry)
	}

	if e.DebitAccountID == "" || e.CreditAccountID == "" {
		return fmt.Errorf("%w: both accounts are required", ErrInvalidEntry)
	}

	if e.DebitAccountID == e.CreditAccountID {
		return fmt.Errorf("%w: debit and credit accounts must differ", ErrInvalidEntry)
	}

	if e.Side != EntrySideDebit && e.Side != EntrySideCredit {
		return fmt.Errorf("%w: unknown side %q", ErrInvalidEntry, e.Side)
	}

	if e.UnitID == "" {
		return fmt.Errorf("%w: unit is required", ErrInvalidEntry)
	}

	return nil
}
