package domain

import (
	"fmt"
	"strings"
	"time"
)

// AccountType classifies a chart-of-accounts node.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
	AccountTypeCost      AccountType = "cost"
)

// IsDebitNature reports whether the account's balance grows on the debit side
// (balance = debits - credits). Revenue, liability and equity accounts grow on
// the credit side.
func (t AccountType) IsDebitNature() bool {
	switch t {
	case AccountTypeAsset, AccountTypeExpense, AccountTypeCost:
		return true
	}
	return false
}

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
		AccountTypeRevenue, AccountTypeExpense, AccountTypeCost:
		return true
	}
	return false
}

// AccountRole names a well-known default account for a unit.
type AccountRole string

const (
	AccountRoleCash    AccountRole = "cash"
	AccountRoleRevenue AccountRole = "revenue"
)

// Account is one node of the chart of accounts.
type Account struct {
	ID        string
	Code      string // hierarchical, e.g. "4.1.1.1"
	Name      string
	Type      AccountType
	ParentID  *string
	Level     int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks structural invariants of the account.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Code) == "" {
		return fmt.Errorf("%w: code is empty", ErrInvalidAccount)
	}

	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidAccount)
	}

	if !a.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidAccount, a.Type)
	}

	if a.Level < 1 {
		return fmt.Errorf("%w: level must be at least 1", ErrInvalidAccount)
	}

	// A root account sits at level 1; children are one level below their parent.
	if a.ParentID == nil && a.Level != 1 {
		return fmt.Errorf("%w: root account must have level 1", ErrInvalidAccount)
	}

	return nil
}
