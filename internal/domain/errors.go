package domain

import "errors"

var (
	// Gateway errors
	ErrInvalidPayload   = errors.New("webhook payload is not valid")
	ErrSignatureAbsent  = errors.New("signature absent")
	ErrSignatureInvalid = errors.New("signature invalid")

	// Ledger errors
	ErrInvalidAccount         = errors.New("invalid account")
	ErrAccountNotFound        = errors.New("account not found")
	ErrDefaultAccountNotFound = errors.New("default account not found")
	ErrInvalidEntry           = errors.New("invalid ledger entry")
	ErrEntryNotFound          = errors.New("ledger entry not found")

	// Revenue errors
	ErrDuplicatePayment      = errors.New("payment already processed")
	ErrRevenueRecordNotFound = errors.New("revenue record not found")
	ErrRevenueRecordCreation = errors.New("failed to create revenue record")
	ErrCustomerNotFound      = errors.New("customer not found")

	// Report errors
	ErrInvalidPeriod = errors.New("invalid date range")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// IsRetryable reports whether a processing failure may succeed on a later
// attempt. Duplicate payments and missing account configuration cannot be
// fixed by retrying; everything else is assumed transient.
func IsRetryable(err error) bool {
	switch {
	case errors.Is(err, ErrDuplicatePayment),
		errors.Is(err, ErrDefaultAccountNotFound),
		errors.Is(err, ErrInvalidPayload),
		errors.Is(err, ErrInvalidEntry),
		errors.Is(err, ErrInvalidPeriod):
		return false
	}

	return true
}
