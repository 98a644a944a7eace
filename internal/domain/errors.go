package domain

import (
	"errors"
	"fmt"
)

// Error families. Specific errors wrap one of these so callers can match on
// the family with errors.Is.
var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid input")
	ErrConflict = errors.New("conflict")
)

var (
	// Lookup errors
	ErrBorrowerNotFound = fmt.Errorf("borrower %w", ErrNotFound)
	ErrLoanNotFound     = fmt.Errorf("loan %w", ErrNotFound)
	ErrPeriodNotFound   = fmt.Errorf("cashbook period %w", ErrNotFound)

	// Input errors
	ErrInvalidAmount        = fmt.Errorf("%w: amount must be positive", ErrInvalid)
	ErrInvalidOwnerTxType   = fmt.Errorf("%w: owner transaction type must be CAPITAL_IN or DRAWING", ErrInvalid)
	ErrMissingDescription   = fmt.Errorf("%w: description is required", ErrInvalid)
	ErrMissingBorrowerName  = fmt.Errorf("%w: full name is required", ErrInvalid)
	ErrMissingBorrowerPhone = fmt.Errorf("%w: phone is required", ErrInvalid)
	ErrInvalidDate          = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalid)
	ErrInvalidLoanPolicy    = fmt.Errorf("%w: loan policy", ErrInvalid)
	ErrMissingIdentifier    = fmt.Errorf("%w: identifier is required", ErrInvalid)

	// Lock gate
	ErrPeriodLocked  = errors.New("cashbook period is locked")
	ErrAlreadyLocked = errors.New("cashbook period is already locked")
	ErrNotLocked     = errors.New("cashbook period is not locked")

	// Loans
	ErrExceedsRemaining = errors.New("payment exceeds remaining balance")
	ErrActiveLoanExists = errors.New("borrower already has an active loan")
	ErrLoanHasPayments  = fmt.Errorf("%w: loan has recorded payments", ErrConflict)
	ErrBorrowerHasLoans = fmt.Errorf("%w: borrower has loans", ErrConflict)

	// ErrSettlementFailed is returned when a write succeeded but the period
	// aggregates could not be rederived. The write is rolled back with it.
	ErrSettlementFailed = errors.New("settlement failed: period aggregates are stale")
)
