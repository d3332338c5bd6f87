package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Account errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateCode      = errors.New("account code already registered")
	ErrParentNotFound     = errors.New("parent account not found")
	ErrSystemAccount      = errors.New("system account cannot be deleted")
	ErrAccountInUse       = errors.New("account is referenced by journal lines")
	ErrInvalidAccountType = errors.New("invalid account type")

	// Line errors
	ErrUnknownAccount = errors.New("unknown account")
	ErrNegativeAmount = errors.New("amounts must not be negative")
	ErrAmbiguousSide  = errors.New("exactly one of debit or credit must be positive")
	ErrAmountTooLarge = errors.New("amount exceeds maximum allowed")
	ErrInvalidAmount  = errors.New("invalid amount")

	// Entry errors
	ErrEntryNotFound       = errors.New("journal entry not found")
	ErrValidation          = errors.New("journal entry has invalid lines")
	ErrUnbalanced          = errors.New("journal entry is not balanced")
	ErrTooFewLines         = errors.New("journal entry needs at least two nonzero lines")
	ErrTooManyLines        = errors.New("journal entry has too many lines")
	ErrInvalidTransition   = errors.New("invalid journal entry transition")
	ErrLineIndexOutOfRange = errors.New("line index out of range")
	ErrInvalidLineField    = errors.New("invalid line field")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidStatus       = errors.New("invalid journal entry status")
	ErrPeriodLocked        = errors.New("accounting period is locked")
	ErrVersionConflict     = errors.New("journal entry was modified concurrently")
)

// LineError reports why a single journal line was rejected.
type LineError struct {
	Index     int
	AccountID string
	Err       error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Index+1, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// ValidationError carries every rejected line of an entry.
type ValidationError struct {
	Lines []*LineError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		parts = append(parts, l.Error())
	}
	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Lines)+1)
	errs = append(errs, ErrValidation)
	for _, l := range e.Lines {
		errs = append(errs, l)
	}
	return errs
}

// UnbalancedError reports the totals of an entry whose sides differ.
type UnbalancedError struct {
	TotalDebit  Amount
	TotalCredit Amount
	Difference  Amount
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("%v: debit %d, credit %d, difference %d",
		ErrUnbalanced, e.TotalDebit, e.TotalCredit, e.Difference)
}

func (e *UnbalancedError) Unwrap() error { return ErrUnbalanced }

// TransitionError reports an illegal status change.
type TransitionError struct {
	From EntryStatus
	To   EntryStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
