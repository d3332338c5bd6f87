package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation errors
var (
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrInvalidAccountCode = errors.New("invalid account code")
	ErrDescriptionTooLong = errors.New("description too long")
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MinAccountNameLength = 1
	MaxAccountCodeLength = 32
	MaxDescriptionLength = 1000
	MaxEntryLines        = 500
)

var accountCodeRegex = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateLine checks a single journal line. Checks run in a fixed order and
// stop at the first failure: account, sign, side, size.
func ValidateLine(index int, line JournalLine, accounts AccountLookup) *LineError {
	fail := func(err error) *LineError {
		return &LineError{Index: index, AccountID: line.AccountID, Err: err}
	}

	if _, ok := accounts.LookupAccount(line.AccountID); !ok {
		return fail(ErrUnknownAccount)
	}

	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return fail(ErrNegativeAmount)
	}

	if line.Debit.IsPositive() == line.Credit.IsPositive() {
		return fail(ErrAmbiguousSide)
	}

	if line.Debit > MaxAmount || line.Credit > MaxAmount {
		return fail(ErrAmountTooLarge)
	}

	return nil
}

// ValidateAccountCode validates a chart-of-accounts code
func ValidateAccountCode(code string) error {
	code = strings.TrimSpace(code)

	if code == "" {
		return fmt.Errorf("%w: code cannot be empty", ErrInvalidAccountCode)
	}

	if len(code) > MaxAccountCodeLength {
		return fmt.Errorf("%w: code exceeds %d characters", ErrInvalidAccountCode, MaxAccountCodeLength)
	}

	if !accountCodeRegex.MatchString(code) {
		return fmt.Errorf("%w: code may only contain letters, digits, '.', '_' and '-'", ErrInvalidAccountCode)
	}

	return nil
}

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)

	if n < MinAccountNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if n > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateDescription limits free-text fields.
func ValidateDescription(s string) error {
	if utf8.RuneCountInString(s) > MaxDescriptionLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrDescriptionTooLong, MaxDescriptionLength)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 100
	const DefaultPageSize = 20

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
