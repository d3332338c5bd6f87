package domain

// BalanceStatus is the verdict of evaluating a set of journal lines.
type BalanceStatus string

const (
	BalanceStatusBalanced    BalanceStatus = "balanced"
	BalanceStatusInvalid     BalanceStatus = "invalid"
	BalanceStatusTooFewLines BalanceStatus = "too_few_lines"
	BalanceStatusUnbalanced  BalanceStatus = "unbalanced"
)

// BalanceResult is the outcome of Evaluate.
type BalanceResult struct {
	Status      BalanceStatus
	TotalDebit  Amount
	TotalCredit Amount
	Difference  Amount
	LineErrors  []*LineError
}

// IsBalanced reports whether the lines may be posted.
func (r BalanceResult) IsBalanced() bool {
	return r.Status == BalanceStatusBalanced
}

// Err converts a non-balanced result into its typed error.
func (r BalanceResult) Err() error {
	switch r.Status {
	case BalanceStatusBalanced:
		return nil
	case BalanceStatusInvalid:
		return &ValidationError{Lines: r.LineErrors}
	case BalanceStatusTooFewLines:
		return ErrTooFewLines
	default:
		return &UnbalancedError{
			TotalDebit:  r.TotalDebit,
			TotalCredit: r.TotalCredit,
			Difference:  r.Difference,
		}
	}
}

// Evaluate validates every line and checks the double-entry invariant.
// Line errors are collected across all lines. A valid set with fewer than two
// nonzero lines is TooFewLines; otherwise debit and credit totals must match exactly.
func Evaluate(lines []JournalLine, accounts AccountLookup) BalanceResult {
	if lineErrs := collectLineErrors(lines, accounts); len(lineErrs) > 0 {
		return BalanceResult{Status: BalanceStatusInvalid, LineErrors: lineErrs}
	}

	var debit, credit Amount
	nonzero := 0
	for _, line := range lines {
		debit += line.Debit
		credit += line.Credit
		if line.Debit+line.Credit > 0 {
			nonzero++
		}
	}

	result := BalanceResult{
		TotalDebit:  debit,
		TotalCredit: credit,
		Difference:  (debit - credit).Abs(),
	}

	switch {
	case nonzero < 2:
		result.Status = BalanceStatusTooFewLines
	case debit != credit:
		result.Status = BalanceStatusUnbalanced
	default:
		result.Status = BalanceStatusBalanced
	}

	return result
}

// ValidateLines runs ValidateLine over every line and returns a ValidationError
// when any line is rejected.
func ValidateLines(lines []JournalLine, accounts AccountLookup) error {
	if lineErrs := collectLineErrors(lines, accounts); len(lineErrs) > 0 {
		return &ValidationError{Lines: lineErrs}
	}
	return nil
}

func collectLineErrors(lines []JournalLine, accounts AccountLookup) []*LineError {
	var lineErrs []*LineError
	for i, line := range lines {
		if le := ValidateLine(i, line, accounts); le != nil {
			lineErrs = append(lineErrs, le)
		}
	}
	return lineErrs
}
