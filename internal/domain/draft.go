package domain

import (
	"fmt"
	"strings"
	"time"
)

// LineField names an editable column of a draft line.
type LineField string

const (
	LineFieldAccount     LineField = "account_id"
	LineFieldDebit       LineField = "debit"
	LineFieldCredit      LineField = "credit"
	LineFieldDescription LineField = "description"
	LineFieldCostCenter  LineField = "cost_center"
)

// DraftLine is an editable row of a DraftEntry.
type DraftLine struct {
	AccountID   string
	Debit       Amount
	Credit      Amount
	Description string
	CostCenter  string
}

// IsBlank reports whether the row was never filled in.
func (l DraftLine) IsBlank() bool {
	return l.AccountID == "" && l.Debit == 0 && l.Credit == 0
}

// DraftEntry is an immutable entry being assembled. Every With* method
// returns a new value and leaves the receiver untouched.
type DraftEntry struct {
	EntryDate     time.Time
	Description   string
	ReferenceType string
	ReferenceID   string
	lines         []DraftLine
}

// NewDraftEntry starts a draft with the given header and lines.
func NewDraftEntry(date time.Time, description string, lines ...DraftLine) DraftEntry {
	return DraftEntry{
		EntryDate:   DateOnly(date),
		Description: description,
		lines:       append([]DraftLine(nil), lines...),
	}
}

// Lines returns a copy of the draft's rows.
func (d DraftEntry) Lines() []DraftLine {
	return append([]DraftLine(nil), d.lines...)
}

// Len returns the number of rows.
func (d DraftEntry) Len() int { return len(d.lines) }

// WithLineAdded appends a row.
func (d DraftEntry) WithLineAdded(line DraftLine) DraftEntry {
	d.lines = append(d.Lines(), line)
	return d
}

// WithLineRemoved drops the row at index.
func (d DraftEntry) WithLineRemoved(index int) (DraftEntry, error) {
	if index < 0 || index >= len(d.lines) {
		return d, fmt.Errorf("%w: %d", ErrLineIndexOutOfRange, index)
	}
	lines := make([]DraftLine, 0, len(d.lines)-1)
	lines = append(lines, d.lines[:index]...)
	lines = append(lines, d.lines[index+1:]...)
	d.lines = lines
	return d, nil
}

// WithLineUpdated sets one field of the row at index. Amounts are decimal
// strings in major units. A positive debit clears the credit and a positive
// credit clears the debit, so a row never carries both sides.
func (d DraftEntry) WithLineUpdated(index int, field LineField, value string, scale int32) (DraftEntry, error) {
	if index < 0 || index >= len(d.lines) {
		return d, fmt.Errorf("%w: %d", ErrLineIndexOutOfRange, index)
	}

	line := d.lines[index]
	switch field {
	case LineFieldAccount:
		line.AccountID = strings.TrimSpace(value)
	case LineFieldDebit:
		amt, err := ParseAmount(value, scale)
		if err != nil {
			return d, err
		}
		line.Debit = amt
		if amt > 0 {
			line.Credit = 0
		}
	case LineFieldCredit:
		amt, err := ParseAmount(value, scale)
		if err != nil {
			return d, err
		}
		line.Credit = amt
		if amt > 0 {
			line.Debit = 0
		}
	case LineFieldDescription:
		line.Description = value
	case LineFieldCostCenter:
		line.CostCenter = value
	default:
		return d, fmt.Errorf("%w: %q", ErrInvalidLineField, field)
	}

	lines := d.Lines()
	lines[index] = line
	d.lines = lines
	return d, nil
}

// Compact drops rows that were never filled in.
func (d DraftEntry) Compact() DraftEntry {
	lines := make([]DraftLine, 0, len(d.lines))
	for _, l := range d.lines {
		if !l.IsBlank() {
			lines = append(lines, l)
		}
	}
	d.lines = lines
	return d
}

// JournalLines converts the rows to unsaved journal lines.
func (d DraftEntry) JournalLines() []JournalLine {
	out := make([]JournalLine, len(d.lines))
	for i, l := range d.lines {
		out[i] = JournalLine{
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
			CostCenter:  l.CostCenter,
		}
	}
	return out
}

// Evaluate runs the balancer over the draft's rows.
func (d DraftEntry) Evaluate(accounts AccountLookup) BalanceResult {
	return Evaluate(d.JournalLines(), accounts)
}
