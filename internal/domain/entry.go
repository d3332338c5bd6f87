package domain

import (
	"fmt"
	"time"
)

// EntryStatus is the lifecycle state of a journal entry.
type EntryStatus string

const (
	EntryStatusDraft    EntryStatus = "draft"
	EntryStatusPosted   EntryStatus = "posted"
	EntryStatusReversed EntryStatus = "reversed"

	// EntryStatusDiscarded is never stored; it names the target of a discard
	// in transition errors.
	EntryStatusDiscarded EntryStatus = "discarded"
)

// Valid reports whether s is a stored status.
func (s EntryStatus) Valid() bool {
	switch s {
	case EntryStatusDraft, EntryStatusPosted, EntryStatusReversed:
		return true
	}
	return false
}

// JournalLine is one debit or credit row of an entry.
type JournalLine struct {
	ID          string
	EntryID     string
	AccountID   string
	Debit       Amount
	Credit      Amount
	Description string
	CostCenter  string
}

// Side returns the nonzero column of a valid line.
func (l JournalLine) Side() Side {
	if l.Debit > 0 {
		return SideDebit
	}
	return SideCredit
}

// Mirror returns the line with debit and credit swapped.
func (l JournalLine) Mirror() JournalLine {
	l.Debit, l.Credit = l.Credit, l.Debit
	return l
}

// JournalEntry is a dated set of lines that moves through draft, posted and reversed.
type JournalEntry struct {
	ID            string
	EntryNumber   string
	EntryDate     time.Time
	Description   string
	ReferenceType string
	ReferenceID   string
	Status        EntryStatus
	Lines         []JournalLine
	Version       int64
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	PostedBy      string
	PostedAt      *time.Time
	ReversalOf    string
	ReversedBy    string
}

// FormatEntryNumber renders the yearly sequence as JE-2025-00042.
func FormatEntryNumber(year int, seq int64) string {
	return fmt.Sprintf("JE-%d-%05d", year, seq)
}

// Totals sums both columns.
func (e *JournalEntry) Totals() (debit, credit Amount) {
	for _, l := range e.Lines {
		debit += l.Debit
		credit += l.Credit
	}
	return debit, credit
}

// AccountIDs returns the distinct accounts referenced by the entry's lines.
func (e *JournalEntry) AccountIDs() []string {
	seen := make(map[string]bool, len(e.Lines))
	ids := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			ids = append(ids, l.AccountID)
		}
	}
	return ids
}

// CountsTowardBalance reports whether the entry's lines are part of account balances.
// A reversed entry still counts; its mirror entry cancels it.
func (e *JournalEntry) CountsTowardBalance() bool {
	return e.Status == EntryStatusPosted || e.Status == EntryStatusReversed
}

func (e *JournalEntry) requireDraft(to EntryStatus) error {
	if e.Status != EntryStatusDraft {
		return &TransitionError{From: e.Status, To: to}
	}
	return nil
}

// ReplaceLines swaps the line set of a draft.
func (e *JournalEntry) ReplaceLines(lines []JournalLine, now time.Time) error {
	if err := e.requireDraft(EntryStatusDraft); err != nil {
		return err
	}
	e.Lines = make([]JournalLine, len(lines))
	for i, l := range lines {
		l.EntryID = e.ID
		e.Lines[i] = l
	}
	e.UpdatedAt = now
	return nil
}

// DropBlankLines removes rows that were never filled in, keeping the ids of
// the rest, and reports whether anything was removed.
func (e *JournalEntry) DropBlankLines(now time.Time) (bool, error) {
	if err := e.requireDraft(EntryStatusDraft); err != nil {
		return false, err
	}
	kept := make([]JournalLine, 0, len(e.Lines))
	for i, row := range e.Draft().Lines() {
		if !row.IsBlank() {
			kept = append(kept, e.Lines[i])
		}
	}
	if len(kept) == len(e.Lines) {
		return false, nil
	}
	e.Lines = kept
	e.UpdatedAt = now
	return true, nil
}

// UpdateHeader changes the descriptive fields of a draft.
func (e *JournalEntry) UpdateHeader(date time.Time, description, referenceType, referenceID string, now time.Time) error {
	if err := e.requireDraft(EntryStatusDraft); err != nil {
		return err
	}
	e.EntryDate = DateOnly(date)
	e.Description = description
	e.ReferenceType = referenceType
	e.ReferenceID = referenceID
	e.UpdatedAt = now
	return nil
}

// CheckDiscard reports whether the entry may be deleted.
func (e *JournalEntry) CheckDiscard() error {
	return e.requireDraft(EntryStatusDiscarded)
}

// Post finalizes a draft. result must come from evaluating the entry's current lines.
func (e *JournalEntry) Post(result BalanceResult, actor string, now time.Time) error {
	if err := e.requireDraft(EntryStatusPosted); err != nil {
		return err
	}
	if err := result.Err(); err != nil {
		return err
	}
	e.Status = EntryStatusPosted
	e.PostedBy = actor
	e.PostedAt = &now
	e.UpdatedAt = now
	return nil
}

// Reversal describes the mirror entry created by Reverse.
type Reversal struct {
	ID          string
	EntryNumber string
	EntryDate   time.Time
	Actor       string
	Now         time.Time
	NewLineID   func() string
}

// Reverse marks a posted entry reversed and returns its posted mirror entry.
func (e *JournalEntry) Reverse(r Reversal) (*JournalEntry, error) {
	if e.Status != EntryStatusPosted {
		return nil, &TransitionError{From: e.Status, To: EntryStatusReversed}
	}

	now := r.Now
	mirror := &JournalEntry{
		ID:            r.ID,
		EntryNumber:   r.EntryNumber,
		EntryDate:     DateOnly(r.EntryDate),
		Description:   fmt.Sprintf("Reversal of %s", e.EntryNumber),
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		Status:        EntryStatusPosted,
		Lines:         make([]JournalLine, len(e.Lines)),
		CreatedBy:     r.Actor,
		CreatedAt:     now,
		UpdatedAt:     now,
		PostedBy:      r.Actor,
		PostedAt:      &now,
		ReversalOf:    e.ID,
	}
	for i, l := range e.Lines {
		m := l.Mirror()
		m.ID = r.NewLineID()
		m.EntryID = mirror.ID
		mirror.Lines[i] = m
	}

	e.Status = EntryStatusReversed
	e.ReversedBy = mirror.ID
	e.UpdatedAt = now

	return mirror, nil
}

// Draft returns an editable copy of the entry's header and lines.
func (e *JournalEntry) Draft() DraftEntry {
	d := DraftEntry{
		EntryDate:     e.EntryDate,
		Description:   e.Description,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		lines:         make([]DraftLine, len(e.Lines)),
	}
	for i, l := range e.Lines {
		d.lines[i] = DraftLine{
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
			CostCenter:  l.CostCenter,
		}
	}
	return d
}
