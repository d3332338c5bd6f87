package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDraftEntry_WithLineUpdated_ClearsOppositeSide(t *testing.T) {
	d := NewDraftEntry(time.Now(), "sale", DraftLine{AccountID: "cash", Credit: 500})

	next, err := d.WithLineUpdated(0, LineFieldDebit, "1.250", 3)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got := next.Lines()[0]
	if got.Debit != 1250 || got.Credit != 0 {
		t.Fatalf("expected debit 1250 and cleared credit, got %+v", got)
	}

	if orig := d.Lines()[0]; orig.Credit != 500 || orig.Debit != 0 {
		t.Fatalf("receiver was mutated: %+v", orig)
	}

	back, err := next.WithLineUpdated(0, LineFieldCredit, "2", 3)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if l := back.Lines()[0]; l.Credit != 2000 || l.Debit != 0 {
		t.Fatalf("expected credit 2000 and cleared debit, got %+v", l)
	}
}

func TestDraftEntry_WithLineUpdated_ZeroKeepsOppositeSide(t *testing.T) {
	d := NewDraftEntry(time.Now(), "", DraftLine{AccountID: "cash", Credit: 500})

	next, err := d.WithLineUpdated(0, LineFieldDebit, "", 3)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if l := next.Lines()[0]; l.Credit != 500 || l.Debit != 0 {
		t.Fatalf("zero debit must not clear credit, got %+v", l)
	}
}

func TestDraftEntry_WithLineUpdated_Errors(t *testing.T) {
	d := NewDraftEntry(time.Now(), "", DraftLine{})

	tests := []struct {
		name    string
		index   int
		field   LineField
		value   string
		wantErr error
	}{
		{"index out of range", 1, LineFieldDebit, "1", ErrLineIndexOutOfRange},
		{"negative index", -1, LineFieldDebit, "1", ErrLineIndexOutOfRange},
		{"unknown field", 0, LineField("amount"), "1", ErrInvalidLineField},
		{"bad amount", 0, LineFieldCredit, "abc", ErrInvalidAmount},
		{"too many decimals", 0, LineFieldDebit, "1.2345", ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := d.WithLineUpdated(tt.index, tt.field, tt.value, 3); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDraftEntry_AddRemoveCompact(t *testing.T) {
	d := NewDraftEntry(time.Now(), "")
	d = d.WithLineAdded(DraftLine{AccountID: "cash", Debit: 100})
	d = d.WithLineAdded(DraftLine{})
	d = d.WithLineAdded(DraftLine{AccountID: "sales", Credit: 100})
	d = d.WithLineAdded(DraftLine{Description: "memo only"})

	if d.Len() != 4 {
		t.Fatalf("expected 4 lines, got %d", d.Len())
	}

	compact := d.Compact()
	if compact.Len() != 2 {
		t.Fatalf("expected 2 lines after compact, got %d", compact.Len())
	}
	if d.Len() != 4 {
		t.Fatal("compact mutated receiver")
	}

	res := compact.Evaluate(testAccounts())
	if !res.IsBalanced() {
		t.Fatalf("expected balanced, got %s", res.Status)
	}

	removed, err := compact.WithLineRemoved(0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if removed.Len() != 1 || removed.Lines()[0].AccountID != "sales" {
		t.Fatalf("unexpected lines after remove: %+v", removed.Lines())
	}
	if _, err := removed.WithLineRemoved(5); !errors.Is(err, ErrLineIndexOutOfRange) {
		t.Fatalf("expected ErrLineIndexOutOfRange, got %v", err)
	}
}

func TestJournalEntry_DraftRoundTrip(t *testing.T) {
	e := draftEntry()
	d := e.Draft()

	next, err := d.WithLineUpdated(1, LineFieldAccount, "rent", 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.ReplaceLines(next.JournalLines(), time.Now()); err != nil {
		t.Fatal(err)
	}
	if e.Lines[1].AccountID != "rent" || e.Lines[1].Credit != 100 {
		t.Fatalf("unexpected line: %+v", e.Lines[1])
	}
}
