package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		scale   int32
		want    Amount
		wantErr error
	}{
		{"50000", 0, 50000, nil},
		{"50", 3, 50000, nil},
		{"1,250.5", 3, 1250500, nil},
		{"0.001", 3, 1, nil},
		{"", 3, 0, nil},
		{"-12.5", 2, -1250, nil},
		{"0.0001", 3, 0, ErrInvalidAmount},
		{"12abc", 3, 0, ErrInvalidAmount},
		{"1e20", 0, 0, ErrAmountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in, tt.scale)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseAmount(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestAmount_Format(t *testing.T) {
	if got := Amount(1250500).Format(3); got != "1250.500" {
		t.Fatalf("got %s", got)
	}
	if got := Amount(-5).Format(2); got != "-0.05" {
		t.Fatalf("got %s", got)
	}
	if !Amount(1250500).Decimal(3).Equal(decimal.RequireFromString("1250.5")) {
		t.Fatal("decimal conversion mismatch")
	}
}

func TestPeriodLock_Check(t *testing.T) {
	lockDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	lock := PeriodLock{LockedBefore: &lockDate}

	if err := lock.Check(time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)); !errors.Is(err, ErrPeriodLocked) {
		t.Fatalf("expected ErrPeriodLocked, got %v", err)
	}
	if err := lock.Check(lockDate); err != nil {
		t.Fatalf("lock date itself is open, got %v", err)
	}
	if err := (PeriodLock{}).Check(time.Time{}); err != nil {
		t.Fatalf("no lock should accept any date, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-02-28")
	if err != nil || d.Day() != 28 {
		t.Fatalf("unexpected %v %v", d, err)
	}
	if _, err := ParseDate("28/02/2025"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
