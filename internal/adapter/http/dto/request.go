package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hassanjava2/bi-ledger/internal/domain"
	"github.com/hassanjava2/bi-ledger/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Code     string `json:"code" validate:"required,max=32"`
	Name     string `json:"name" validate:"required,max=255"`
	NameAr   string `json:"name_ar,omitempty" validate:"max=255"`
	Type     string `json:"type" validate:"required,oneof=asset liability equity revenue expense"`
	ParentID string `json:"parent_id,omitempty"`
	IsSystem bool   `json:"is_system,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(actor string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Code:     r.Code,
		Name:     r.Name,
		NameAr:   r.NameAr,
		Type:     r.Type,
		ParentID: r.ParentID,
		IsSystem: r.IsSystem,
		Actor:    actor,
	}
}

// LineRequest is one journal line. Amounts are major-unit decimals and may
// be sent as JSON strings or numbers.
type LineRequest struct {
	AccountID   string          `json:"account_id"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty" validate:"max=1000"`
	CostCenter  string          `json:"cost_center,omitempty" validate:"max=64"`
}

// ToLineInput converts the line to minor units.
func (r LineRequest) ToLineInput(scale int32) (usecase.LineInput, error) {
	debit, err := domain.AmountFromDecimal(r.Debit, scale)
	if err != nil {
		return usecase.LineInput{}, fmt.Errorf("debit: %w", err)
	}
	credit, err := domain.AmountFromDecimal(r.Credit, scale)
	if err != nil {
		return usecase.LineInput{}, fmt.Errorf("credit: %w", err)
	}
	return usecase.LineInput{
		AccountID:   r.AccountID,
		Debit:       debit,
		Credit:      credit,
		Description: r.Description,
		CostCenter:  r.CostCenter,
	}, nil
}

// LinesToInput converts every line, reporting the first amount that does not
// fit the currency scale with its position.
func LinesToInput(lines []LineRequest, scale int32) ([]usecase.LineInput, error) {
	out := make([]usecase.LineInput, len(lines))
	for i, l := range lines {
		in, err := l.ToLineInput(scale)
		if err != nil {
			return nil, &domain.ValidationError{Lines: []*domain.LineError{
				{Index: i, AccountID: l.AccountID, Err: err},
			}}
		}
		out[i] = in
	}
	return out, nil
}

// EntryRequest is the body of entry create and full update requests.
type EntryRequest struct {
	EntryDate     string        `json:"entry_date" validate:"required,datetime=2006-01-02"`
	Description   string        `json:"description" validate:"max=1000"`
	ReferenceType string        `json:"reference_type,omitempty" validate:"max=64"`
	ReferenceID   string        `json:"reference_id,omitempty" validate:"max=128"`
	Lines         []LineRequest `json:"lines" validate:"max=500,dive"`
}

func (r *EntryRequest) parse(scale int32) (time.Time, []usecase.LineInput, error) {
	date, err := domain.ParseDate(r.EntryDate)
	if err != nil {
		return time.Time{}, nil, err
	}
	lines, err := LinesToInput(r.Lines, scale)
	if err != nil {
		return time.Time{}, nil, err
	}
	return date, lines, nil
}

// ToCreateInput converts to use case input.
func (r *EntryRequest) ToCreateInput(scale int32, actor string) (usecase.CreateEntryInput, error) {
	date, lines, err := r.parse(scale)
	if err != nil {
		return usecase.CreateEntryInput{}, err
	}
	return usecase.CreateEntryInput{
		EntryDate:     date,
		Description:   r.Description,
		ReferenceType: r.ReferenceType,
		ReferenceID:   r.ReferenceID,
		Lines:         lines,
		Actor:         actor,
	}, nil
}

// ToUpdateInput converts to use case input for the draft id.
func (r *EntryRequest) ToUpdateInput(id string, scale int32, actor string) (usecase.UpdateEntryInput, error) {
	date, lines, err := r.parse(scale)
	if err != nil {
		return usecase.UpdateEntryInput{}, err
	}
	return usecase.UpdateEntryInput{
		ID:            id,
		EntryDate:     date,
		Description:   r.Description,
		ReferenceType: r.ReferenceType,
		ReferenceID:   r.ReferenceID,
		Lines:         lines,
		Actor:         actor,
	}, nil
}

// UpdateLineRequest edits a single cell of a draft line.
type UpdateLineRequest struct {
	Field string `json:"field" validate:"required,oneof=account_id debit credit description cost_center"`
	Value string `json:"value"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateLineRequest) ToUseCaseInput(id string, index int, actor string) usecase.UpdateLineInput {
	return usecase.UpdateLineInput{
		ID:    id,
		Index: index,
		Field: domain.LineField(r.Field),
		Value: r.Value,
		Actor: actor,
	}
}

// EvaluateRequest asks for a balance verdict without storing anything.
type EvaluateRequest struct {
	Lines []LineRequest `json:"lines" validate:"max=500,dive"`
}

// ReverseEntryRequest optionally dates the reversal; today is used otherwise.
type ReverseEntryRequest struct {
	EntryDate string `json:"entry_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// ToUseCaseInput converts to use case input.
func (r *ReverseEntryRequest) ToUseCaseInput(id, actor string) (usecase.ReverseEntryInput, error) {
	input := usecase.ReverseEntryInput{ID: id, Actor: actor}
	if r.EntryDate != "" {
		date, err := domain.ParseDate(r.EntryDate)
		if err != nil {
			return usecase.ReverseEntryInput{}, err
		}
		input.EntryDate = &date
	}
	return input, nil
}

// SetPeriodLockRequest moves the lock date. A null or empty date clears it.
type SetPeriodLockRequest struct {
	LockedBefore string `json:"locked_before" validate:"omitempty,datetime=2006-01-02"`
}

// ToUseCaseInput converts to use case input.
func (r *SetPeriodLockRequest) ToUseCaseInput(actor string) (usecase.SetPeriodLockInput, error) {
	input := usecase.SetPeriodLockInput{Actor: actor}
	if r.LockedBefore != "" {
		date, err := domain.ParseDate(r.LockedBefore)
		if err != nil {
			return usecase.SetPeriodLockInput{}, err
		}
		input.LockedBefore = &date
	}
	return input, nil
}
