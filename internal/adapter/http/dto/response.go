package dto

import (
	"errors"
	"time"

	"github.com/hassanjava2/bi-ledger/internal/domain"
	"github.com/hassanjava2/bi-ledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	NameAr     string    `json:"name_ar,omitempty"`
	Type       string    `json:"type"`
	NormalSide string    `json:"normal_side"`
	ParentID   string    `json:"parent_id,omitempty"`
	IsSystem   bool      `json:"is_system"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:         a.ID,
		Code:       a.Code,
		Name:       a.Name,
		NameAr:     a.NameAr,
		Type:       string(a.Type),
		NormalSide: string(a.NormalSide),
		ParentID:   a.ParentID,
		IsSystem:   a.IsSystem,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse is a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// LineResponse represents a journal line. Amounts are fixed-scale strings.
type LineResponse struct {
	ID          string `json:"id"`
	AccountID   string `json:"account_id"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
	Description string `json:"description,omitempty"`
	CostCenter  string `json:"cost_center,omitempty"`
}

// EntryResponse represents a journal entry in API responses.
type EntryResponse struct {
	ID            string         `json:"id"`
	EntryNumber   string         `json:"entry_number"`
	EntryDate     string         `json:"entry_date"`
	Description   string         `json:"description"`
	ReferenceType string         `json:"reference_type,omitempty"`
	ReferenceID   string         `json:"reference_id,omitempty"`
	Status        string         `json:"status"`
	Lines         []LineResponse `json:"lines"`
	TotalDebit    string         `json:"total_debit"`
	TotalCredit   string         `json:"total_credit"`
	Version       int64          `json:"version"`
	CreatedBy     string         `json:"created_by"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	PostedBy      string         `json:"posted_by,omitempty"`
	PostedAt      *time.Time     `json:"posted_at,omitempty"`
	ReversalOf    string         `json:"reversal_of,omitempty"`
	ReversedBy    string         `json:"reversed_by,omitempty"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.JournalEntry, scale int32) *EntryResponse {
	lines := make([]LineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = LineResponse{
			ID:          l.ID,
			AccountID:   l.AccountID,
			Debit:       l.Debit.Format(scale),
			Credit:      l.Credit.Format(scale),
			Description: l.Description,
			CostCenter:  l.CostCenter,
		}
	}
	debit, credit := e.Totals()

	return &EntryResponse{
		ID:            e.ID,
		EntryNumber:   e.EntryNumber,
		EntryDate:     e.EntryDate.Format(domain.DateLayout),
		Description:   e.Description,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		Status:        string(e.Status),
		Lines:         lines,
		TotalDebit:    debit.Format(scale),
		TotalCredit:   credit.Format(scale),
		Version:       e.Version,
		CreatedBy:     e.CreatedBy,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
		PostedBy:      e.PostedBy,
		PostedAt:      e.PostedAt,
		ReversalOf:    e.ReversalOf,
		ReversedBy:    e.ReversedBy,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.JournalEntry, scale int32) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e, scale)
	}
	return result
}

// ListEntriesResponse is a page of journal entries.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// ReverseEntryResponse carries both sides of a reversal.
type ReverseEntryResponse struct {
	Original *EntryResponse `json:"original"`
	Reversal *EntryResponse `json:"reversal"`
}

// LineErrorResponse describes one rejected line. Line numbers start at 1.
type LineErrorResponse struct {
	Line      int    `json:"line"`
	AccountID string `json:"account_id,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// LineErrorsFromDomain converts line errors to responses.
func LineErrorsFromDomain(errs []*domain.LineError) []LineErrorResponse {
	if len(errs) == 0 {
		return nil
	}
	result := make([]LineErrorResponse, len(errs))
	for i, e := range errs {
		result[i] = LineErrorResponse{
			Line:      e.Index + 1,
			AccountID: e.AccountID,
			Code:      lineErrorCode(e.Err),
			Message:   e.Err.Error(),
		}
	}
	return result
}

func lineErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownAccount):
		return "unknown_account"
	case errors.Is(err, domain.ErrNegativeAmount):
		return "negative_amount"
	case errors.Is(err, domain.ErrAmbiguousSide):
		return "ambiguous_side"
	case errors.Is(err, domain.ErrAmountTooLarge):
		return "amount_too_large"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	default:
		return "invalid_line"
	}
}

// BalanceResultResponse is the verdict of evaluating a set of lines.
type BalanceResultResponse struct {
	Status      string              `json:"status"`
	Balanced    bool                `json:"balanced"`
	TotalDebit  string              `json:"total_debit"`
	TotalCredit string              `json:"total_credit"`
	Difference  string              `json:"difference"`
	LineErrors  []LineErrorResponse `json:"line_errors,omitempty"`
}

// BalanceResultFromDomain converts an evaluation result to response.
func BalanceResultFromDomain(r domain.BalanceResult, scale int32) *BalanceResultResponse {
	return &BalanceResultResponse{
		Status:      string(r.Status),
		Balanced:    r.IsBalanced(),
		TotalDebit:  r.TotalDebit.Format(scale),
		TotalCredit: r.TotalCredit.Format(scale),
		Difference:  r.Difference.Format(scale),
		LineErrors:  LineErrorsFromDomain(r.LineErrors),
	}
}

// AccountBalanceResponse is an account's signed balance.
type AccountBalanceResponse struct {
	AccountID  string `json:"account_id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	NormalSide string `json:"normal_side"`
	Debit      string `json:"debit"`
	Credit     string `json:"credit"`
	Balance    string `json:"balance"`
	AsOf       string `json:"as_of,omitempty"`
	Revision   int64  `json:"revision"`
}

// AccountBalanceFromUseCase converts a balance to response.
func AccountBalanceFromUseCase(b *usecase.AccountBalance, scale int32) *AccountBalanceResponse {
	resp := &AccountBalanceResponse{
		AccountID:  b.Account.ID,
		Code:       b.Account.Code,
		Name:       b.Account.Name,
		NormalSide: string(b.Account.NormalSide),
		Debit:      b.Debit.Format(scale),
		Credit:     b.Credit.Format(scale),
		Balance:    b.Balance.Format(scale),
		Revision:   b.Revision,
	}
	if b.AsOf != nil {
		resp.AsOf = b.AsOf.Format(domain.DateLayout)
	}
	return resp
}

// TrialBalanceRowResponse is one account line of a trial balance.
type TrialBalanceRowResponse struct {
	AccountID string `json:"account_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Debit     string `json:"debit"`
	Credit    string `json:"credit"`
	Balance   string `json:"balance"`
}

// TrialBalanceResponse lists posted totals per account.
type TrialBalanceResponse struct {
	AsOf        string                    `json:"as_of,omitempty"`
	Rows        []TrialBalanceRowResponse `json:"rows"`
	TotalDebit  string                    `json:"total_debit"`
	TotalCredit string                    `json:"total_credit"`
	Balanced    bool                      `json:"balanced"`
}

// TrialBalanceFromUseCase converts a trial balance to response.
func TrialBalanceFromUseCase(tb *usecase.TrialBalance, scale int32) *TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, r := range tb.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountID: r.Account.ID,
			Code:      r.Account.Code,
			Name:      r.Account.Name,
			Type:      string(r.Account.Type),
			Debit:     r.Debit.Format(scale),
			Credit:    r.Credit.Format(scale),
			Balance:   r.Balance.Format(scale),
		}
	}
	resp := &TrialBalanceResponse{
		Rows:        rows,
		TotalDebit:  tb.TotalDebit.Format(scale),
		TotalCredit: tb.TotalCredit.Format(scale),
		Balanced:    tb.Balanced(),
	}
	if tb.AsOf != nil {
		resp.AsOf = tb.AsOf.Format(domain.DateLayout)
	}
	return resp
}

// PeriodLockResponse represents the period lock.
type PeriodLockResponse struct {
	LockedBefore *string   `json:"locked_before"`
	UpdatedBy    string    `json:"updated_by,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitzero"`
}

// PeriodLockFromDomain converts the period lock to response.
func PeriodLockFromDomain(p domain.PeriodLock) *PeriodLockResponse {
	resp := &PeriodLockResponse{UpdatedBy: p.UpdatedBy, UpdatedAt: p.UpdatedAt}
	if p.LockedBefore != nil {
		d := p.LockedBefore.Format(domain.DateLayout)
		resp.LockedBefore = &d
	}
	return resp
}

// AuditLogResponse is one audit record of an entry's history.
type AuditLogResponse struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	UserID    string         `json:"user_id"`
	RequestID string         `json:"request_id,omitempty"`
	Status    string         `json:"status"`
	Before    map[string]any `json:"before,omitempty"`
	After     map[string]any `json:"after,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// AuditLogsFromDomain converts audit records to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:        l.ID,
			Action:    l.Action,
			UserID:    l.UserID,
			RequestID: l.RequestID,
			Status:    l.Status,
			Before:    l.BeforeState,
			After:     l.AfterState,
			CreatedAt: l.CreatedAt,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses. The optional fields
// carry the structured detail of validation, balance and transition errors.
type ErrorResponse struct {
	Error       string              `json:"error"`
	Message     string              `json:"message,omitempty"`
	Fields      []FieldError        `json:"fields,omitempty"`
	LineErrors  []LineErrorResponse `json:"line_errors,omitempty"`
	TotalDebit  string              `json:"total_debit,omitempty"`
	TotalCredit string              `json:"total_credit,omitempty"`
	Difference  string              `json:"difference,omitempty"`
	From        string              `json:"from,omitempty"`
	To          string              `json:"to,omitempty"`
}
