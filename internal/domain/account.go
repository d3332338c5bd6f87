package domain

import (
	"time"
)

// AccountType classifies an account in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// Side is one column of a journal line.
type Side string

const (
	SideDebit  Side = "debit"
	SideCredit Side = "credit"
)

// AccountTypes lists every account type in chart order.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// NormalSide returns the side that increases an account of type t.
func (t AccountType) NormalSide() Side {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return SideDebit
	default:
		return SideCredit
	}
}

// Account is a node of the chart of accounts.
type Account struct {
	ID         string
	Code       string
	Name       string
	NameAr     string
	Type       AccountType
	NormalSide Side
	ParentID   string
	IsSystem   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SignedBalance applies the account's normal side to raw debit and credit totals.
func (a *Account) SignedBalance(debit, credit Amount) Amount {
	if a.NormalSide == SideDebit {
		return debit - credit
	}
	return credit - debit
}

// AccountLookup resolves account ids for line validation.
type AccountLookup interface {
	LookupAccount(id string) (*Account, bool)
}

// AccountSet is an in-memory AccountLookup keyed by account id.
type AccountSet map[string]*Account

// NewAccountSet indexes accounts by id.
func NewAccountSet(accounts ...*Account) AccountSet {
	set := make(AccountSet, len(accounts))
	for _, a := range accounts {
		set[a.ID] = a
	}
	return set
}

func (s AccountSet) LookupAccount(id string) (*Account, bool) {
	a, ok := s[id]
	return a, ok
}
