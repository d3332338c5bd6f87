package domain

import (
	"errors"
)

// Principal is the caller identity taken from a verified bearer token or the
// X-User-ID header. The ledger never issues or stores credentials.
type Principal struct {
	ID    string
	Email string
	Role  Role
}

// Role represents a caller's access level
type Role string

const (
	// RoleAdmin can additionally manage the chart of accounts and the period lock
	RoleAdmin Role = "admin"

	// RoleAccountant can draft, post and reverse journal entries
	RoleAccountant Role = "accountant"

	// RoleViewer can only read entries, balances and reports
	RoleViewer Role = "viewer"
)

// Valid roles
var validRoles = map[Role]bool{
	RoleAdmin:      true,
	RoleAccountant: true,
	RoleViewer:     true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanWriteEntries checks if the role may change journal entries
func (r Role) CanWriteEntries() bool {
	return r == RoleAdmin || r == RoleAccountant
}

// CanManageLedger checks if the role may change accounts and the period lock
func (r Role) CanManageLedger() bool {
	return r == RoleAdmin
}

// Allows reports whether r satisfies the minimum role required.
func (r Role) Allows(required Role) bool {
	switch required {
	case RoleAdmin:
		return r.CanManageLedger()
	case RoleAccountant:
		return r.CanWriteEntries()
	default:
		return r.IsValid()
	}
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)
