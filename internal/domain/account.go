package domain

import "time"

// AccountRole is the logical role an account plays in a building's ledger.
type AccountRole string

const (
	RoleBank    AccountRole = "bank"
	RoleAR      AccountRole = "ar"
	RoleAP      AccountRole = "ap"
	RoleRevenue AccountRole = "revenue"
	RoleExpense AccountRole = "expense"
	RoleOther   AccountRole = "other"
)

var validAccountRoles = map[AccountRole]bool{
	RoleBank:    true,
	RoleAR:      true,
	RoleAP:      true,
	RoleRevenue: true,
	RoleExpense: true,
	RoleOther:   true,
}

// IsValid checks if the role is a known account role.
func (r AccountRole) IsValid() bool {
	return validAccountRoles[r]
}

// Account represents a general-ledger account belonging to a building.
// Bank-role accounts are additionally scoped to a specific bank account;
// BankAccountID is empty for all other roles.
type Account struct {
	ID            string
	BuildingID    string
	BankAccountID string
	Role          AccountRole
	Name          string
	Active        bool
	CreatedAt     time.Time
}
