package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is a node in the chart-of-accounts tree. The code is the natural key
// used by the domain workflows; the cached balance is denormalized and only
// ever written by the posting path.
type Account struct {
	AccountID       string          `json:"accountID"` // Primary key (UUID)
	Code            string          `json:"code"`      // Unique natural key, e.g. "1251-007"
	Name            string          `json:"name"`
	NameAr          string          `json:"nameAr"` // Localized display name, optional
	AccountType     AccountType     `json:"accountType"`
	ParentAccountID string          `json:"parentAccountID"` // Nullable self-reference
	Description     string          `json:"description"`
	IsActive        bool            `json:"isActive"`
	Balance         decimal.Decimal `json:"balance"` // Cached net balance
	AuditFields
}

// DisplayName prefers the localized name when present.
func (a Account) DisplayName() string {
	if a.NameAr != "" {
		return a.NameAr
	}
	return a.Name
}

// NetBalanceFromTotals applies the sign convention for this account's type:
// ASSET/EXPENSE carry a debit-normal balance, LIABILITY/EQUITY/REVENUE a
// credit-normal one.
func (a Account) NetBalanceFromTotals(debitTotal, creditTotal decimal.Decimal) decimal.Decimal {
	switch a.AccountType {
	case Asset, Expense:
		return debitTotal.Sub(creditTotal)
	default: // Liability, Equity, Revenue
		return creditTotal.Sub(debitTotal)
	}
}
