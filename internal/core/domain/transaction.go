package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction leg is a Debit or a Credit.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// Opposite flips the leg direction; used when building reversing entries.
func (t TransactionType) Opposite() TransactionType {
	if t == Debit {
		return Credit
	}
	return Debit
}

// Transaction is one leg of a journal entry against exactly one account.
// Amount is strictly positive; the direction lives in TransactionType.
// Legs are never mutated or deleted independently of their entry.
type Transaction struct {
	TransactionID   string          `json:"transactionID"` // Primary key (UUID)
	EntryID         string          `json:"entryID"`       // FK -> journal_entries
	AccountID       string          `json:"accountID"`     // FK -> accounts
	Amount          decimal.Decimal `json:"amount"`        // Positive
	TransactionType TransactionType `json:"transactionType"`
	Description     string          `json:"description"`
	CostCenterID    *int64          `json:"costCenterID,omitempty"` // Optional allocation tag
	CreatedAt       time.Time       `json:"createdAt"`
}

// SignedAmount applies the sign convention for the owning account's type:
// debits increase debit-normal accounts, credits increase credit-normal ones.
func (t Transaction) SignedAmount(accountType AccountType) decimal.Decimal {
	isDebit := t.TransactionType == Debit
	switch accountType {
	case Asset, Expense:
		if isDebit {
			return t.Amount
		}
		return t.Amount.Neg()
	default: // Liability, Equity, Revenue
		if isDebit {
			return t.Amount.Neg()
		}
		return t.Amount
	}
}
