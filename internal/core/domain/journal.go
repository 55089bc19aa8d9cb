package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType classifies the business event behind a journal entry.
type EntryType string

const (
	EntryManual     EntryType = "MANUAL"
	EntryEnrollment EntryType = "ENROLLMENT"
	EntryPayment    EntryType = "PAYMENT"
	EntryCompletion EntryType = "COMPLETION"
	EntryExpense    EntryType = "EXPENSE"
	EntrySalary     EntryType = "SALARY"
	EntryAdvance    EntryType = "ADVANCE"
	EntryAdjustment EntryType = "ADJUSTMENT"
)

// Sequence keys and reference prefixes per document type.
const (
	SeqJournalEntry   = "journal_entry"
	SeqStudentReceipt = "student_receipt"
	SeqExpense        = "expense"
	SeqAdvance        = "advance"

	RefPrefixJournal = "JE"
	RefPrefixReceipt = "SR"
	RefPrefixExpense = "EX"
	RefPrefixAdvance = "ADV"
)

// FormatReference renders a sequential document reference, e.g. "JE-000042".
func FormatReference(prefix string, n int64) string {
	return fmt.Sprintf("%s-%06d", prefix, n)
}

// BalanceTolerance is the rounding slack allowed between debit and credit
// totals of a balanced entry.
var BalanceTolerance = decimal.New(1, -2) // 0.01

// JournalEntry is an atomic, balanced accounting event. Once posted it is
// immutable; corrections happen through reversing entries.
type JournalEntry struct {
	EntryID     string          `json:"entryID"`   // Primary key (UUID)
	Reference   string          `json:"reference"` // Unique, sequence-generated
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	EntryType   EntryType       `json:"entryType"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	IsPosted    bool            `json:"isPosted"`
	PostedAt    *time.Time      `json:"postedAt,omitempty"`
	PostedBy    string          `json:"postedBy,omitempty"`
	// ReversesEntryID links an ADJUSTMENT entry back to the entry it undoes.
	ReversesEntryID *string `json:"reversesEntryID,omitempty"`
	AuditFields
	Transactions []Transaction `json:"transactions,omitempty"` // Loaded separately
}

// DebitTotal sums the debit legs.
func (e JournalEntry) DebitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, txn := range e.Transactions {
		if txn.TransactionType == Debit {
			total = total.Add(txn.Amount)
		}
	}
	return total
}

// CreditTotal sums the credit legs.
func (e JournalEntry) CreditTotal() decimal.Decimal {
	total := decimal.Zero
	for _, txn := range e.Transactions {
		if txn.TransactionType == Credit {
			total = total.Add(txn.Amount)
		}
	}
	return total
}

// IsBalanced reports whether debit and credit totals agree within tolerance.
func (e JournalEntry) IsBalanced() bool {
	return e.DebitTotal().Sub(e.CreditTotal()).Abs().LessThan(BalanceTolerance)
}

// AccountIDs returns the distinct accounts touched by this entry.
func (e JournalEntry) AccountIDs() []string {
	seen := make(map[string]struct{}, len(e.Transactions))
	ids := make([]string, 0, len(e.Transactions))
	for _, txn := range e.Transactions {
		if _, ok := seen[txn.AccountID]; ok {
			continue
		}
		seen[txn.AccountID] = struct{}{}
		ids = append(ids, txn.AccountID)
	}
	return ids
}
