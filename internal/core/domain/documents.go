package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt records a student payment against an enrollment.
type Receipt struct {
	ID            int64           `json:"id"`
	ReceiptNumber string          `json:"receiptNumber"` // "SR-000001", sequence-generated
	Date          time.Time       `json:"date"`
	StudentID     int64           `json:"studentID"`
	EnrollmentID  *int64          `json:"enrollmentID,omitempty"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Notes         string          `json:"notes"`
	EntryID       *string         `json:"entryID,omitempty"` // Posting idempotency guard
	AuditFields
}

// ExpenseDocument records an operating expense to post against an expense account.
type ExpenseDocument struct {
	ID            int64           `json:"id"`
	Reference     string          `json:"reference"` // "EX-000001"
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	AccountID     string          `json:"accountID"` // Expense account to debit
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	CostCenterID  *int64          `json:"costCenterID,omitempty"`
	Notes         string          `json:"notes"`
	EntryID       *string         `json:"entryID,omitempty"`
	AuditFields
}

// AdvanceOwnerKind distinguishes who took an advance.
type AdvanceOwnerKind string

const (
	AdvanceOwnerEmployee AdvanceOwnerKind = "EMPLOYEE"
	AdvanceOwnerTeacher  AdvanceOwnerKind = "TEACHER"
)

// Advance is money handed out ahead of salary, recovered at salary payment.
type Advance struct {
	ID            int64            `json:"id"`
	Reference     string           `json:"reference"` // "ADV-000001"
	OwnerKind     AdvanceOwnerKind `json:"ownerKind"`
	OwnerID       int64            `json:"ownerID"`
	Date          time.Time        `json:"date"`
	Amount        decimal.Decimal  `json:"amount"`
	Purpose       string           `json:"purpose"`
	PaymentMethod PaymentMethod    `json:"paymentMethod"`
	IsRepaid      bool             `json:"isRepaid"`
	RepaidAmount  decimal.Decimal  `json:"repaidAmount"`
	EntryID       *string          `json:"entryID,omitempty"`
	AuditFields
}

// OutstandingAmount is the unrecovered remainder, floored at zero.
func (a Advance) OutstandingAmount() decimal.Decimal {
	out := a.Amount.Sub(a.RepaidAmount)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}
