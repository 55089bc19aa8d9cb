package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/alnahda/institute-ledger/internal/core/domain"
)

// CreateReceiptRequest records a student payment. EnrollmentID is optional;
// without it the receipt still clears the student's receivable.
type CreateReceiptRequest struct {
	StudentID     int64           `json:"studentID" binding:"required"`
	EnrollmentID  *int64          `json:"enrollmentID"`
	Date          time.Time       `json:"date"`
	PaidAmount    decimal.Decimal `json:"paidAmount" binding:"required"`
	PaymentMethod string          `json:"paymentMethod" binding:"omitempty,oneof=CASH BANK CARD TRANSFER"`
	Notes         string          `json:"notes"`
}

// ReceiptResponse defines the data returned for a receipt.
type ReceiptResponse struct {
	ID            int64           `json:"id"`
	ReceiptNumber string          `json:"receiptNumber"`
	Date          time.Time       `json:"date"`
	StudentID     int64           `json:"studentID"`
	EnrollmentID  *int64          `json:"enrollmentID,omitempty"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	PaymentMethod string          `json:"paymentMethod"`
	EntryID       *string         `json:"entryID,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToReceiptResponse converts a domain.Receipt to its DTO.
func ToReceiptResponse(r *domain.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:            r.ID,
		ReceiptNumber: r.ReceiptNumber,
		Date:          r.Date,
		StudentID:     r.StudentID,
		EnrollmentID:  r.EnrollmentID,
		PaidAmount:    r.PaidAmount,
		PaymentMethod: string(r.PaymentMethod),
		EntryID:       r.EntryID,
		CreatedAt:     r.CreatedAt,
	}
}

// CreateExpenseRequest records an operating expense against an expense account.
type CreateExpenseRequest struct {
	Date          time.Time       `json:"date"`
	Description   string          `json:"description" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	AccountID     string          `json:"accountID" binding:"required"`
	PaymentMethod string          `json:"paymentMethod" binding:"omitempty,oneof=CASH BANK CARD TRANSFER"`
	CostCenterID  *int64          `json:"costCenterID"`
	Notes         string          `json:"notes"`
}

// ExpenseResponse defines the data returned for an expense document.
type ExpenseResponse struct {
	ID            int64           `json:"id"`
	Reference     string          `json:"reference"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	AccountID     string          `json:"accountID"`
	PaymentMethod string          `json:"paymentMethod"`
	CostCenterID  *int64          `json:"costCenterID,omitempty"`
	EntryID       *string         `json:"entryID,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToExpenseResponse converts a domain.ExpenseDocument to its DTO.
func ToExpenseResponse(e *domain.ExpenseDocument) ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID,
		Reference:     e.Reference,
		Date:          e.Date,
		Description:   e.Description,
		Amount:        e.Amount,
		AccountID:     e.AccountID,
		PaymentMethod: string(e.PaymentMethod),
		CostCenterID:  e.CostCenterID,
		EntryID:       e.EntryID,
		CreatedAt:     e.CreatedAt,
	}
}

// CreateAdvanceRequest hands out a salary advance to an employee or teacher.
type CreateAdvanceRequest struct {
	OwnerKind     string          `json:"ownerKind" binding:"required,oneof=EMPLOYEE TEACHER"`
	OwnerID       int64           `json:"ownerID" binding:"required"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Purpose       string          `json:"purpose"`
	PaymentMethod string          `json:"paymentMethod" binding:"omitempty,oneof=CASH BANK CARD TRANSFER"`
}

// AdvanceResponse defines the data returned for an advance.
type AdvanceResponse struct {
	ID           int64           `json:"id"`
	Reference    string          `json:"reference"`
	OwnerKind    string          `json:"ownerKind"`
	OwnerID      int64           `json:"ownerID"`
	Date         time.Time       `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Purpose      string          `json:"purpose,omitempty"`
	IsRepaid     bool            `json:"isRepaid"`
	RepaidAmount decimal.Decimal `json:"repaidAmount"`
	Outstanding  decimal.Decimal `json:"outstanding"`
	EntryID      *string         `json:"entryID,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ToAdvanceResponse converts a domain.Advance to its DTO.
func ToAdvanceResponse(a *domain.Advance) AdvanceResponse {
	return AdvanceResponse{
		ID:           a.ID,
		Reference:    a.Reference,
		OwnerKind:    string(a.OwnerKind),
		OwnerID:      a.OwnerID,
		Date:         a.Date,
		Amount:       a.Amount,
		Purpose:      a.Purpose,
		IsRepaid:     a.IsRepaid,
		RepaidAmount: a.RepaidAmount,
		Outstanding:  a.OutstandingAmount(),
		EntryID:      a.EntryID,
		CreatedAt:    a.CreatedAt,
	}
}
