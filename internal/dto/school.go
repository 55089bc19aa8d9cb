package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/alnahda/institute-ledger/internal/core/domain"
)

// CreateStudentRequest defines the data needed to register a student.
type CreateStudentRequest struct {
	StudentNo string `json:"studentNo"`
	FullName  string `json:"fullName" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
}

// CreateCourseRequest defines the data needed to open a course.
type CreateCourseRequest struct {
	Name          string          `json:"name" binding:"required"`
	NameAr        string          `json:"nameAr"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	DurationHours *int64          `json:"durationHours"`
	CostCenterID  *int64          `json:"costCenterID"`
}

// CreateAssignmentRequest links a teacher to a course with salary terms.
type CreateAssignmentRequest struct {
	CourseID    int64            `json:"courseID" binding:"required"`
	TeacherID   int64            `json:"teacherID" binding:"required"`
	StartDate   time.Time        `json:"startDate" binding:"required"`
	EndDate     *time.Time       `json:"endDate"`
	HourlyRate  *decimal.Decimal `json:"hourlyRate"`
	MonthlyRate *decimal.Decimal `json:"monthlyRate"`
	TotalHours  *int64           `json:"totalHours"`
	Notes       string           `json:"notes"`
}

// CreateEnrollmentRequest defines the data needed to enroll a student.
// TotalAmount defaults to the course price when zero.
type CreateEnrollmentRequest struct {
	StudentID       int64           `json:"studentID" binding:"required"`
	CourseID        int64           `json:"courseID" binding:"required"`
	EnrollmentDate  time.Time       `json:"enrollmentDate"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	PaymentMethod   string          `json:"paymentMethod" binding:"omitempty,oneof=CASH BANK CARD TRANSFER"`
	Notes           string          `json:"notes"`
}

// EnrollmentResponse defines the data returned for an enrollment.
type EnrollmentResponse struct {
	ID                int64           `json:"id"`
	StudentID         int64           `json:"studentID"`
	CourseID          int64           `json:"courseID"`
	EnrollmentDate    time.Time       `json:"enrollmentDate"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	DiscountPercent   decimal.Decimal `json:"discountPercent"`
	DiscountAmount    decimal.Decimal `json:"discountAmount"`
	NetAmount         decimal.Decimal `json:"netAmount"`
	PaymentMethod     string          `json:"paymentMethod"`
	IsCompleted       bool            `json:"isCompleted"`
	CompletionDate    *time.Time      `json:"completionDate,omitempty"`
	AccrualEntryID    *string         `json:"accrualEntryID,omitempty"`
	CompletionEntryID *string         `json:"completionEntryID,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// ToEnrollmentResponse converts a domain.Enrollment to its DTO.
func ToEnrollmentResponse(e *domain.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:                e.ID,
		StudentID:         e.StudentID,
		CourseID:          e.CourseID,
		EnrollmentDate:    e.EnrollmentDate,
		TotalAmount:       e.TotalAmount,
		DiscountPercent:   e.DiscountPercent,
		DiscountAmount:    e.DiscountAmount,
		NetAmount:         e.NetAmount(),
		PaymentMethod:     string(e.PaymentMethod),
		IsCompleted:       e.IsCompleted,
		CompletionDate:    e.CompletionDate,
		AccrualEntryID:    e.AccrualEntryID,
		CompletionEntryID: e.CompletionEntryID,
		CreatedAt:         e.CreatedAt,
	}
}

// WithdrawEnrollmentRequest carries the refund to hand back on withdrawal.
// Zero means the student keeps nothing outstanding and no money moves back.
type WithdrawEnrollmentRequest struct {
	Refund decimal.Decimal `json:"refund"`
}

// EnrollmentBalanceResponse reports the remaining amount due on an enrollment.
type EnrollmentBalanceResponse struct {
	EnrollmentID int64           `json:"enrollmentID"`
	NetAmount    decimal.Decimal `json:"netAmount"`
	AmountPaid   decimal.Decimal `json:"amountPaid"`
	BalanceDue   decimal.Decimal `json:"balanceDue"`
}
