package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how money physically moved for a document.
type PaymentMethod string

const (
	PayCash     PaymentMethod = "CASH"
	PayBank     PaymentMethod = "BANK"
	PayCard     PaymentMethod = "CARD"
	PayTransfer PaymentMethod = "TRANSFER"
)

// CashPurpose maps a payment method to the ledger account receiving or
// releasing the money. Card and transfer settle through the bank account.
func (m PaymentMethod) CashPurpose() AccountPurpose {
	if m == PayCash || m == "" {
		return PurposeCash
	}
	return PurposeBank
}

// Student is an enrollable person. The numeric ID feeds the AR account code.
type Student struct {
	ID        int64     `json:"id"`
	StudentNo string    `json:"studentNo"` // Human-facing registration number
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Course is a sellable offering owned by at most one cost center.
type Course struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	NameAr        string          `json:"nameAr"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	DurationHours *int64          `json:"durationHours,omitempty"`
	CostCenterID  *int64          `json:"costCenterID,omitempty"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// CourseTeacherAssignment links a teacher to a course with the salary terms
// used for cost-center salary allocation.
type CourseTeacherAssignment struct {
	ID          int64            `json:"id"`
	CourseID    int64            `json:"courseID"`
	TeacherID   int64            `json:"teacherID"`
	StartDate   time.Time        `json:"startDate"`
	EndDate     *time.Time       `json:"endDate,omitempty"`
	HourlyRate  *decimal.Decimal `json:"hourlyRate,omitempty"`
	MonthlyRate *decimal.Decimal `json:"monthlyRate,omitempty"`
	TotalHours  *int64           `json:"totalHours,omitempty"`
	IsActive    bool             `json:"isActive"`
	Notes       string           `json:"notes"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// TotalSalary computes the assignment's salary: hourly terms take precedence
// over a monthly rate when both are set.
func (a CourseTeacherAssignment) TotalSalary() decimal.Decimal {
	if a.HourlyRate != nil && a.TotalHours != nil {
		return a.HourlyRate.Mul(decimal.NewFromInt(*a.TotalHours))
	}
	if a.MonthlyRate != nil {
		return *a.MonthlyRate
	}
	return decimal.Zero
}

// Enrollment registers a student in a course. It owns at most one accrual
// entry and one completion entry; a set reference makes re-posting a no-op.
type Enrollment struct {
	ID                int64           `json:"id"`
	StudentID         int64           `json:"studentID"`
	CourseID          int64           `json:"courseID"`
	EnrollmentDate    time.Time       `json:"enrollmentDate"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	DiscountPercent   decimal.Decimal `json:"discountPercent"`
	DiscountAmount    decimal.Decimal `json:"discountAmount"`
	PaymentMethod     PaymentMethod   `json:"paymentMethod"`
	Notes             string          `json:"notes"`
	IsCompleted       bool            `json:"isCompleted"`
	CompletionDate    *time.Time      `json:"completionDate,omitempty"`
	AccrualEntryID    *string         `json:"accrualEntryID,omitempty"`
	CompletionEntryID *string         `json:"completionEntryID,omitempty"`
	AuditFields
}

// NetAmount is the gross price less percentage and flat discounts, floored at zero.
func (e Enrollment) NetAmount() decimal.Decimal {
	afterPercent := e.TotalAmount.Sub(e.TotalAmount.Mul(e.DiscountPercent).Div(decimal.NewFromInt(100)))
	net := afterPercent.Sub(e.DiscountAmount)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

// BalanceDue is the outstanding amount after payments, floored at zero.
func (e Enrollment) BalanceDue(amountPaid decimal.Decimal) decimal.Decimal {
	due := e.NetAmount().Sub(amountPaid)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}
