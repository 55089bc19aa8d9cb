package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryType selects how a teacher's monthly salary is computed.
type SalaryType string

const (
	SalaryHourly  SalaryType = "hourly"
	SalaryMonthly SalaryType = "monthly"
	SalaryMixed   SalaryType = "mixed"
)

// Teacher is an instructor paid per session, per month, or both.
type Teacher struct {
	ID            int64           `json:"id"`
	FullName      string          `json:"fullName"`
	Phone         string          `json:"phone"`
	Branches      string          `json:"branches"` // Comma-separated subject branches
	HireDate      time.Time       `json:"hireDate"`
	HourlyRate    decimal.Decimal `json:"hourlyRate"`
	MonthlySalary decimal.Decimal `json:"monthlySalary"`
	SalaryType    SalaryType      `json:"salaryType"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// MonthlySalary computes the gross salary for a month given the number of
// recorded teaching sessions.
func (t Teacher) MonthlySalaryFor(sessions int64) decimal.Decimal {
	hourly := decimal.NewFromInt(sessions).Mul(t.HourlyRate)
	switch t.SalaryType {
	case SalaryHourly:
		return hourly
	case SalaryMonthly:
		return t.MonthlySalary
	case SalaryMixed:
		return t.MonthlySalary.Add(hourly)
	}
	return decimal.Zero
}

// Employee is non-teaching staff with a fixed monthly salary.
type Employee struct {
	ID        int64           `json:"id"`
	FullName  string          `json:"fullName"`
	Phone     string          `json:"phone"`
	HireDate  *time.Time      `json:"hireDate,omitempty"`
	Salary    decimal.Decimal `json:"salary"` // Fixed monthly
	Position  string          `json:"position"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// SalaryPostingPurpose distinguishes accrual from payment dedup rows.
type SalaryPostingPurpose string

const (
	SalaryAccrual SalaryPostingPurpose = "ACCRUAL"
	SalaryPayment SalaryPostingPurpose = "PAYMENT"
)

// SalaryPosting is the structured dedup key preventing duplicate salary
// entries for the same entity and period. One row per posted entry; uniqueness
// on (owner kind, owner id, year, month, purpose) is enforced by the schema.
type SalaryPosting struct {
	ID        int64                `json:"id"`
	OwnerKind AdvanceOwnerKind     `json:"ownerKind"`
	OwnerID   int64                `json:"ownerID"`
	Year      int                  `json:"year"`
	Month     time.Month           `json:"month"`
	Purpose   SalaryPostingPurpose `json:"purpose"`
	EntryID   string               `json:"entryID"`
	CreatedAt time.Time            `json:"createdAt"`
}
