package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/alnahda/institute-ledger/internal/core/domain"
)

// CreateTeacherRequest registers a teacher and provisions their ledger accounts.
type CreateTeacherRequest struct {
	FullName      string          `json:"fullName" binding:"required"`
	Phone         string          `json:"phone"`
	Branches      string          `json:"branches"`
	HireDate      time.Time       `json:"hireDate"`
	HourlyRate    decimal.Decimal `json:"hourlyRate"`
	MonthlySalary decimal.Decimal `json:"monthlySalary"`
	SalaryType    string          `json:"salaryType" binding:"required,oneof=hourly monthly mixed"`
	Notes         string          `json:"notes"`
}

// CreateEmployeeRequest registers a non-teaching employee.
type CreateEmployeeRequest struct {
	FullName string          `json:"fullName" binding:"required"`
	Phone    string          `json:"phone"`
	HireDate *time.Time      `json:"hireDate"`
	Salary   decimal.Decimal `json:"salary" binding:"required"`
	Position string          `json:"position"`
}

// RecordAttendanceRequest records teaching sessions for one day.
type RecordAttendanceRequest struct {
	Date     time.Time `json:"date" binding:"required"`
	Sessions int64     `json:"sessions" binding:"required,min=1"`
}

// SalaryPeriodRequest selects the payroll period for accrual and payment.
type SalaryPeriodRequest struct {
	Year  int `json:"year" binding:"required"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// TeacherSalaryPaymentRequest selects the period and how the net is paid out.
type TeacherSalaryPaymentRequest struct {
	Year          int    `json:"year" binding:"required"`
	Month         int    `json:"month" binding:"required,min=1,max=12"`
	PaymentMethod string `json:"paymentMethod" binding:"omitempty,oneof=CASH BANK CARD TRANSFER"`
}

// EmployeeSalaryPaymentRequest optionally overrides the advance deduction.
// A nil ManualAdvance means deduct all outstanding advances for the period.
type EmployeeSalaryPaymentRequest struct {
	Year          int              `json:"year" binding:"required"`
	Month         int              `json:"month" binding:"required,min=1,max=12"`
	ManualAdvance *decimal.Decimal `json:"manualAdvance"`
	PaymentMethod string           `json:"paymentMethod" binding:"omitempty,oneof=CASH BANK CARD TRANSFER"`
}

// SalaryCalculationResponse reports a teacher's salary breakdown for a month.
type SalaryCalculationResponse struct {
	TeacherID   int64           `json:"teacherID"`
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	SalaryType  string          `json:"salaryType"`
	Sessions    int64           `json:"sessions"`
	GrossSalary decimal.Decimal `json:"grossSalary"`
	Advances    decimal.Decimal `json:"advances"`
	NetSalary   decimal.Decimal `json:"netSalary"`
}

// TeacherResponse defines the data returned for a teacher.
type TeacherResponse struct {
	ID            int64           `json:"id"`
	FullName      string          `json:"fullName"`
	Phone         string          `json:"phone,omitempty"`
	Branches      string          `json:"branches,omitempty"`
	HireDate      time.Time       `json:"hireDate"`
	HourlyRate    decimal.Decimal `json:"hourlyRate"`
	MonthlySalary decimal.Decimal `json:"monthlySalary"`
	SalaryType    string          `json:"salaryType"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToTeacherResponse converts a domain.Teacher to its DTO.
func ToTeacherResponse(t *domain.Teacher) TeacherResponse {
	return TeacherResponse{
		ID:            t.ID,
		FullName:      t.FullName,
		Phone:         t.Phone,
		Branches:      t.Branches,
		HireDate:      t.HireDate,
		HourlyRate:    t.HourlyRate,
		MonthlySalary: t.MonthlySalary,
		SalaryType:    string(t.SalaryType),
		CreatedAt:     t.CreatedAt,
	}
}

// EmployeeResponse defines the data returned for an employee.
type EmployeeResponse struct {
	ID        int64           `json:"id"`
	FullName  string          `json:"fullName"`
	Phone     string          `json:"phone,omitempty"`
	HireDate  *time.Time      `json:"hireDate,omitempty"`
	Salary    decimal.Decimal `json:"salary"`
	Position  string          `json:"position,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ToEmployeeResponse converts a domain.Employee to its DTO.
func ToEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:        e.ID,
		FullName:  e.FullName,
		Phone:     e.Phone,
		HireDate:  e.HireDate,
		Salary:    e.Salary,
		Position:  e.Position,
		CreatedAt: e.CreatedAt,
	}
}
