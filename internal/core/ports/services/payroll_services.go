package services

import (
	"context"
	"time"

	"github.com/alnahda/institute-ledger/internal/core/domain"
	"github.com/alnahda/institute-ledger/internal/dto"
)

// StaffSvc manages teachers and employees, provisioning their ledger
// accounts at registration.
type StaffSvc interface {
	CreateTeacher(ctx context.Context, req dto.CreateTeacherRequest, creatorUserID string) (*domain.Teacher, error)
	GetTeacherByID(ctx context.Context, id int64) (*domain.Teacher, error)
	RecordAttendance(ctx context.Context, teacherID int64, req dto.RecordAttendanceRequest) error

	CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest, creatorUserID string) (*domain.Employee, error)
	GetEmployeeByID(ctx context.Context, id int64) (*domain.Employee, error)
}

// SalarySvc runs the monthly payroll cycle. Accrual and payment are each
// posted at most once per entity and period; duplicates fail with
// apperrors.ErrDuplicate.
type SalarySvc interface {
	// CalculateMonthlySalary computes the teacher's gross and net salary for
	// the month, netting outstanding advances taken in that month.
	CalculateMonthlySalary(ctx context.Context, teacherID int64, year int, month time.Month) (*dto.SalaryCalculationResponse, error)

	// PostTeacherSalaryAccrual posts DR teacher salary expense / CR teacher
	// dues for the gross salary.
	PostTeacherSalaryAccrual(ctx context.Context, teacherID int64, year int, month time.Month, userID string) (*domain.JournalEntry, error)

	// PostTeacherSalaryPayment settles accrued dues: DR dues gross / CR cash
	// net / CR teacher advance account for the recovered amount. Recovered
	// advances are marked repaid.
	PostTeacherSalaryPayment(ctx context.Context, teacherID int64, year int, month time.Month, method domain.PaymentMethod, userID string) (*domain.JournalEntry, error)

	// PostEmployeeSalaryPayment pays the fixed salary directly: DR employee
	// salary expense / CR cash net / CR employee advance for the deduction.
	// A non-nil manual advance overrides the computed outstanding total.
	PostEmployeeSalaryPayment(ctx context.Context, employeeID int64, req dto.EmployeeSalaryPaymentRequest, userID string) (*domain.JournalEntry, error)
}

// PayrollSvcFacade combines staff management and the payroll cycle.
type PayrollSvcFacade interface {
	StaffSvc
	SalarySvc
}
