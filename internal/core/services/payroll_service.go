package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alnahda/institute-ledger/internal/apperrors"
	"github.com/alnahda/institute-ledger/internal/core/domain"
	portsrepo "github.com/alnahda/institute-ledger/internal/core/ports/repositories"
	portssvc "github.com/alnahda/institute-ledger/internal/core/ports/services"
	"github.com/alnahda/institute-ledger/internal/dto"
	"github.com/alnahda/institute-ledger/internal/middleware"
)

// PayrollService runs the monthly salary cycle. Teachers accrue into a dues
// liability before payment; employees are paid directly against expense.
// A salary-posting row per (owner, period, purpose) blocks double posting.
type PayrollService struct {
	payrollRepo  portsrepo.PayrollRepository
	documentRepo portsrepo.DocumentRepository
	accountSvc   portssvc.AccountSvcFacade
	journalSvc   portssvc.JournalSvcFacade
}

func NewPayrollService(
	payrollRepo portsrepo.PayrollRepository,
	documentRepo portsrepo.DocumentRepository,
	accountSvc portssvc.AccountSvcFacade,
	journalSvc portssvc.JournalSvcFacade,
) *PayrollService {
	return &PayrollService{
		payrollRepo:  payrollRepo,
		documentRepo: documentRepo,
		accountSvc:   accountSvc,
		journalSvc:   journalSvc,
	}
}

func (s *PayrollService) CreateTeacher(ctx context.Context, req dto.CreateTeacherRequest, userID string) (*domain.Teacher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	hireDate := req.HireDate
	if hireDate.IsZero() {
		hireDate = time.Now()
	}

	now := time.Now()
	teacher := domain.Teacher{
		FullName:      req.FullName,
		Phone:         req.Phone,
		Branches:      req.Branches,
		HireDate:      hireDate,
		HourlyRate:    req.HourlyRate,
		MonthlySalary: req.MonthlySalary,
		SalaryType:    domain.SalaryType(req.SalaryType),
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	id, err := s.payrollRepo.SaveTeacher(ctx, teacher)
	if err != nil {
		return nil, err
	}
	teacher.ID = id

	if _, _, _, err := s.accountSvc.EnsureTeacherAccounts(ctx, &teacher, userID); err != nil {
		logger.Error("Failed to provision teacher accounts", slog.String("error", err.Error()), slog.Int64("teacher_id", id))
		return nil, err
	}

	logger.Info("Teacher registered", slog.Int64("teacher_id", id))
	return &teacher, nil
}

func (s *PayrollService) GetTeacherByID(ctx context.Context, id int64) (*domain.Teacher, error) {
	return s.payrollRepo.FindTeacherByID(ctx, id)
}

func (s *PayrollService) RecordAttendance(ctx context.Context, teacherID int64, req dto.RecordAttendanceRequest) error {
	if _, err := s.payrollRepo.FindTeacherByID(ctx, teacherID); err != nil {
		return err
	}
	return s.payrollRepo.RecordAttendance(ctx, teacherID, req.Date, req.Sessions)
}

func (s *PayrollService) CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest, userID string) (*domain.Employee, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Salary.IsPositive() {
		return nil, fmt.Errorf("%w: salary must be positive", apperrors.ErrInvalidAmount)
	}

	now := time.Now()
	employee := domain.Employee{
		FullName:  req.FullName,
		Phone:     req.Phone,
		HireDate:  req.HireDate,
		Salary:    req.Salary,
		Position:  req.Position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := s.payrollRepo.SaveEmployee(ctx, employee)
	if err != nil {
		return nil, err
	}
	employee.ID = id

	if _, _, err := s.accountSvc.EnsureEmployeeAccounts(ctx, &employee, userID); err != nil {
		logger.Error("Failed to provision employee accounts", slog.String("error", err.Error()), slog.Int64("employee_id", id))
		return nil, err
	}

	logger.Info("Employee registered", slog.Int64("employee_id", id))
	return &employee, nil
}

func (s *PayrollService) GetEmployeeByID(ctx context.Context, id int64) (*domain.Employee, error) {
	return s.payrollRepo.FindEmployeeByID(ctx, id)
}

// CalculateMonthlySalary computes the teacher's gross salary for the month
// from their salary type and recorded sessions, netting outstanding advances
// taken in that month.
func (s *PayrollService) CalculateMonthlySalary(ctx context.Context, teacherID int64, year int, month time.Month) (*dto.SalaryCalculationResponse, error) {
	teacher, err := s.payrollRepo.FindTeacherByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.payrollRepo.MonthlySessions(ctx, teacherID, year, month)
	if err != nil {
		return nil, err
	}

	gross := teacher.MonthlySalaryFor(sessions)
	advances, err := s.outstandingTotal(ctx, domain.AdvanceOwnerTeacher, teacherID, year, month)
	if err != nil {
		return nil, err
	}
	deduction := decimal.Min(advances, gross)

	return &dto.SalaryCalculationResponse{
		TeacherID:   teacherID,
		Year:        year,
		Month:       int(month),
		SalaryType:  string(teacher.SalaryType),
		Sessions:    sessions,
		GrossSalary: gross,
		Advances:    deduction,
		NetSalary:   gross.Sub(deduction),
	}, nil
}

// PostTeacherSalaryAccrual posts DR teacher salary expense / CR teacher dues
// for the gross monthly salary. At most one accrual per teacher and period;
// re-invoking a posted period returns the existing entry.
func (s *PayrollService) PostTeacherSalaryAccrual(ctx context.Context, teacherID int64, year int, month time.Month, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.postedEntry(ctx, domain.AdvanceOwnerTeacher, teacherID, year, month, domain.SalaryAccrual)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	teacher, err := s.payrollRepo.FindTeacherByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.payrollRepo.MonthlySessions(ctx, teacherID, year, month)
	if err != nil {
		return nil, err
	}
	gross := teacher.MonthlySalaryFor(sessions)
	if !gross.IsPositive() {
		return nil, fmt.Errorf("%w: no salary to accrue for teacher %d in %d-%02d", apperrors.ErrInvalidAmount, teacherID, year, month)
	}

	salaryAcc, duesAcc, _, err := s.accountSvc.EnsureTeacherAccounts(ctx, teacher, userID)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Salary accrual %d-%02d: %s", year, month, teacher.FullName)
	entry, err := s.journalSvc.PostNew(ctx, portssvc.NewEntryInput{
		Date:        time.Now(),
		Description: description,
		EntryType:   domain.EntrySalary,
		Lines: []domain.Transaction{
			{AccountID: salaryAcc.AccountID, Amount: gross, TransactionType: domain.Debit, Description: description},
			{AccountID: duesAcc.AccountID, Amount: gross, TransactionType: domain.Credit, Description: description},
		},
	}, userID)
	if err != nil {
		return nil, err
	}

	if err := s.recordPosting(ctx, domain.AdvanceOwnerTeacher, teacherID, year, month, domain.SalaryAccrual, entry.EntryID); err != nil {
		return nil, err
	}

	logger.Info("Teacher salary accrued", slog.Int64("teacher_id", teacherID), slog.String("entry_id", entry.EntryID))
	return entry, nil
}

// PostTeacherSalaryPayment settles the accrued dues: DR dues for the gross,
// CR cash for the net, CR teacher advances for the recovered amount.
// Recovered advances are marked repaid.
func (s *PayrollService) PostTeacherSalaryPayment(ctx context.Context, teacherID int64, year int, month time.Month, method domain.PaymentMethod, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.postedEntry(ctx, domain.AdvanceOwnerTeacher, teacherID, year, month, domain.SalaryPayment)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	// Dues must exist before they can be settled.
	if _, err := s.payrollRepo.FindSalaryPosting(ctx, domain.AdvanceOwnerTeacher, teacherID, year, month, domain.SalaryAccrual); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: salary for teacher %d in %d-%02d was never accrued", apperrors.ErrNotPosted, teacherID, year, month)
		}
		return nil, err
	}

	teacher, err := s.payrollRepo.FindTeacherByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.payrollRepo.MonthlySessions(ctx, teacherID, year, month)
	if err != nil {
		return nil, err
	}
	gross := teacher.MonthlySalaryFor(sessions)
	if !gross.IsPositive() {
		return nil, fmt.Errorf("%w: no salary to pay for teacher %d in %d-%02d", apperrors.ErrInvalidAmount, teacherID, year, month)
	}

	outstanding, err := s.outstandingTotal(ctx, domain.AdvanceOwnerTeacher, teacherID, year, month)
	if err != nil {
		return nil, err
	}
	deduction := decimal.Min(outstanding, gross)
	net := gross.Sub(deduction)

	_, duesAcc, advanceAcc, err := s.accountSvc.EnsureTeacherAccounts(ctx, teacher, userID)
	if err != nil {
		return nil, err
	}
	cash, err := s.accountSvc.EnsureCashAccount(ctx, method, userID)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Salary payment %d-%02d: %s", year, month, teacher.FullName)
	lines := []domain.Transaction{
		{AccountID: duesAcc.AccountID, Amount: gross, TransactionType: domain.Debit, Description: description},
	}
	if net.IsPositive() {
		lines = append(lines, domain.Transaction{AccountID: cash.AccountID, Amount: net, TransactionType: domain.Credit, Description: description})
	}
	if deduction.IsPositive() {
		lines = append(lines, domain.Transaction{AccountID: advanceAcc.AccountID, Amount: deduction, TransactionType: domain.Credit, Description: description})
	}

	entry, err := s.journalSvc.PostNew(ctx, portssvc.NewEntryInput{
		Date:        time.Now(),
		Description: description,
		EntryType:   domain.EntrySalary,
		Lines:       lines,
	}, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repayAdvances(ctx, domain.AdvanceOwnerTeacher, teacherID, year, month, deduction); err != nil {
		return nil, err
	}
	if err := s.recordPosting(ctx, domain.AdvanceOwnerTeacher, teacherID, year, month, domain.SalaryPayment, entry.EntryID); err != nil {
		return nil, err
	}

	logger.Info("Teacher salary paid", slog.Int64("teacher_id", teacherID), slog.String("entry_id", entry.EntryID))
	return entry, nil
}

// PostEmployeeSalaryPayment pays the fixed salary directly: DR employee salary
// expense for the gross, CR cash for the net, CR employee advances for the
// deduction. A non-nil manual advance overrides the computed outstanding total.
func (s *PayrollService) PostEmployeeSalaryPayment(ctx context.Context, employeeID int64, req dto.EmployeeSalaryPaymentRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	year, month := req.Year, time.Month(req.Month)

	existing, err := s.postedEntry(ctx, domain.AdvanceOwnerEmployee, employeeID, year, month, domain.SalaryPayment)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	employee, err := s.payrollRepo.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	gross := employee.Salary
	if !gross.IsPositive() {
		return nil, fmt.Errorf("%w: no salary to pay for employee %d", apperrors.ErrInvalidAmount, employeeID)
	}

	var deduction decimal.Decimal
	if req.ManualAdvance != nil {
		if req.ManualAdvance.IsNegative() {
			return nil, fmt.Errorf("%w: manual advance must not be negative", apperrors.ErrInvalidAmount)
		}
		deduction = decimal.Min(*req.ManualAdvance, gross)
	} else {
		outstanding, err := s.outstandingTotal(ctx, domain.AdvanceOwnerEmployee, employeeID, year, month)
		if err != nil {
			return nil, err
		}
		deduction = decimal.Min(outstanding, gross)
	}
	net := gross.Sub(deduction)

	salaryAcc, advanceAcc, err := s.accountSvc.EnsureEmployeeAccounts(ctx, employee, userID)
	if err != nil {
		return nil, err
	}
	method := domain.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = domain.PayCash
	}
	cash, err := s.accountSvc.EnsureCashAccount(ctx, method, userID)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Salary payment %d-%02d: %s", year, month, employee.FullName)
	lines := []domain.Transaction{
		{AccountID: salaryAcc.AccountID, Amount: gross, TransactionType: domain.Debit, Description: description},
	}
	if net.IsPositive() {
		lines = append(lines, domain.Transaction{AccountID: cash.AccountID, Amount: net, TransactionType: domain.Credit, Description: description})
	}
	if deduction.IsPositive() {
		lines = append(lines, domain.Transaction{AccountID: advanceAcc.AccountID, Amount: deduction, TransactionType: domain.Credit, Description: description})
	}

	entry, err := s.journalSvc.PostNew(ctx, portssvc.NewEntryInput{
		Date:        time.Now(),
		Description: description,
		EntryType:   domain.EntrySalary,
		Lines:       lines,
	}, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repayAdvances(ctx, domain.AdvanceOwnerEmployee, employeeID, year, month, deduction); err != nil {
		return nil, err
	}
	if err := s.recordPosting(ctx, domain.AdvanceOwnerEmployee, employeeID, year, month, domain.SalaryPayment, entry.EntryID); err != nil {
		return nil, err
	}

	logger.Info("Employee salary paid", slog.Int64("employee_id", employeeID), slog.String("entry_id", entry.EntryID))
	return entry, nil
}

// outstandingTotal sums the unrecovered advances taken in the period.
func (s *PayrollService) outstandingTotal(ctx context.Context, kind domain.AdvanceOwnerKind, ownerID int64, year int, month time.Month) (decimal.Decimal, error) {
	advances, err := s.documentRepo.ListOutstandingAdvances(ctx, kind, ownerID, year, month)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, a := range advances {
		total = total.Add(a.OutstandingAmount())
	}
	return total, nil
}

// repayAdvances consumes the deduction across the period's outstanding
// advances, oldest first, marking each repaid up to its remainder.
func (s *PayrollService) repayAdvances(ctx context.Context, kind domain.AdvanceOwnerKind, ownerID int64, year int, month time.Month, deduction decimal.Decimal) error {
	if !deduction.IsPositive() {
		return nil
	}
	advances, err := s.documentRepo.ListOutstandingAdvances(ctx, kind, ownerID, year, month)
	if err != nil {
		return err
	}
	remaining := deduction
	for _, a := range advances {
		if !remaining.IsPositive() {
			break
		}
		portion := decimal.Min(a.OutstandingAmount(), remaining)
		if err := s.documentRepo.MarkAdvanceRepaid(ctx, a.ID, a.RepaidAmount.Add(portion)); err != nil {
			return err
		}
		remaining = remaining.Sub(portion)
	}
	return nil
}

// postedEntry returns the journal entry already posted for the period and
// purpose, or nil when the period is still open. Re-invoking a posted period
// hands the caller the original entry instead of failing.
func (s *PayrollService) postedEntry(ctx context.Context, kind domain.AdvanceOwnerKind, ownerID int64, year int, month time.Month, purpose domain.SalaryPostingPurpose) (*domain.JournalEntry, error) {
	posting, err := s.payrollRepo.FindSalaryPosting(ctx, kind, ownerID, year, month, purpose)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.journalSvc.GetEntryByID(ctx, posting.EntryID)
}

func (s *PayrollService) recordPosting(ctx context.Context, kind domain.AdvanceOwnerKind, ownerID int64, year int, month time.Month, purpose domain.SalaryPostingPurpose, entryID string) error {
	return s.payrollRepo.CreateSalaryPosting(ctx, domain.SalaryPosting{
		OwnerKind: kind,
		OwnerID:   ownerID,
		Year:      year,
		Month:     month,
		Purpose:   purpose,
		EntryID:   entryID,
		CreatedAt: time.Now(),
	})
}
