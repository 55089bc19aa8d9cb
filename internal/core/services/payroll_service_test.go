package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/alnahda/institute-ledger/internal/apperrors"
	"github.com/alnahda/institute-ledger/internal/core/domain"
	portssvc "github.com/alnahda/institute-ledger/internal/core/ports/services"
	"github.com/alnahda/institute-ledger/internal/core/services"
	"github.com/alnahda/institute-ledger/internal/dto"
)

type PayrollServiceTestSuite struct {
	suite.Suite
	mockPayrollRepo  *MockPayrollRepository
	mockDocumentRepo *MockDocumentRepository
	mockAccountSvc   *MockAccountService
	mockJournalSvc   *MockJournalService
	service          *services.PayrollService
}

func (suite *PayrollServiceTestSuite) SetupTest() {
	suite.mockPayrollRepo = new(MockPayrollRepository)
	suite.mockDocumentRepo = new(MockDocumentRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockJournalSvc = new(MockJournalService)
	suite.service = services.NewPayrollService(
		suite.mockPayrollRepo,
		suite.mockDocumentRepo,
		suite.mockAccountSvc,
		suite.mockJournalSvc,
	)
}

func hourlyTeacher(id int64, rate int64) *domain.Teacher {
	return &domain.Teacher{
		ID:         id,
		FullName:   "Omar Khalid",
		HourlyRate: decimal.NewFromInt(rate),
		SalaryType: domain.SalaryHourly,
	}
}

func (suite *PayrollServiceTestSuite) TestCalculateMonthlySalary_HourlyWithAdvances() {
	ctx := context.Background()
	teacher := hourlyTeacher(5, 100)
	year, month := 2026, time.March

	suite.mockPayrollRepo.On("FindTeacherByID", ctx, teacher.ID).Return(teacher, nil).Once()
	suite.mockPayrollRepo.On("MonthlySessions", ctx, teacher.ID, year, month).Return(int64(40), nil).Once()
	suite.mockDocumentRepo.On("ListOutstandingAdvances", ctx, domain.AdvanceOwnerTeacher, teacher.ID, year, month).
		Return([]domain.Advance{
			{ID: 1, Amount: decimal.NewFromInt(500), RepaidAmount: decimal.Zero},
		}, nil).Once()

	calc, err := suite.service.CalculateMonthlySalary(ctx, teacher.ID, year, month)

	suite.Require().NoError(err)
	suite.Equal(int64(40), calc.Sessions)
	suite.True(decimal.NewFromInt(4000).Equal(calc.GrossSalary))
	suite.True(decimal.NewFromInt(500).Equal(calc.Advances))
	suite.True(decimal.NewFromInt(3500).Equal(calc.NetSalary))

	suite.mockPayrollRepo.AssertExpectations(suite.T())
	suite.mockDocumentRepo.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestCalculateMonthlySalary_DeductionCappedAtGross() {
	ctx := context.Background()
	teacher := hourlyTeacher(5, 100)
	year, month := 2026, time.March

	suite.mockPayrollRepo.On("FindTeacherByID", ctx, teacher.ID).Return(teacher, nil).Once()
	suite.mockPayrollRepo.On("MonthlySessions", ctx, teacher.ID, year, month).Return(int64(2), nil).Once()
	suite.mockDocumentRepo.On("ListOutstandingAdvances", ctx, domain.AdvanceOwnerTeacher, teacher.ID, year, month).
		Return([]domain.Advance{
			{ID: 1, Amount: decimal.NewFromInt(1000), RepaidAmount: decimal.Zero},
		}, nil).Once()

	calc, err := suite.service.CalculateMonthlySalary(ctx, teacher.ID, year, month)

	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(200).Equal(calc.GrossSalary))
	suite.True(decimal.NewFromInt(200).Equal(calc.Advances))
	suite.True(calc.NetSalary.IsZero())
}

func (suite *PayrollServiceTestSuite) TestPostTeacherSalaryAccrual_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	teacher := hourlyTeacher(5, 100)
	year, month := 2026, time.March
	salaryAcc := testAccount("501-005", domain.Expense)
	duesAcc := testAccount("22-005", domain.Liability)
	advanceAcc := testAccount("1242-005", domain.Asset)
	postedEntry := &domain.JournalEntry{EntryID: uuid.NewString(), Reference: "JE-000020", IsPosted: true}

	suite.mockPayrollRepo.On("FindSalaryPosting", ctx, domain.AdvanceOwnerTeacher, teacher.ID, year, month, domain.SalaryAccrual).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPayrollRepo.On("FindTeacherByID", ctx, teacher.ID).Return(teacher, nil).Once()
	suite.mockPayrollRepo.On("MonthlySessions", ctx, teacher.ID, year, month).Return(int64(40), nil).Once()
	suite.mockAccountSvc.On("EnsureTeacherAccounts", ctx, teacher, userID).Return(salaryAcc, duesAcc, advanceAcc, nil).Once()

	var input portssvc.NewEntryInput
	suite.mockJournalSvc.On("PostNew", ctx, mock.AnythingOfType("services.NewEntryInput"), userID).
		Run(func(args mock.Arguments) { input = args.Get(1).(portssvc.NewEntryInput) }).
		Return(postedEntry, nil).Once()
	suite.mockPayrollRepo.On("CreateSalaryPosting", ctx, mock.AnythingOfType("domain.SalaryPosting")).Return(nil).Once()

	entry, err := suite.service.PostTeacherSalaryAccrual(ctx, teacher.ID, year, month, userID)

	suite.Require().NoError(err)
	suite.Equal(postedEntry, entry)

	// Gross accrues in full: DR salary expense / CR dues.
	gross := decimal.NewFromInt(4000)
	suite.Equal(domain.EntrySalary, input.EntryType)
	suite.Require().Len(input.Lines, 2)
	suite.Equal(salaryAcc.AccountID, input.Lines[0].AccountID)
	suite.Equal(domain.Debit, input.Lines[0].TransactionType)
	suite.True(gross.Equal(input.Lines[0].Amount))
	suite.Equal(duesAcc.AccountID, input.Lines[1].AccountID)
	suite.Equal(domain.Credit, input.Lines[1].TransactionType)
	suite.True(gross.Equal(input.Lines[1].Amount))

	suite.mockPayrollRepo.AssertExpectations(suite.T())
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestPostTeacherSalaryAccrual_RepeatReturnsExistingEntry() {
	ctx := context.Background()
	teacher := hourlyTeacher(5, 100)
	year, month := 2026, time.March
	original := &domain.JournalEntry{EntryID: uuid.NewString(), Reference: "JE-000020", IsPosted: true}
	posting := &domain.SalaryPosting{
		OwnerKind: domain.AdvanceOwnerTeacher,
		OwnerID:   teacher.ID,
		Year:      year,
		Month:     month,
		Purpose:   domain.SalaryAccrual,
		EntryID:   original.EntryID,
	}

	suite.mockPayrollRepo.On("FindSalaryPosting", ctx, domain.AdvanceOwnerTeacher, teacher.ID, year, month, domain.SalaryAccrual).
		Return(posting, nil).Once()
	suite.mockJournalSvc.On("GetEntryByID", ctx, original.EntryID).Return(original, nil).Once()

	entry, err := suite.service.PostTeacherSalaryAccrual(ctx, teacher.ID, year, month, uuid.NewString())

	// An already-accrued period hands back the original entry unchanged.
	suite.Require().NoError(err)
	suite.Equal(original, entry)

	suite.mockJournalSvc.AssertNotCalled(suite.T(), "PostNew", mock.Anything, mock.Anything, mock.Anything)
	suite.mockPayrollRepo.AssertNotCalled(suite.T(), "CreateSalaryPosting", mock.Anything, mock.Anything)
}

func (suite *PayrollServiceTestSuite) TestPostTeacherSalaryPayment_RequiresAccrual() {
	ctx := context.Background()
	teacher := hourlyTeacher(5, 100)
	year, month := 2026, time.March

	suite.mockPayrollRepo.On("FindSalaryPosting", ctx, domain.AdvanceOwnerTeacher, teacher.ID, year, month, domain.SalaryPayment).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPayrollRepo.On("FindSalaryPosting", ctx, domain.AdvanceOwnerTeacher, teacher.ID, year, month, domain.SalaryAccrual).
		Return(nil, apperrors.ErrNotFound).Once()

	entry, err := suite.service.PostTeacherSalaryPayment(ctx, teacher.ID, year, month, domain.PayCash, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrNotPosted)
}

func (suite *PayrollServiceTestSuite) TestPostTeacherSalaryPayment_DeductsAdvances() {
	ctx := context.Background()
	userID := uuid.NewString()
	teacher := hourlyTeacher(5, 100)
	year, month := 2026, time.March
	salaryAcc := testAccount("501-005", domain.Expense)
	duesAcc := testAccount("22-005", domain.Liability)
	advanceAcc := testAccount("1242-005", domain.Asset)
	cash := testAccount("121", domain.Asset)
	postedEntry := &domain.JournalEntry{EntryID: uuid.NewString(), Reference: "JE-000021", IsPosted: true}
	accrual := &domain.SalaryPosting{Purpose: domain.SalaryAccrual, EntryID: uuid.NewString()}
	advance := domain.Advance{ID: 9, Amount: decimal.NewFromInt(500), RepaidAmount: decimal.Zero}

	suite.mockPayrollRepo.On("FindSalaryPosting", ctx, domain.AdvanceOwnerTeacher, teacher.ID, year, month, domain.SalaryPayment).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPayrollRepo.On("FindSalaryPosting", ctx, domain.AdvanceOwnerTeacher, teacher.ID, year, month, domain.SalaryAccrual).
		Return(accrual, nil).Once()
	suite.mockPayrollRepo.On("FindTeacherByID", ctx, teacher.ID).Return(teacher, nil).Once()
	suite.mockPayrollRepo.On("MonthlySessions", ctx, teacher.ID, year, month).Return(int64(40), nil).Once()
	suite.mockDocumentRepo.On("ListOutstandingAdvances", ctx, domain.AdvanceOwnerTeacher, teacher.ID, year, month).
		Return([]domain.Advance{advance}, nil).Twice()
	suite.mockAccountSvc.On("EnsureTeacherAccounts", ctx, teacher, userID).Return(salaryAcc, duesAcc, advanceAcc, nil).Once()
	suite.mockAccountSvc.On("EnsureCashAccount", ctx, domain.PayCash, userID).Return(cash, nil).Once()

	var input portssvc.NewEntryInput
	suite.mockJournalSvc.On("PostNew", ctx, mock.AnythingOfType("services.NewEntryInput"), userID).
		Run(func(args mock.Arguments) { input = args.Get(1).(portssvc.NewEntryInput) }).
		Return(postedEntry, nil).Once()
	suite.mockDocumentRepo.On("MarkAdvanceRepaid", ctx, advance.ID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(500))
	})).Return(nil).Once()
	suite.mockPayrollRepo.On("CreateSalaryPosting", ctx, mock.AnythingOfType("domain.SalaryPosting")).Return(nil).Once()

	entry, err := suite.service.PostTeacherSalaryPayment(ctx, teacher.ID, year, month, domain.PayCash, userID)

	suite.Require().NoError(err)
	suite.Equal(postedEntry, entry)

	// DR dues 4000 / CR cash 3500 / CR advances 500.
	suite.Require().Len(input.Lines, 3)
	suite.Equal(duesAcc.AccountID, input.Lines[0].AccountID)
	suite.Equal(domain.Debit, input.Lines[0].TransactionType)
	suite.True(decimal.NewFromInt(4000).Equal(input.Lines[0].Amount))
	suite.Equal(cash.AccountID, input.Lines[1].AccountID)
	suite.Equal(domain.Credit, input.Lines[1].TransactionType)
	suite.True(decimal.NewFromInt(3500).Equal(input.Lines[1].Amount))
	suite.Equal(advanceAcc.AccountID, input.Lines[2].AccountID)
	suite.Equal(domain.Credit, input.Lines[2].TransactionType)
	suite.True(decimal.NewFromInt(500).Equal(input.Lines[2].Amount))

	suite.mockPayrollRepo.AssertExpectations(suite.T())
	suite.mockDocumentRepo.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestPostEmployeeSalaryPayment_ManualAdvanceClamped() {
	ctx := context.Background()
	userID := uuid.NewString()
	employee := &domain.Employee{ID: 8, FullName: "Huda Nasser", Salary: decimal.NewFromInt(3000)}
	year, month := 2026, 3
	salaryAcc := testAccount("502-008", domain.Expense)
	advanceAcc := testAccount("1241-008", domain.Asset)
	cash := testAccount("121", domain.Asset)
	postedEntry := &domain.JournalEntry{EntryID: uuid.NewString(), Reference: "JE-000022", IsPosted: true}
	manual := decimal.NewFromInt(5000)

	req := dto.EmployeeSalaryPaymentRequest{Year: year, Month: month, ManualAdvance: &manual}

	suite.mockPayrollRepo.On("FindSalaryPosting", ctx, domain.AdvanceOwnerEmployee, employee.ID, year, time.Month(month), domain.SalaryPayment).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPayrollRepo.On("FindEmployeeByID", ctx, employee.ID).Return(employee, nil).Once()
	suite.mockAccountSvc.On("EnsureEmployeeAccounts", ctx, employee, userID).Return(salaryAcc, advanceAcc, nil).Once()
	suite.mockAccountSvc.On("EnsureCashAccount", ctx, domain.PayCash, userID).Return(cash, nil).Once()

	var input portssvc.NewEntryInput
	suite.mockJournalSvc.On("PostNew", ctx, mock.AnythingOfType("services.NewEntryInput"), userID).
		Run(func(args mock.Arguments) { input = args.Get(1).(portssvc.NewEntryInput) }).
		Return(postedEntry, nil).Once()
	suite.mockDocumentRepo.On("ListOutstandingAdvances", ctx, domain.AdvanceOwnerEmployee, employee.ID, year, time.Month(month)).
		Return([]domain.Advance{}, nil).Once()
	suite.mockPayrollRepo.On("CreateSalaryPosting", ctx, mock.AnythingOfType("domain.SalaryPosting")).Return(nil).Once()

	entry, err := suite.service.PostEmployeeSalaryPayment(ctx, employee.ID, req, userID)

	suite.Require().NoError(err)
	suite.Equal(postedEntry, entry)

	// Deduction clamps to the gross, so the cash leg disappears entirely.
	suite.Require().Len(input.Lines, 2)
	suite.Equal(salaryAcc.AccountID, input.Lines[0].AccountID)
	suite.Equal(domain.Debit, input.Lines[0].TransactionType)
	suite.True(decimal.NewFromInt(3000).Equal(input.Lines[0].Amount))
	suite.Equal(advanceAcc.AccountID, input.Lines[1].AccountID)
	suite.Equal(domain.Credit, input.Lines[1].TransactionType)
	suite.True(decimal.NewFromInt(3000).Equal(input.Lines[1].Amount))

	suite.mockPayrollRepo.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestPostEmployeeSalaryPayment_NegativeManualAdvance() {
	ctx := context.Background()
	employee := &domain.Employee{ID: 8, FullName: "Huda Nasser", Salary: decimal.NewFromInt(3000)}
	negative := decimal.NewFromInt(-1)
	req := dto.EmployeeSalaryPaymentRequest{Year: 2026, Month: 3, ManualAdvance: &negative}

	suite.mockPayrollRepo.On("FindSalaryPosting", ctx, domain.AdvanceOwnerEmployee, employee.ID, 2026, time.March, domain.SalaryPayment).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPayrollRepo.On("FindEmployeeByID", ctx, employee.ID).Return(employee, nil).Once()

	entry, err := suite.service.PostEmployeeSalaryPayment(ctx, employee.ID, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
}

func (suite *PayrollServiceTestSuite) TestRecordAttendance_UnknownTeacher() {
	ctx := context.Background()

	suite.mockPayrollRepo.On("FindTeacherByID", ctx, int64(99)).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.RecordAttendance(ctx, 99, dto.RecordAttendanceRequest{Date: time.Now(), Sessions: 2})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.mockPayrollRepo.AssertNotCalled(suite.T(), "RecordAttendance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPayrollServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PayrollServiceTestSuite))
}
