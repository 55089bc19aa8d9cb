package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/alnahda/institute-ledger/internal/core/domain"
	portssvc "github.com/alnahda/institute-ledger/internal/core/ports/services"
	"github.com/alnahda/institute-ledger/internal/dto"
)

// MockSequenceRepository is a mock type for the SequenceRepository interface
type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) NextValue(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

// MockAccountRepository is a mock type for the AccountRepository interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindChildren(ctx context.Context, accountID string) ([]domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) DebitCreditTotals(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockAccountRepository) RefreshAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) RefreshAllBalances(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockJournalRepository is a mock type for the JournalRepository interface
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, transactions []domain.Transaction) error {
	args := m.Called(ctx, entry, transactions)
	return args.Error(0)
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindTransactionsByEntryID(ctx context.Context, entryID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, limit, offset int) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockJournalRepository) MarkPosted(ctx context.Context, entryID string, postedBy string, postedAt time.Time) error {
	args := m.Called(ctx, entryID, postedBy, postedAt)
	return args.Error(0)
}

// MockCostCenterRepository is a mock type for the CostCenterRepository interface
type MockCostCenterRepository struct {
	mock.Mock
}

func (m *MockCostCenterRepository) SaveCostCenter(ctx context.Context, cc domain.CostCenter) (int64, error) {
	args := m.Called(ctx, cc)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCostCenterRepository) FindCostCenterByID(ctx context.Context, id int64) (*domain.CostCenter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CostCenter), args.Error(1)
}

func (m *MockCostCenterRepository) ListCostCenters(ctx context.Context) ([]domain.CostCenter, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CostCenter), args.Error(1)
}

func (m *MockCostCenterRepository) ExpenseDebitTotal(ctx context.Context, costCenterID int64, from, to *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, costCenterID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockCostCenterRepository) CashTotals(ctx context.Context, costCenterID int64, from, to *time.Time, accountCodes []string) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, costCenterID, from, to, accountCodes)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockCostCenterRepository) NetBefore(ctx context.Context, costCenterID int64, before time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, costCenterID, before)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockSchoolRepository is a mock type for the SchoolRepository interface
type MockSchoolRepository struct {
	mock.Mock
}

func (m *MockSchoolRepository) SaveStudent(ctx context.Context, s domain.Student) (int64, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSchoolRepository) FindStudentByID(ctx context.Context, id int64) (*domain.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockSchoolRepository) SaveCourse(ctx context.Context, c domain.Course) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSchoolRepository) FindCourseByID(ctx context.Context, id int64) (*domain.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}

func (m *MockSchoolRepository) ListActiveCoursesByCostCenter(ctx context.Context, costCenterID int64) ([]domain.Course, error) {
	args := m.Called(ctx, costCenterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Course), args.Error(1)
}

func (m *MockSchoolRepository) SaveAssignment(ctx context.Context, a domain.CourseTeacherAssignment) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSchoolRepository) ListActiveAssignments(ctx context.Context, courseIDs []int64, from, to *time.Time) ([]domain.CourseTeacherAssignment, error) {
	args := m.Called(ctx, courseIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CourseTeacherAssignment), args.Error(1)
}

func (m *MockSchoolRepository) SaveEnrollment(ctx context.Context, e domain.Enrollment) (int64, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSchoolRepository) FindEnrollmentByID(ctx context.Context, id int64) (*domain.Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Enrollment), args.Error(1)
}

func (m *MockSchoolRepository) SetEnrollmentAccrualEntry(ctx context.Context, enrollmentID int64, entryID string) error {
	args := m.Called(ctx, enrollmentID, entryID)
	return args.Error(0)
}

func (m *MockSchoolRepository) SetEnrollmentCompletion(ctx context.Context, enrollmentID int64, entryID string, completedAt time.Time) error {
	args := m.Called(ctx, enrollmentID, entryID, completedAt)
	return args.Error(0)
}

func (m *MockSchoolRepository) AmountPaid(ctx context.Context, enrollmentID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, enrollmentID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSchoolRepository) EnrollmentTotal(ctx context.Context, courseID int64, from, to *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, courseID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockDocumentRepository is a mock type for the DocumentRepository interface
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) SaveReceipt(ctx context.Context, r domain.Receipt) (int64, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) FindReceiptByID(ctx context.Context, id int64) (*domain.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockDocumentRepository) SetReceiptEntry(ctx context.Context, receiptID int64, entryID string) error {
	args := m.Called(ctx, receiptID, entryID)
	return args.Error(0)
}

func (m *MockDocumentRepository) SaveExpense(ctx context.Context, e domain.ExpenseDocument) (int64, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) FindExpenseByID(ctx context.Context, id int64) (*domain.ExpenseDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExpenseDocument), args.Error(1)
}

func (m *MockDocumentRepository) SetExpenseEntry(ctx context.Context, expenseID int64, entryID string) error {
	args := m.Called(ctx, expenseID, entryID)
	return args.Error(0)
}

func (m *MockDocumentRepository) SaveAdvance(ctx context.Context, a domain.Advance) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) FindAdvanceByID(ctx context.Context, id int64) (*domain.Advance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Advance), args.Error(1)
}

func (m *MockDocumentRepository) SetAdvanceEntry(ctx context.Context, advanceID int64, entryID string) error {
	args := m.Called(ctx, advanceID, entryID)
	return args.Error(0)
}

func (m *MockDocumentRepository) ListOutstandingAdvances(ctx context.Context, kind domain.AdvanceOwnerKind, ownerID int64, year int, month time.Month) ([]domain.Advance, error) {
	args := m.Called(ctx, kind, ownerID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Advance), args.Error(1)
}

func (m *MockDocumentRepository) MarkAdvanceRepaid(ctx context.Context, advanceID int64, repaidAmount decimal.Decimal) error {
	args := m.Called(ctx, advanceID, repaidAmount)
	return args.Error(0)
}

// MockPayrollRepository is a mock type for the PayrollRepository interface
type MockPayrollRepository struct {
	mock.Mock
}

func (m *MockPayrollRepository) SaveTeacher(ctx context.Context, t domain.Teacher) (int64, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayrollRepository) FindTeacherByID(ctx context.Context, id int64) (*domain.Teacher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Teacher), args.Error(1)
}

func (m *MockPayrollRepository) SaveEmployee(ctx context.Context, e domain.Employee) (int64, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayrollRepository) FindEmployeeByID(ctx context.Context, id int64) (*domain.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockPayrollRepository) MonthlySessions(ctx context.Context, teacherID int64, year int, month time.Month) (int64, error) {
	args := m.Called(ctx, teacherID, year, month)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayrollRepository) RecordAttendance(ctx context.Context, teacherID int64, date time.Time, sessions int64) error {
	args := m.Called(ctx, teacherID, date, sessions)
	return args.Error(0)
}

func (m *MockPayrollRepository) FindSalaryPosting(ctx context.Context, kind domain.AdvanceOwnerKind, ownerID int64, year int, month time.Month, purpose domain.SalaryPostingPurpose) (*domain.SalaryPosting, error) {
	args := m.Called(ctx, kind, ownerID, year, month, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalaryPosting), args.Error(1)
}

func (m *MockPayrollRepository) CreateSalaryPosting(ctx context.Context, sp domain.SalaryPosting) error {
	args := m.Called(ctx, sp)
	return args.Error(0)
}

// MockUserRepository is a mock type for the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, u domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockAccountService is a mock type for the AccountSvcFacade interface, used
// by the workflow services that provision and resolve ledger accounts.
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID string, requestingUserID string) error {
	args := m.Called(ctx, accountID, requestingUserID)
	return args.Error(0)
}

func (m *MockAccountService) EnsureAccount(ctx context.Context, spec domain.AccountSpec, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, spec, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) EnsureStudentAR(ctx context.Context, student *domain.Student, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, student, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) EnsureCourseAccounts(ctx context.Context, course *domain.Course, creatorUserID string) (*domain.Account, *domain.Account, error) {
	args := m.Called(ctx, course, creatorUserID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Account), args.Get(1).(*domain.Account), args.Error(2)
}

func (m *MockAccountService) EnsureTeacherAccounts(ctx context.Context, teacher *domain.Teacher, creatorUserID string) (*domain.Account, *domain.Account, *domain.Account, error) {
	args := m.Called(ctx, teacher, creatorUserID)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).(*domain.Account), args.Get(1).(*domain.Account), args.Get(2).(*domain.Account), args.Error(3)
}

func (m *MockAccountService) EnsureEmployeeAccounts(ctx context.Context, employee *domain.Employee, creatorUserID string) (*domain.Account, *domain.Account, error) {
	args := m.Called(ctx, employee, creatorUserID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Account), args.Get(1).(*domain.Account), args.Error(2)
}

func (m *MockAccountService) EnsureCashAccount(ctx context.Context, method domain.PaymentMethod, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, method, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) NetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountService) RollupBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountService) RecalculateTree(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountService) RebuildAllBalances(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockJournalService is a mock type for the JournalSvcFacade interface, used
// by the workflow services that post through the journal engine.
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

func (m *MockJournalService) ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListEntriesParams) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockJournalService) CreateDraft(ctx context.Context, input portssvc.NewEntryInput, creatorUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, input, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) Post(ctx context.Context, entryID string, postingUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, postingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) PostNew(ctx context.Context, input portssvc.NewEntryInput, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, input, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) Reverse(ctx context.Context, entryID string, description string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, description, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
