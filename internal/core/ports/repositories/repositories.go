// Package repositories defines the persistence ports the core services
// depend on. Implementations live under internal/repositories/database.
package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alnahda/institute-ledger/internal/core/domain"
)

// RepositoryProvider bundles every repository the services are wired with.
type RepositoryProvider struct {
	SequenceRepo   SequenceRepository
	AccountRepo    AccountRepository
	JournalRepo    JournalRepository
	CostCenterRepo CostCenterRepository
	SchoolRepo     SchoolRepository
	DocumentRepo   DocumentRepository
	PayrollRepo    PayrollRepository
	UserRepo       UserRepository
}

// SequenceRepository hands out process-wide monotonic counters per document
// type. NextValue must be atomic under concurrent callers for the same key.
type SequenceRepository interface {
	NextValue(ctx context.Context, key string) (int64, error)
}

// AccountRepository persists the chart of accounts and answers the
// transaction-log aggregations the balance calculator is built on.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	FindChildren(ctx context.Context, accountID string) ([]domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// DebitCreditTotals aggregates posted transaction amounts for one account.
	DebitCreditTotals(ctx context.Context, accountID string) (debit, credit decimal.Decimal, err error)
	// RefreshAccountBalance recomputes and persists the cached net balance
	// from the posted transaction log in a single atomic statement, returning
	// the new value.
	RefreshAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	// RefreshAllBalances is the administrative repair pass over every account.
	RefreshAllBalances(ctx context.Context) error
}

// JournalRepository persists journal entries and their transaction legs.
// SaveEntry writes the entry and all legs in one database transaction.
type JournalRepository interface {
	SaveEntry(ctx context.Context, entry domain.JournalEntry, transactions []domain.Transaction) error
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	FindTransactionsByEntryID(ctx context.Context, entryID string) ([]domain.Transaction, error)
	ListEntries(ctx context.Context, limit, offset int) ([]domain.JournalEntry, error)
	ListTransactionsByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error)
	// MarkPosted flips the posted flag exactly once; posting an entry that is
	// already posted must not be observable through this method (the service
	// guards first, the repository keeps the flag write idempotent).
	MarkPosted(ctx context.Context, entryID string, postedBy string, postedAt time.Time) error
}

// CostCenterRepository persists cost centers and runs the windowed
// aggregations behind the departmental summary. Date bounds are inclusive;
// nil means unbounded.
type CostCenterRepository interface {
	SaveCostCenter(ctx context.Context, cc domain.CostCenter) (int64, error)
	FindCostCenterByID(ctx context.Context, id int64) (*domain.CostCenter, error)
	ListCostCenters(ctx context.Context) ([]domain.CostCenter, error)

	// ExpenseDebitTotal sums posted debit transactions tagged to the cost
	// center that hit EXPENSE accounts.
	ExpenseDebitTotal(ctx context.Context, costCenterID int64, from, to *time.Time) (decimal.Decimal, error)
	// CashTotals sums posted debit (inflow) and credit (outflow) transactions
	// tagged to the cost center, restricted to the cash-like account codes.
	CashTotals(ctx context.Context, costCenterID int64, from, to *time.Time, accountCodes []string) (inflow, outflow decimal.Decimal, err error)
	// NetBefore returns debit minus credit over all of the cost center's
	// posted transactions strictly before the given date.
	NetBefore(ctx context.Context, costCenterID int64, before time.Time) (decimal.Decimal, error)
}

// SchoolRepository persists students, courses, assignments and enrollments.
type SchoolRepository interface {
	SaveStudent(ctx context.Context, s domain.Student) (int64, error)
	FindStudentByID(ctx context.Context, id int64) (*domain.Student, error)

	SaveCourse(ctx context.Context, c domain.Course) (int64, error)
	FindCourseByID(ctx context.Context, id int64) (*domain.Course, error)
	ListActiveCoursesByCostCenter(ctx context.Context, costCenterID int64) ([]domain.Course, error)

	SaveAssignment(ctx context.Context, a domain.CourseTeacherAssignment) (int64, error)
	// ListActiveAssignments returns active assignments on the given courses
	// whose start date falls inside the window.
	ListActiveAssignments(ctx context.Context, courseIDs []int64, from, to *time.Time) ([]domain.CourseTeacherAssignment, error)

	SaveEnrollment(ctx context.Context, e domain.Enrollment) (int64, error)
	FindEnrollmentByID(ctx context.Context, id int64) (*domain.Enrollment, error)
	SetEnrollmentAccrualEntry(ctx context.Context, enrollmentID int64, entryID string) error
	SetEnrollmentCompletion(ctx context.Context, enrollmentID int64, entryID string, completedAt time.Time) error
	// AmountPaid sums receipt paid amounts against the enrollment.
	AmountPaid(ctx context.Context, enrollmentID int64) (decimal.Decimal, error)
	// EnrollmentTotal sums enrollment total amounts for a course with
	// enrollment_date inside the window.
	EnrollmentTotal(ctx context.Context, courseID int64, from, to *time.Time) (decimal.Decimal, error)
}

// DocumentRepository persists receipts and expense documents.
type DocumentRepository interface {
	SaveReceipt(ctx context.Context, r domain.Receipt) (int64, error)
	FindReceiptByID(ctx context.Context, id int64) (*domain.Receipt, error)
	SetReceiptEntry(ctx context.Context, receiptID int64, entryID string) error

	SaveExpense(ctx context.Context, e domain.ExpenseDocument) (int64, error)
	FindExpenseByID(ctx context.Context, id int64) (*domain.ExpenseDocument, error)
	SetExpenseEntry(ctx context.Context, expenseID int64, entryID string) error

	SaveAdvance(ctx context.Context, a domain.Advance) (int64, error)
	FindAdvanceByID(ctx context.Context, id int64) (*domain.Advance, error)
	SetAdvanceEntry(ctx context.Context, advanceID int64, entryID string) error
	// ListOutstandingAdvances returns unrepaid advances for the owner taken in
	// the given month.
	ListOutstandingAdvances(ctx context.Context, kind domain.AdvanceOwnerKind, ownerID int64, year int, month time.Month) ([]domain.Advance, error)
	MarkAdvanceRepaid(ctx context.Context, advanceID int64, repaidAmount decimal.Decimal) error
}

// PayrollRepository persists teachers, employees, attendance-derived session
// counts, advances, and the salary-posting dedup rows.
type PayrollRepository interface {
	SaveTeacher(ctx context.Context, t domain.Teacher) (int64, error)
	FindTeacherByID(ctx context.Context, id int64) (*domain.Teacher, error)
	SaveEmployee(ctx context.Context, e domain.Employee) (int64, error)
	FindEmployeeByID(ctx context.Context, id int64) (*domain.Employee, error)

	// MonthlySessions counts recorded present sessions for a teacher in a month.
	MonthlySessions(ctx context.Context, teacherID int64, year int, month time.Month) (int64, error)
	RecordAttendance(ctx context.Context, teacherID int64, date time.Time, sessions int64) error

	FindSalaryPosting(ctx context.Context, kind domain.AdvanceOwnerKind, ownerID int64, year int, month time.Month, purpose domain.SalaryPostingPurpose) (*domain.SalaryPosting, error)
	CreateSalaryPosting(ctx context.Context, sp domain.SalaryPosting) error
}

// UserRepository persists authenticated actors.
type UserRepository interface {
	SaveUser(ctx context.Context, u domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
