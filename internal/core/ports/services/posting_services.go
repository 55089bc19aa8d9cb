package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/alnahda/institute-ledger/internal/core/domain"
	"github.com/alnahda/institute-ledger/internal/dto"
)

// SchoolSvc manages students, courses and teacher assignments.
type SchoolSvc interface {
	CreateStudent(ctx context.Context, req dto.CreateStudentRequest, creatorUserID string) (*domain.Student, error)
	GetStudentByID(ctx context.Context, id int64) (*domain.Student, error)

	CreateCourse(ctx context.Context, req dto.CreateCourseRequest, creatorUserID string) (*domain.Course, error)
	GetCourseByID(ctx context.Context, id int64) (*domain.Course, error)

	CreateAssignment(ctx context.Context, req dto.CreateAssignmentRequest, creatorUserID string) (*domain.CourseTeacherAssignment, error)
}

// EnrollmentSvc drives the student revenue cycle: accrue at enrollment,
// collect through receipts, recognize at completion, refund on withdrawal.
// Every Post* operation is idempotent on the document's entry reference.
type EnrollmentSvc interface {
	// CreateEnrollment persists the enrollment and posts its accrual entry
	// (DR student AR / CR course deferred revenue for the net amount).
	CreateEnrollment(ctx context.Context, req dto.CreateEnrollmentRequest, creatorUserID string) (*domain.Enrollment, error)
	GetEnrollmentByID(ctx context.Context, id int64) (*domain.Enrollment, error)
	GetEnrollmentBalance(ctx context.Context, id int64) (*dto.EnrollmentBalanceResponse, error)

	// PostEnrollmentAccrual re-runs the accrual posting for an enrollment
	// whose entry never reached the ledger; returns the linked entry when one
	// already exists.
	PostEnrollmentAccrual(ctx context.Context, enrollmentID int64, userID string) (*domain.JournalEntry, error)

	// PostEnrollmentCompletion moves the net amount from deferred to
	// recognized revenue and marks the enrollment completed.
	PostEnrollmentCompletion(ctx context.Context, enrollmentID int64, userID string) (*domain.JournalEntry, error)

	// PostWithdrawalRefund reverses the accrual entry and refunds collected
	// money (DR deferred revenue legs mirrored, CR cash for the paid amount).
	PostWithdrawalRefund(ctx context.Context, enrollmentID int64, refund decimal.Decimal, userID string) (*domain.JournalEntry, error)
}

// ReceiptSvc records student payments and posts them against AR.
type ReceiptSvc interface {
	// CreateReceipt persists the receipt with a sequence-generated number and
	// posts DR cash / CR student AR.
	CreateReceipt(ctx context.Context, req dto.CreateReceiptRequest, creatorUserID string) (*domain.Receipt, error)
	GetReceiptByID(ctx context.Context, id int64) (*domain.Receipt, error)

	// PostReceipt retries the posting for a saved receipt; returns the linked
	// entry when one already exists.
	PostReceipt(ctx context.Context, receiptID int64, userID string) (*domain.JournalEntry, error)
}

// ExpenseSvc records operating expenses.
type ExpenseSvc interface {
	// CreateExpense persists the document and posts DR expense account /
	// CR cash, tagging legs with the document's cost center.
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, creatorUserID string) (*domain.ExpenseDocument, error)
	GetExpenseByID(ctx context.Context, id int64) (*domain.ExpenseDocument, error)

	// PostExpense retries the posting for a saved expense document; returns
	// the linked entry when one already exists.
	PostExpense(ctx context.Context, expenseID int64, userID string) (*domain.JournalEntry, error)
}

// AdvanceSvc hands out and tracks salary advances.
type AdvanceSvc interface {
	// CreateAdvance persists the advance and posts DR owner advance account /
	// CR cash.
	CreateAdvance(ctx context.Context, req dto.CreateAdvanceRequest, creatorUserID string) (*domain.Advance, error)
	GetAdvanceByID(ctx context.Context, id int64) (*domain.Advance, error)

	// PostAdvance retries the posting for a saved advance; returns the linked
	// entry when one already exists.
	PostAdvance(ctx context.Context, advanceID int64, userID string) (*domain.JournalEntry, error)
}

// PostingSvcFacade combines the domain posting workflows.
type PostingSvcFacade interface {
	SchoolSvc
	EnrollmentSvc
	ReceiptSvc
	ExpenseSvc
	AdvanceSvc
}
