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

// PostingService drives the student revenue cycle and the expense/advance
// documents: each workflow assembles the double-entry legs for its business
// event and hands them to the posting engine. Document rows carry the entry
// reference back, which doubles as the idempotency guard.
type PostingService struct {
	schoolRepo   portsrepo.SchoolRepository
	documentRepo portsrepo.DocumentRepository
	payrollRepo  portsrepo.PayrollRepository
	sequenceRepo portsrepo.SequenceRepository
	accountSvc   portssvc.AccountSvcFacade
	journalSvc   portssvc.JournalSvcFacade
}

func NewPostingService(
	schoolRepo portsrepo.SchoolRepository,
	documentRepo portsrepo.DocumentRepository,
	payrollRepo portsrepo.PayrollRepository,
	sequenceRepo portsrepo.SequenceRepository,
	accountSvc portssvc.AccountSvcFacade,
	journalSvc portssvc.JournalSvcFacade,
) *PostingService {
	return &PostingService{
		schoolRepo:   schoolRepo,
		documentRepo: documentRepo,
		payrollRepo:  payrollRepo,
		sequenceRepo: sequenceRepo,
		accountSvc:   accountSvc,
		journalSvc:   journalSvc,
	}
}

func (s *PostingService) CreateStudent(ctx context.Context, req dto.CreateStudentRequest, userID string) (*domain.Student, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	student := domain.Student{
		StudentNo: req.StudentNo,
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := s.schoolRepo.SaveStudent(ctx, student)
	if err != nil {
		return nil, err
	}
	student.ID = id

	if _, err := s.accountSvc.EnsureStudentAR(ctx, &student, userID); err != nil {
		logger.Error("Failed to provision student AR account", slog.String("error", err.Error()), slog.Int64("student_id", id))
		return nil, err
	}

	logger.Info("Student registered", slog.Int64("student_id", id))
	return &student, nil
}

func (s *PostingService) GetStudentByID(ctx context.Context, id int64) (*domain.Student, error) {
	return s.schoolRepo.FindStudentByID(ctx, id)
}

func (s *PostingService) CreateCourse(ctx context.Context, req dto.CreateCourseRequest, userID string) (*domain.Course, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Price.IsPositive() {
		return nil, fmt.Errorf("%w: course price must be positive", apperrors.ErrInvalidAmount)
	}

	now := time.Now()
	course := domain.Course{
		Name:          req.Name,
		NameAr:        req.NameAr,
		Description:   req.Description,
		Price:         req.Price,
		DurationHours: req.DurationHours,
		CostCenterID:  req.CostCenterID,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	id, err := s.schoolRepo.SaveCourse(ctx, course)
	if err != nil {
		return nil, err
	}
	course.ID = id

	if _, _, err := s.accountSvc.EnsureCourseAccounts(ctx, &course, userID); err != nil {
		logger.Error("Failed to provision course accounts", slog.String("error", err.Error()), slog.Int64("course_id", id))
		return nil, err
	}

	logger.Info("Course opened", slog.Int64("course_id", id))
	return &course, nil
}

func (s *PostingService) GetCourseByID(ctx context.Context, id int64) (*domain.Course, error) {
	return s.schoolRepo.FindCourseByID(ctx, id)
}

func (s *PostingService) CreateAssignment(ctx context.Context, req dto.CreateAssignmentRequest, userID string) (*domain.CourseTeacherAssignment, error) {
	if _, err := s.schoolRepo.FindCourseByID(ctx, req.CourseID); err != nil {
		return nil, err
	}
	if _, err := s.payrollRepo.FindTeacherByID(ctx, req.TeacherID); err != nil {
		return nil, err
	}

	assignment := domain.CourseTeacherAssignment{
		CourseID:    req.CourseID,
		TeacherID:   req.TeacherID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		HourlyRate:  req.HourlyRate,
		MonthlyRate: req.MonthlyRate,
		TotalHours:  req.TotalHours,
		IsActive:    true,
		Notes:       req.Notes,
		CreatedAt:   time.Now(),
	}
	id, err := s.schoolRepo.SaveAssignment(ctx, assignment)
	if err != nil {
		return nil, err
	}
	assignment.ID = id
	return &assignment, nil
}

// CreateEnrollment registers the student in the course and posts the accrual
// entry: DR student AR / CR course deferred revenue for the net amount.
func (s *PostingService) CreateEnrollment(ctx context.Context, req dto.CreateEnrollmentRequest, userID string) (*domain.Enrollment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	student, err := s.schoolRepo.FindStudentByID(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	course, err := s.schoolRepo.FindCourseByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	if !course.IsActive {
		return nil, fmt.Errorf("%w: course %d is not active", apperrors.ErrValidation, course.ID)
	}

	totalAmount := req.TotalAmount
	if totalAmount.IsZero() {
		totalAmount = course.Price
	}
	enrollmentDate := req.EnrollmentDate
	if enrollmentDate.IsZero() {
		enrollmentDate = time.Now()
	}
	method := domain.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = domain.PayCash
	}

	now := time.Now()
	enrollment := domain.Enrollment{
		StudentID:       student.ID,
		CourseID:        course.ID,
		EnrollmentDate:  enrollmentDate,
		TotalAmount:     totalAmount,
		DiscountPercent: req.DiscountPercent,
		DiscountAmount:  req.DiscountAmount,
		PaymentMethod:   method,
		Notes:           req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	id, err := s.schoolRepo.SaveEnrollment(ctx, enrollment)
	if err != nil {
		return nil, err
	}
	enrollment.ID = id

	if enrollment.NetAmount().IsZero() {
		// Fully discounted enrollments have nothing to accrue.
		logger.Info("Enrollment registered with zero net amount, no accrual", slog.Int64("enrollment_id", id))
		return &enrollment, nil
	}

	entry, err := s.postAccrual(ctx, &enrollment, student, course, userID)
	if err != nil {
		logger.Error("Failed to post enrollment accrual", slog.String("error", err.Error()), slog.Int64("enrollment_id", id))
		return nil, err
	}

	logger.Info("Enrollment accrued", slog.Int64("enrollment_id", id), slog.String("entry_id", entry.EntryID))
	return &enrollment, nil
}

// postAccrual posts DR student AR / CR course deferred revenue for the net
// amount and links the entry to the enrollment.
func (s *PostingService) postAccrual(ctx context.Context, enrollment *domain.Enrollment, student *domain.Student, course *domain.Course, userID string) (*domain.JournalEntry, error) {
	net := enrollment.NetAmount()

	arAccount, err := s.accountSvc.EnsureStudentAR(ctx, student, userID)
	if err != nil {
		return nil, err
	}
	deferred, _, err := s.accountSvc.EnsureCourseAccounts(ctx, course, userID)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Enrollment: %s in %s", student.FullName, course.Name)
	entry, err := s.journalSvc.PostNew(ctx, portssvc.NewEntryInput{
		Date:        enrollment.EnrollmentDate,
		Description: description,
		EntryType:   domain.EntryEnrollment,
		Lines: []domain.Transaction{
			{AccountID: arAccount.AccountID, Amount: net, TransactionType: domain.Debit, Description: description, CostCenterID: course.CostCenterID},
			{AccountID: deferred.AccountID, Amount: net, TransactionType: domain.Credit, Description: description, CostCenterID: course.CostCenterID},
		},
	}, userID)
	if err != nil {
		return nil, err
	}

	if err := s.schoolRepo.SetEnrollmentAccrualEntry(ctx, enrollment.ID, entry.EntryID); err != nil {
		return nil, err
	}
	enrollment.AccrualEntryID = &entry.EntryID
	return entry, nil
}

// PostEnrollmentAccrual retries the accrual posting for an enrollment whose
// entry never reached the ledger, for example when the original call failed
// after the row was saved. Idempotent on the linked accrual entry.
func (s *PostingService) PostEnrollmentAccrual(ctx context.Context, enrollmentID int64, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	enrollment, err := s.schoolRepo.FindEnrollmentByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.AccrualEntryID != nil {
		return s.journalSvc.GetEntryByID(ctx, *enrollment.AccrualEntryID)
	}
	if enrollment.IsCompleted {
		return nil, fmt.Errorf("%w: enrollment %d is already closed", apperrors.ErrAlreadyPosted, enrollmentID)
	}
	if enrollment.NetAmount().IsZero() {
		return nil, fmt.Errorf("%w: enrollment %d has nothing to accrue", apperrors.ErrInvalidAmount, enrollmentID)
	}

	student, err := s.schoolRepo.FindStudentByID(ctx, enrollment.StudentID)
	if err != nil {
		return nil, err
	}
	course, err := s.schoolRepo.FindCourseByID(ctx, enrollment.CourseID)
	if err != nil {
		return nil, err
	}

	entry, err := s.postAccrual(ctx, enrollment, student, course, userID)
	if err != nil {
		return nil, err
	}
	logger.Info("Enrollment accrued", slog.Int64("enrollment_id", enrollmentID), slog.String("entry_id", entry.EntryID))
	return entry, nil
}

func (s *PostingService) GetEnrollmentByID(ctx context.Context, id int64) (*domain.Enrollment, error) {
	return s.schoolRepo.FindEnrollmentByID(ctx, id)
}

func (s *PostingService) GetEnrollmentBalance(ctx context.Context, id int64) (*dto.EnrollmentBalanceResponse, error) {
	enrollment, err := s.schoolRepo.FindEnrollmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	paid, err := s.schoolRepo.AmountPaid(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.EnrollmentBalanceResponse{
		EnrollmentID: id,
		NetAmount:    enrollment.NetAmount(),
		AmountPaid:   paid,
		BalanceDue:   enrollment.BalanceDue(paid),
	}, nil
}

// PostEnrollmentCompletion recognizes the deferred revenue: DR course deferred
// revenue / CR course revenue for the net amount. Idempotent on the
// enrollment's completion entry.
func (s *PostingService) PostEnrollmentCompletion(ctx context.Context, enrollmentID int64, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	enrollment, err := s.schoolRepo.FindEnrollmentByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.CompletionEntryID != nil {
		return s.journalSvc.GetEntryByID(ctx, *enrollment.CompletionEntryID)
	}
	if enrollment.IsCompleted {
		return nil, fmt.Errorf("%w: enrollment %d is already completed", apperrors.ErrAlreadyPosted, enrollmentID)
	}
	if enrollment.AccrualEntryID == nil {
		return nil, fmt.Errorf("%w: enrollment %d has no accrual entry", apperrors.ErrNotPosted, enrollmentID)
	}

	student, err := s.schoolRepo.FindStudentByID(ctx, enrollment.StudentID)
	if err != nil {
		return nil, err
	}
	course, err := s.schoolRepo.FindCourseByID(ctx, enrollment.CourseID)
	if err != nil {
		return nil, err
	}
	deferred, revenue, err := s.accountSvc.EnsureCourseAccounts(ctx, course, userID)
	if err != nil {
		return nil, err
	}

	net := enrollment.NetAmount()
	description := fmt.Sprintf("Course completion: %s in %s", student.FullName, course.Name)
	now := time.Now()
	entry, err := s.journalSvc.PostNew(ctx, portssvc.NewEntryInput{
		Date:        now,
		Description: description,
		EntryType:   domain.EntryCompletion,
		Lines: []domain.Transaction{
			{AccountID: deferred.AccountID, Amount: net, TransactionType: domain.Debit, Description: description, CostCenterID: course.CostCenterID},
			{AccountID: revenue.AccountID, Amount: net, TransactionType: domain.Credit, Description: description, CostCenterID: course.CostCenterID},
		},
	}, userID)
	if err != nil {
		return nil, err
	}

	if err := s.schoolRepo.SetEnrollmentCompletion(ctx, enrollmentID, entry.EntryID, now); err != nil {
		return nil, err
	}

	logger.Info("Enrollment completed", slog.Int64("enrollment_id", enrollmentID), slog.String("entry_id", entry.EntryID))
	return entry, nil
}

// PostWithdrawalRefund undoes the accrual through a reversing entry and, when
// money was collected, refunds it: DR student AR / CR cash. The enrollment is
// closed with the reversal entry as its terminal reference.
func (s *PostingService) PostWithdrawalRefund(ctx context.Context, enrollmentID int64, refund decimal.Decimal, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	enrollment, err := s.schoolRepo.FindEnrollmentByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.IsCompleted {
		return nil, fmt.Errorf("%w: enrollment %d is already closed", apperrors.ErrAlreadyPosted, enrollmentID)
	}
	if enrollment.AccrualEntryID == nil {
		return nil, fmt.Errorf("%w: enrollment %d has no accrual entry", apperrors.ErrNotPosted, enrollmentID)
	}
	if refund.IsNegative() {
		return nil, fmt.Errorf("%w: refund must not be negative", apperrors.ErrInvalidAmount)
	}

	student, err := s.schoolRepo.FindStudentByID(ctx, enrollment.StudentID)
	if err != nil {
		return nil, err
	}

	reversal, err := s.journalSvc.Reverse(ctx, *enrollment.AccrualEntryID,
		fmt.Sprintf("Withdrawal: enrollment %d of %s", enrollmentID, student.FullName), userID)
	if err != nil {
		return nil, err
	}

	if refund.IsPositive() {
		arAccount, err := s.accountSvc.EnsureStudentAR(ctx, student, userID)
		if err != nil {
			return nil, err
		}
		cash, err := s.accountSvc.EnsureCashAccount(ctx, enrollment.PaymentMethod, userID)
		if err != nil {
			return nil, err
		}
		course, err := s.schoolRepo.FindCourseByID(ctx, enrollment.CourseID)
		if err != nil {
			return nil, err
		}

		description := fmt.Sprintf("Withdrawal refund: enrollment %d of %s", enrollmentID, student.FullName)
		if _, err := s.journalSvc.PostNew(ctx, portssvc.NewEntryInput{
			Date:        time.Now(),
			Description: description,
			EntryType:   domain.EntryPayment,
			Lines: []domain.Transaction{
				{AccountID: arAccount.AccountID, Amount: refund, TransactionType: domain.Debit, Description: description, CostCenterID: course.CostCenterID},
				{AccountID: cash.AccountID, Amount: refund, TransactionType: domain.Credit, Description: description, CostCenterID: course.CostCenterID},
			},
		}, userID); err != nil {
			return nil, err
		}
	}

	if err := s.schoolRepo.SetEnrollmentCompletion(ctx, enrollmentID, reversal.EntryID, time.Now()); err != nil {
		return nil, err
	}

	logger.Info("Enrollment withdrawn", slog.Int64("enrollment_id", enrollmentID), slog.String("reversal_entry_id", reversal.EntryID))
	return reversal, nil
}

// CreateReceipt records a student payment and posts DR cash / CR student AR.
func (s *PostingService) CreateReceipt(ctx context.Context, req dto.CreateReceiptRequest, userID string) (*domain.Receipt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.PaidAmount.IsPositive() {
		return nil, fmt.Errorf("%w: paid amount must be positive", apperrors.ErrInvalidAmount)
	}
	student, err := s.schoolRepo.FindStudentByID(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}

	var costCenterID *int64
	if req.EnrollmentID != nil {
		enrollment, err := s.schoolRepo.FindEnrollmentByID(ctx, *req.EnrollmentID)
		if err != nil {
			return nil, err
		}
		if enrollment.StudentID != student.ID {
			return nil, fmt.Errorf("%w: enrollment %d does not belong to student %d", apperrors.ErrValidation, enrollment.ID, student.ID)
		}
		course, err := s.schoolRepo.FindCourseByID(ctx, enrollment.CourseID)
		if err != nil {
			return nil, err
		}
		costCenterID = course.CostCenterID
	}

	seq, err := s.sequenceRepo.NextValue(ctx, domain.SeqStudentReceipt)
	if err != nil {
		return nil, fmt.Errorf("allocating receipt number: %w", err)
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}
	method := domain.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = domain.PayCash
	}

	now := time.Now()
	receipt := domain.Receipt{
		ReceiptNumber: domain.FormatReference(domain.RefPrefixReceipt, seq),
		Date:          date,
		StudentID:     student.ID,
		EnrollmentID:  req.EnrollmentID,
		PaidAmount:    req.PaidAmount,
		PaymentMethod: method,
		Notes:         req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	id, err := s.documentRepo.SaveReceipt(ctx, receipt)
	if err != nil {
		return nil, err
	}
	receipt.ID = id

	entry, err := s.postReceipt(ctx, &receipt, student, costCenterID, userID)
	if err != nil {
		logger.Error("Failed to post receipt", slog.String("error", err.Error()), slog.String("receipt", receipt.ReceiptNumber))
		return nil, err
	}

	logger.Info("Receipt posted", slog.String("receipt", receipt.ReceiptNumber), slog.String("entry_id", entry.EntryID))
	return &receipt, nil
}

// postReceipt posts DR cash / CR student AR for the paid amount and links the
// entry to the receipt.
func (s *PostingService) postReceipt(ctx context.Context, receipt *domain.Receipt, student *domain.Student, costCenterID *int64, userID string) (*domain.JournalEntry, error) {
	cash, err := s.accountSvc.EnsureCashAccount(ctx, receipt.PaymentMethod, userID)
	if err != nil {
		return nil, err
	}
	arAccount, err := s.accountSvc.EnsureStudentAR(ctx, student, userID)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Receipt %s from %s", receipt.ReceiptNumber, student.FullName)
	entry, err := s.journalSvc.PostNew(ctx, portssvc.NewEntryInput{
		Date:        receipt.Date,
		Description: description,
		EntryType:   domain.EntryPayment,
		Lines: []domain.Transaction{
			{AccountID: cash.AccountID, Amount: receipt.PaidAmount, TransactionType: domain.Debit, Description: description, CostCenterID: costCenterID},
			{AccountID: arAccount.AccountID, Amount: receipt.PaidAmount, TransactionType: domain.Credit, Description: description, CostCenterID: costCenterID},
		},
	}, userID)
	if err != nil {
		return nil, err
	}

	if err := s.documentRepo.SetReceiptEntry(ctx, receipt.ID, entry.EntryID); err != nil {
		return nil, err
	}
	receipt.EntryID = &entry.EntryID
	return entry, nil
}

// PostReceipt retries the posting for a saved receipt. Idempotent on the
// linked entry.
func (s *PostingService) PostReceipt(ctx context.Context, receiptID int64, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	receipt, err := s.documentRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt.EntryID != nil {
		return s.journalSvc.GetEntryByID(ctx, *receipt.EntryID)
	}

	student, err := s.schoolRepo.FindStudentByID(ctx, receipt.StudentID)
	if err != nil {
		return nil, err
	}
	var costCenterID *int64
	if receipt.EnrollmentID != nil {
		enrollment, err := s.schoolRepo.FindEnrollmentByID(ctx, *receipt.EnrollmentID)
		if err != nil {
			return nil, err
		}
		course, err := s.schoolRepo.FindCourseByID(ctx, enrollment.CourseID)
		if err != nil {
			return nil, err
		}
		costCenterID = course.CostCenterID
	}

	entry, err := s.postReceipt(ctx, receipt, student, costCenterID, userID)
	if err != nil {
		return nil, err
	}
	logger.Info("Receipt posted", slog.String("receipt", receipt.ReceiptNumber), slog.String("entry_id", entry.EntryID))
	return entry, nil
}

func (s *PostingService) GetReceiptByID(ctx context.Context, id int64) (*domain.Receipt, error) {
	return s.documentRepo.FindReceiptByID(ctx, id)
}

// CreateExpense records an operating expense and posts DR expense / CR cash.
func (s *PostingService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, userID string) (*domain.ExpenseDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: expense amount must be positive", apperrors.ErrInvalidAmount)
	}
	account, err := s.accountSvc.GetAccountByID(ctx, req.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: expense account %s", apperrors.ErrMissingAccount, req.AccountID)
		}
		return nil, err
	}
	if account.AccountType != domain.Expense {
		return nil, fmt.Errorf("%w: account %s is not an expense account", apperrors.ErrValidation, account.Code)
	}

	seq, err := s.sequenceRepo.NextValue(ctx, domain.SeqExpense)
	if err != nil {
		return nil, fmt.Errorf("allocating expense reference: %w", err)
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}
	method := domain.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = domain.PayCash
	}

	now := time.Now()
	expense := domain.ExpenseDocument{
		Reference:     domain.FormatReference(domain.RefPrefixExpense, seq),
		Date:          date,
		Description:   req.Description,
		Amount:        req.Amount,
		AccountID:     account.AccountID,
		PaymentMethod: method,
		CostCenterID:  req.CostCenterID,
		Notes:         req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	id, err := s.documentRepo.SaveExpense(ctx, expense)
	if err != nil {
		return nil, err
	}
	expense.ID = id

	entry, err := s.postExpense(ctx, &expense, userID)
	if err != nil {
		logger.Error("Failed to post expense", slog.String("error", err.Error()), slog.String("reference", expense.Reference))
		return nil, err
	}

	logger.Info("Expense posted", slog.String("reference", expense.Reference), slog.String("entry_id", entry.EntryID))
	return &expense, nil
}

// postExpense posts DR expense account / CR cash and links the entry to the
// document.
func (s *PostingService) postExpense(ctx context.Context, expense *domain.ExpenseDocument, userID string) (*domain.JournalEntry, error) {
	cash, err := s.accountSvc.EnsureCashAccount(ctx, expense.PaymentMethod, userID)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Expense %s: %s", expense.Reference, expense.Description)
	entry, err := s.journalSvc.PostNew(ctx, portssvc.NewEntryInput{
		Date:        expense.Date,
		Description: description,
		EntryType:   domain.EntryExpense,
		Lines: []domain.Transaction{
			{AccountID: expense.AccountID, Amount: expense.Amount, TransactionType: domain.Debit, Description: description, CostCenterID: expense.CostCenterID},
			{AccountID: cash.AccountID, Amount: expense.Amount, TransactionType: domain.Credit, Description: description, CostCenterID: expense.CostCenterID},
		},
	}, userID)
	if err != nil {
		return nil, err
	}

	if err := s.documentRepo.SetExpenseEntry(ctx, expense.ID, entry.EntryID); err != nil {
		return nil, err
	}
	expense.EntryID = &entry.EntryID
	return entry, nil
}

// PostExpense retries the posting for a saved expense document. Idempotent on
// the linked entry.
func (s *PostingService) PostExpense(ctx context.Context, expenseID int64, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	expense, err := s.documentRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.EntryID != nil {
		return s.journalSvc.GetEntryByID(ctx, *expense.EntryID)
	}

	entry, err := s.postExpense(ctx, expense, userID)
	if err != nil {
		return nil, err
	}
	logger.Info("Expense posted", slog.String("reference", expense.Reference), slog.String("entry_id", entry.EntryID))
	return entry, nil
}

func (s *PostingService) GetExpenseByID(ctx context.Context, id int64) (*domain.ExpenseDocument, error) {
	return s.documentRepo.FindExpenseByID(ctx, id)
}

// CreateAdvance hands out a salary advance and posts DR owner advance
// account / CR cash.
func (s *PostingService) CreateAdvance(ctx context.Context, req dto.CreateAdvanceRequest, userID string) (*domain.Advance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: advance amount must be positive", apperrors.ErrInvalidAmount)
	}

	kind := domain.AdvanceOwnerKind(req.OwnerKind)
	advanceAccount, ownerName, err := s.resolveAdvanceOwner(ctx, kind, req.OwnerID, userID)
	if err != nil {
		return nil, err
	}

	seq, err := s.sequenceRepo.NextValue(ctx, domain.SeqAdvance)
	if err != nil {
		return nil, fmt.Errorf("allocating advance reference: %w", err)
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}
	method := domain.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = domain.PayCash
	}

	now := time.Now()
	advance := domain.Advance{
		Reference:     domain.FormatReference(domain.RefPrefixAdvance, seq),
		OwnerKind:     kind,
		OwnerID:       req.OwnerID,
		Date:          date,
		Amount:        req.Amount,
		Purpose:       req.Purpose,
		PaymentMethod: method,
		RepaidAmount:  decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	id, err := s.documentRepo.SaveAdvance(ctx, advance)
	if err != nil {
		return nil, err
	}
	advance.ID = id

	entry, err := s.postAdvance(ctx, &advance, advanceAccount, ownerName, userID)
	if err != nil {
		logger.Error("Failed to post advance", slog.String("error", err.Error()), slog.String("reference", advance.Reference))
		return nil, err
	}

	logger.Info("Advance posted", slog.String("reference", advance.Reference), slog.String("entry_id", entry.EntryID))
	return &advance, nil
}

// resolveAdvanceOwner looks up the advance owner and provisions its accounts,
// returning the owner-scoped advance account and display name.
func (s *PostingService) resolveAdvanceOwner(ctx context.Context, kind domain.AdvanceOwnerKind, ownerID int64, userID string) (*domain.Account, string, error) {
	switch kind {
	case domain.AdvanceOwnerTeacher:
		teacher, err := s.payrollRepo.FindTeacherByID(ctx, ownerID)
		if err != nil {
			return nil, "", err
		}
		_, _, account, err := s.accountSvc.EnsureTeacherAccounts(ctx, teacher, userID)
		if err != nil {
			return nil, "", err
		}
		return account, teacher.FullName, nil
	case domain.AdvanceOwnerEmployee:
		employee, err := s.payrollRepo.FindEmployeeByID(ctx, ownerID)
		if err != nil {
			return nil, "", err
		}
		_, account, err := s.accountSvc.EnsureEmployeeAccounts(ctx, employee, userID)
		if err != nil {
			return nil, "", err
		}
		return account, employee.FullName, nil
	default:
		return nil, "", fmt.Errorf("%w: unknown advance owner kind %q", apperrors.ErrValidation, kind)
	}
}

// postAdvance posts DR owner advance account / CR cash and links the entry to
// the advance.
func (s *PostingService) postAdvance(ctx context.Context, advance *domain.Advance, advanceAccount *domain.Account, ownerName, userID string) (*domain.JournalEntry, error) {
	cash, err := s.accountSvc.EnsureCashAccount(ctx, advance.PaymentMethod, userID)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Advance %s to %s", advance.Reference, ownerName)
	entry, err := s.journalSvc.PostNew(ctx, portssvc.NewEntryInput{
		Date:        advance.Date,
		Description: description,
		EntryType:   domain.EntryAdvance,
		Lines: []domain.Transaction{
			{AccountID: advanceAccount.AccountID, Amount: advance.Amount, TransactionType: domain.Debit, Description: description},
			{AccountID: cash.AccountID, Amount: advance.Amount, TransactionType: domain.Credit, Description: description},
		},
	}, userID)
	if err != nil {
		return nil, err
	}

	if err := s.documentRepo.SetAdvanceEntry(ctx, advance.ID, entry.EntryID); err != nil {
		return nil, err
	}
	advance.EntryID = &entry.EntryID
	return entry, nil
}

// PostAdvance retries the posting for a saved advance. Idempotent on the
// linked entry.
func (s *PostingService) PostAdvance(ctx context.Context, advanceID int64, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	advance, err := s.documentRepo.FindAdvanceByID(ctx, advanceID)
	if err != nil {
		return nil, err
	}
	if advance.EntryID != nil {
		return s.journalSvc.GetEntryByID(ctx, *advance.EntryID)
	}

	advanceAccount, ownerName, err := s.resolveAdvanceOwner(ctx, advance.OwnerKind, advance.OwnerID, userID)
	if err != nil {
		return nil, err
	}

	entry, err := s.postAdvance(ctx, advance, advanceAccount, ownerName, userID)
	if err != nil {
		return nil, err
	}
	logger.Info("Advance posted", slog.String("reference", advance.Reference), slog.String("entry_id", entry.EntryID))
	return entry, nil
}

func (s *PostingService) GetAdvanceByID(ctx context.Context, id int64) (*domain.Advance, error) {
	return s.documentRepo.FindAdvanceByID(ctx, id)
}
