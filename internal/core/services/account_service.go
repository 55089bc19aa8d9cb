package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alnahda/institute-ledger/internal/apperrors"
	"github.com/alnahda/institute-ledger/internal/core/domain"
	portsrepo "github.com/alnahda/institute-ledger/internal/core/ports/repositories"
	"github.com/alnahda/institute-ledger/internal/dto"
	"github.com/alnahda/institute-ledger/internal/middleware"
)

// AccountService manages the chart-of-accounts tree and derives balances
// from the posted transaction log.
type AccountService struct {
	accountRepo portsrepo.AccountRepository
}

func NewAccountService(repo portsrepo.AccountRepository) *AccountService {
	return &AccountService{accountRepo: repo}
}

func (s *AccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s", apperrors.ErrValidation, *req.ParentAccountID)
			}
			return nil, err
		}
		if parent.AccountType != req.AccountType {
			return nil, fmt.Errorf("%w: parent account type %s does not match %s", apperrors.ErrValidation, parent.AccountType, req.AccountType)
		}
		parentID = parent.AccountID
	}

	now := time.Now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            req.Code,
		Name:            req.Name,
		NameAr:          req.NameAr,
		AccountType:     req.AccountType,
		ParentAccountID: parentID,
		Description:     req.Description,
		IsActive:        true,
		Balance:         decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("code", account.Code))
		}
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

func (s *AccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.NameAr != nil {
		account.NameAr = *req.NameAr
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.SaveAccount(ctx, *account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	inactive := false
	_, err := s.UpdateAccount(ctx, accountID, dto.UpdateAccountRequest{IsActive: &inactive}, userID)
	return err
}

func (s *AccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

func (s *AccountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, code)
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

// EnsureAccount creates the account described by spec if it does not exist.
// Concurrent callers racing on the same code converge on the winner's row.
func (s *AccountService) EnsureAccount(ctx context.Context, spec domain.AccountSpec, userID string) (*domain.Account, error) {
	existing, err := s.accountRepo.FindAccountByCode(ctx, spec.Code)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	parentID := (*string)(nil)
	if spec.ParentCode != "" {
		parent, err := s.accountRepo.FindAccountByCode(ctx, spec.ParentCode)
		if err != nil {
			return nil, fmt.Errorf("resolving parent %s for %s: %w", spec.ParentCode, spec.Code, err)
		}
		parentID = &parent.AccountID
	}

	req := dto.CreateAccountRequest{
		Code:            spec.Code,
		Name:            spec.Name,
		NameAr:          spec.NameAr,
		AccountType:     spec.AccountType,
		ParentAccountID: parentID,
	}
	account, err := s.CreateAccount(ctx, req, userID)
	if errors.Is(err, apperrors.ErrDuplicate) {
		// Lost the race; the row exists now.
		return s.accountRepo.FindAccountByCode(ctx, spec.Code)
	}
	return account, err
}

// ensureOwned materializes the shared parent for a purpose, then the
// owner-scoped child under it.
func (s *AccountService) ensureOwned(ctx context.Context, purpose domain.AccountPurpose, ownerID int64, ownerLabel, userID string) (*domain.Account, error) {
	if _, err := s.EnsureAccount(ctx, domain.WellKnownParent(purpose), userID); err != nil {
		return nil, err
	}
	return s.EnsureAccount(ctx, domain.WellKnownAccount(purpose, ownerID, ownerLabel), userID)
}

// EnsureStudentAR provisions the student's receivable account (1251-NNN).
func (s *AccountService) EnsureStudentAR(ctx context.Context, student *domain.Student, userID string) (*domain.Account, error) {
	return s.ensureOwned(ctx, domain.PurposeStudentAR, student.ID, student.FullName, userID)
}

// EnsureCourseAccounts provisions the course's deferred revenue (21-NNN) and
// recognized revenue (4101-NNN) accounts.
func (s *AccountService) EnsureCourseAccounts(ctx context.Context, course *domain.Course, userID string) (deferred, revenue *domain.Account, err error) {
	deferred, err = s.ensureOwned(ctx, domain.PurposeCourseDeferred, course.ID, course.Name, userID)
	if err != nil {
		return nil, nil, err
	}
	revenue, err = s.ensureOwned(ctx, domain.PurposeCourseRevenue, course.ID, course.Name, userID)
	if err != nil {
		return nil, nil, err
	}
	return deferred, revenue, nil
}

// EnsureTeacherAccounts provisions the teacher's salary expense (501-NNN),
// dues liability (22-NNN) and advance asset (1242-NNN) accounts.
func (s *AccountService) EnsureTeacherAccounts(ctx context.Context, teacher *domain.Teacher, userID string) (salary, dues, advance *domain.Account, err error) {
	salary, err = s.ensureOwned(ctx, domain.PurposeTeacherSalary, teacher.ID, teacher.FullName, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	dues, err = s.ensureOwned(ctx, domain.PurposeTeacherDues, teacher.ID, teacher.FullName, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	advance, err = s.ensureOwned(ctx, domain.PurposeTeacherAdvance, teacher.ID, teacher.FullName, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	return salary, dues, advance, nil
}

// EnsureEmployeeAccounts provisions the employee's salary expense (502-NNN)
// and advance asset (1241-NNN) accounts.
func (s *AccountService) EnsureEmployeeAccounts(ctx context.Context, employee *domain.Employee, userID string) (salary, advance *domain.Account, err error) {
	salary, err = s.ensureOwned(ctx, domain.PurposeEmployeeSalary, employee.ID, employee.FullName, userID)
	if err != nil {
		return nil, nil, err
	}
	advance, err = s.ensureOwned(ctx, domain.PurposeEmployeeAdvance, employee.ID, employee.FullName, userID)
	if err != nil {
		return nil, nil, err
	}
	return salary, advance, nil
}

// EnsureCashAccount resolves the cash or bank account for a payment method.
func (s *AccountService) EnsureCashAccount(ctx context.Context, method domain.PaymentMethod, userID string) (*domain.Account, error) {
	return s.EnsureAccount(ctx, domain.WellKnownParent(method.CashPurpose()), userID)
}

// NetBalance recomputes one account's own balance from its posted legs,
// applying the sign convention for its type.
func (s *AccountService) NetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	debit, credit, err := s.accountRepo.DebitCreditTotals(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.NetBalanceFromTotals(debit, credit), nil
}

// RollupBalance returns the account's net balance including every descendant.
// A visited set guards against parent cycles in corrupted data.
func (s *AccountService) RollupBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	visited := make(map[string]struct{})
	return s.rollup(ctx, accountID, visited)
}

func (s *AccountService) rollup(ctx context.Context, accountID string, visited map[string]struct{}) (decimal.Decimal, error) {
	if _, seen := visited[accountID]; seen {
		return decimal.Zero, nil
	}
	visited[accountID] = struct{}{}

	total, err := s.NetBalance(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	children, err := s.accountRepo.FindChildren(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	for _, child := range children {
		childTotal, err := s.rollup(ctx, child.AccountID, visited)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(childTotal)
	}
	return total, nil
}

// RecalculateTree refreshes the cached balance of the account and every
// descendant, children before parents.
func (s *AccountService) RecalculateTree(ctx context.Context, accountID string) error {
	visited := make(map[string]struct{})
	return s.recalc(ctx, accountID, visited)
}

func (s *AccountService) recalc(ctx context.Context, accountID string, visited map[string]struct{}) error {
	if _, seen := visited[accountID]; seen {
		return nil
	}
	visited[accountID] = struct{}{}

	children, err := s.accountRepo.FindChildren(ctx, accountID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := s.recalc(ctx, child.AccountID, visited); err != nil {
			return err
		}
	}
	_, err = s.accountRepo.RefreshAccountBalance(ctx, accountID)
	return err
}

// RebuildAllBalances recomputes every cached balance from the posted log.
func (s *AccountService) RebuildAllBalances(ctx context.Context) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.accountRepo.RefreshAllBalances(ctx); err != nil {
		logger.Error("Failed to rebuild account balances", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Rebuilt all account balances")
	return nil
}
