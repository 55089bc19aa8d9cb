package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/alnahda/institute-ledger/internal/core/domain"
	"github.com/alnahda/institute-ledger/internal/dto"
)

// AccountReaderSvc defines read operations over the chart of accounts.
type AccountReaderSvc interface {
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations over the chart of accounts.
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, accountID string, requestingUserID string) error

	// EnsureAccount creates the account described by the spec if it does not
	// exist yet, materializing its well-known parent first. Safe to call
	// repeatedly; concurrent callers converge on one row.
	EnsureAccount(ctx context.Context, spec domain.AccountSpec, creatorUserID string) (*domain.Account, error)

	// Owner-scoped account provisioning, invoked by the domain workflows.
	EnsureStudentAR(ctx context.Context, student *domain.Student, creatorUserID string) (*domain.Account, error)
	EnsureCourseAccounts(ctx context.Context, course *domain.Course, creatorUserID string) (deferred, revenue *domain.Account, err error)
	EnsureTeacherAccounts(ctx context.Context, teacher *domain.Teacher, creatorUserID string) (salary, dues, advance *domain.Account, err error)
	EnsureEmployeeAccounts(ctx context.Context, employee *domain.Employee, creatorUserID string) (salary, advance *domain.Account, err error)
	EnsureCashAccount(ctx context.Context, method domain.PaymentMethod, creatorUserID string) (*domain.Account, error)
}

// BalanceCalculatorSvc defines balance derivation over the posted ledger.
type BalanceCalculatorSvc interface {
	// NetBalance recomputes one account's own balance from its posted legs.
	NetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	// RollupBalance returns the account's balance including all descendants.
	RollupBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	// RecalculateTree refreshes the cached balance of the account and every
	// descendant, children before parents.
	RecalculateTree(ctx context.Context, accountID string) error
	// RebuildAllBalances is the administrative repair pass for the whole chart.
	RebuildAllBalances(ctx context.Context) error
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	BalanceCalculatorSvc
}
