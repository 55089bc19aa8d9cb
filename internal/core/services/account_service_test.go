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
	"github.com/alnahda/institute-ledger/internal/core/services"
	"github.com/alnahda/institute-ledger/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  *services.AccountService
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Code:        "121",
		Name:        "Cash",
		AccountType: domain.Asset,
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	createdAccount, err := suite.service.CreateAccount(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(createdAccount)
	suite.NotEmpty(createdAccount.AccountID)
	suite.Equal(req.Code, createdAccount.Code)
	suite.Equal(req.AccountType, createdAccount.AccountType)
	suite.True(createdAccount.IsActive)
	suite.True(createdAccount.Balance.IsZero())
	suite.Equal(creatorUserID, createdAccount.CreatedBy)
	suite.Equal(creatorUserID, createdAccount.LastUpdatedBy)
	suite.WithinDuration(time.Now(), createdAccount.CreatedAt, time.Second)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentTypeMismatch() {
	ctx := context.Background()
	parentID := uuid.NewString()
	parent := &domain.Account{
		AccountID:   parentID,
		Code:        "1251",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	req := dto.CreateAccountRequest{
		Code:            "1251-001",
		Name:            "AR - Someone",
		AccountType:     domain.Revenue, // does not match the ASSET parent
		ParentAccountID: &parentID,
	}

	suite.mockRepo.On("FindAccountByID", ctx, parentID).Return(parent, nil).Once()

	createdAccount, err := suite.service.CreateAccount(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(createdAccount)
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentNotFound() {
	ctx := context.Background()
	parentID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Code:            "22-001",
		Name:            "Teacher Dues - Someone",
		AccountType:     domain.Liability,
		ParentAccountID: &parentID,
	}

	suite.mockRepo.On("FindAccountByID", ctx, parentID).Return(nil, apperrors.ErrNotFound).Once()

	createdAccount, err := suite.service.CreateAccount(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(createdAccount)
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestEnsureAccount_ReturnsExisting() {
	ctx := context.Background()
	spec := domain.WellKnownParent(domain.PurposeCash)
	existing := &domain.Account{
		AccountID:   uuid.NewString(),
		Code:        spec.Code,
		Name:        spec.Name,
		AccountType: spec.AccountType,
		IsActive:    true,
	}

	suite.mockRepo.On("FindAccountByCode", ctx, spec.Code).Return(existing, nil).Once()

	account, err := suite.service.EnsureAccount(ctx, spec, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(existing, account)

	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestEnsureAccount_CreatesUnderParent() {
	ctx := context.Background()
	spec := domain.WellKnownAccount(domain.PurposeStudentAR, 7, "Student Seven")
	parent := &domain.Account{
		AccountID:   uuid.NewString(),
		Code:        spec.ParentCode,
		AccountType: domain.Asset,
		IsActive:    true,
	}

	suite.mockRepo.On("FindAccountByCode", ctx, spec.Code).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindAccountByCode", ctx, spec.ParentCode).Return(parent, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, parent.AccountID).Return(parent, nil).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.EnsureAccount(ctx, spec, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.Equal("1251-007", account.Code)
	suite.Equal(parent.AccountID, account.ParentAccountID)
	suite.Equal(domain.Asset, account.AccountType)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestEnsureAccount_LostCreationRace() {
	ctx := context.Background()
	spec := domain.WellKnownParent(domain.PurposeBank)
	winner := &domain.Account{
		AccountID:   uuid.NewString(),
		Code:        spec.Code,
		AccountType: spec.AccountType,
		IsActive:    true,
	}

	// First lookup misses, the insert hits the unique code, the re-fetch
	// returns the row the concurrent caller created.
	suite.mockRepo.On("FindAccountByCode", ctx, spec.Code).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(apperrors.ErrDuplicate).Once()
	suite.mockRepo.On("FindAccountByCode", ctx, spec.Code).Return(winner, nil).Once()

	account, err := suite.service.EnsureAccount(ctx, spec, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(winner, account)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestNetBalance_CreditNormal() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID:   accountID,
		Code:        "21-003",
		AccountType: domain.Liability,
		IsActive:    true,
	}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockRepo.On("DebitCreditTotals", ctx, accountID).
		Return(decimal.NewFromInt(400), decimal.NewFromInt(1000), nil).Once()

	balance, err := suite.service.NetBalance(ctx, accountID)

	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(600).Equal(balance))

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestNetBalance_DebitNormal() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID:   accountID,
		Code:        "121",
		AccountType: domain.Asset,
		IsActive:    true,
	}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockRepo.On("DebitCreditTotals", ctx, accountID).
		Return(decimal.NewFromInt(1000), decimal.NewFromInt(400), nil).Once()

	balance, err := suite.service.NetBalance(ctx, accountID)

	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(600).Equal(balance))

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestRollupBalance_IncludesDescendants() {
	ctx := context.Background()
	parentID := uuid.NewString()
	childID := uuid.NewString()
	parent := &domain.Account{AccountID: parentID, Code: "1251", AccountType: domain.Asset, IsActive: true}
	child := &domain.Account{AccountID: childID, Code: "1251-001", AccountType: domain.Asset, ParentAccountID: parentID, IsActive: true}

	suite.mockRepo.On("FindAccountByID", ctx, parentID).Return(parent, nil).Once()
	suite.mockRepo.On("DebitCreditTotals", ctx, parentID).
		Return(decimal.NewFromInt(100), decimal.Zero, nil).Once()
	suite.mockRepo.On("FindChildren", ctx, parentID).Return([]domain.Account{*child}, nil).Once()

	suite.mockRepo.On("FindAccountByID", ctx, childID).Return(child, nil).Once()
	suite.mockRepo.On("DebitCreditTotals", ctx, childID).
		Return(decimal.NewFromInt(250), decimal.NewFromInt(50), nil).Once()
	suite.mockRepo.On("FindChildren", ctx, childID).Return([]domain.Account{}, nil).Once()

	total, err := suite.service.RollupBalance(ctx, parentID)

	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(300).Equal(total))

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestRollupBalance_SurvivesParentCycle() {
	ctx := context.Background()
	aID := uuid.NewString()
	bID := uuid.NewString()
	a := &domain.Account{AccountID: aID, Code: "90", AccountType: domain.Asset, IsActive: true}
	b := &domain.Account{AccountID: bID, Code: "91", AccountType: domain.Asset, ParentAccountID: aID, IsActive: true}

	// Corrupted data: a and b point at each other. The visited set must stop
	// the recursion instead of looping.
	suite.mockRepo.On("FindAccountByID", ctx, aID).Return(a, nil).Once()
	suite.mockRepo.On("DebitCreditTotals", ctx, aID).
		Return(decimal.NewFromInt(10), decimal.Zero, nil).Once()
	suite.mockRepo.On("FindChildren", ctx, aID).Return([]domain.Account{*b}, nil).Once()

	suite.mockRepo.On("FindAccountByID", ctx, bID).Return(b, nil).Once()
	suite.mockRepo.On("DebitCreditTotals", ctx, bID).
		Return(decimal.NewFromInt(5), decimal.Zero, nil).Once()
	suite.mockRepo.On("FindChildren", ctx, bID).Return([]domain.Account{*a}, nil).Once()

	total, err := suite.service.RollupBalance(ctx, aID)

	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(15).Equal(total))

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestRecalculateTree_ChildrenBeforeParent() {
	ctx := context.Background()
	parentID := uuid.NewString()
	childID := uuid.NewString()
	child := domain.Account{AccountID: childID, Code: "501-001", AccountType: domain.Expense, ParentAccountID: parentID, IsActive: true}

	var refreshed []string
	record := func(args mock.Arguments) {
		refreshed = append(refreshed, args.String(1))
	}

	suite.mockRepo.On("FindChildren", ctx, parentID).Return([]domain.Account{child}, nil).Once()
	suite.mockRepo.On("FindChildren", ctx, childID).Return([]domain.Account{}, nil).Once()
	suite.mockRepo.On("RefreshAccountBalance", ctx, childID).Run(record).Return(decimal.Zero, nil).Once()
	suite.mockRepo.On("RefreshAccountBalance", ctx, parentID).Run(record).Return(decimal.Zero, nil).Once()

	err := suite.service.RecalculateTree(ctx, parentID)

	suite.Require().NoError(err)
	suite.Equal([]string{childID, parentID}, refreshed)

	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
