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
)

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo  *MockJournalRepository
	mockAccountRepo  *MockAccountRepository
	mockSequenceRepo *MockSequenceRepository
	service          *services.JournalService
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockSequenceRepo = new(MockSequenceRepository)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountRepo, suite.mockSequenceRepo)
}

// balancedInput builds a two-leg entry against the given accounts.
func balancedInput(debitAccount, creditAccount string, amount decimal.Decimal) portssvc.NewEntryInput {
	return portssvc.NewEntryInput{
		Date:        time.Now(),
		Description: "Test entry",
		Lines: []domain.Transaction{
			{AccountID: debitAccount, Amount: amount, TransactionType: domain.Debit},
			{AccountID: creditAccount, Amount: amount, TransactionType: domain.Credit},
		},
	}
}

func activeAccounts(ids ...string) map[string]domain.Account {
	accounts := make(map[string]domain.Account, len(ids))
	for _, id := range ids {
		accounts[id] = domain.Account{AccountID: id, Code: id, AccountType: domain.Asset, IsActive: true}
	}
	return accounts
}

func (suite *JournalServiceTestSuite) TestCreateDraft_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	debitAcc, creditAcc := uuid.NewString(), uuid.NewString()
	input := balancedInput(debitAcc, creditAcc, decimal.NewFromInt(1500))

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{debitAcc, creditAcc}).
		Return(activeAccounts(debitAcc, creditAcc), nil).Once()
	suite.mockSequenceRepo.On("NextValue", ctx, domain.SeqJournalEntry).Return(int64(42), nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.Transaction")).
		Return(nil).Once()

	entry, err := suite.service.CreateDraft(ctx, input, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.NotEmpty(entry.EntryID)
	suite.Equal("JE-000042", entry.Reference)
	suite.Equal(domain.EntryManual, entry.EntryType)
	suite.False(entry.IsPosted)
	suite.True(decimal.NewFromInt(1500).Equal(entry.TotalAmount))
	suite.Require().Len(entry.Transactions, 2)
	for _, txn := range entry.Transactions {
		suite.NotEmpty(txn.TransactionID)
		suite.Equal(entry.EntryID, txn.EntryID)
	}
	suite.Equal(userID, entry.CreatedBy)

	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockSequenceRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateDraft_Unbalanced() {
	ctx := context.Background()
	input := portssvc.NewEntryInput{
		Date: time.Now(),
		Lines: []domain.Transaction{
			{AccountID: uuid.NewString(), Amount: decimal.NewFromInt(100), TransactionType: domain.Debit},
			{AccountID: uuid.NewString(), Amount: decimal.NewFromInt(99), TransactionType: domain.Credit},
		},
	}

	entry, err := suite.service.CreateDraft(ctx, input, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrUnbalanced)

	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateDraft_NonPositiveAmount() {
	ctx := context.Background()
	input := portssvc.NewEntryInput{
		Date: time.Now(),
		Lines: []domain.Transaction{
			{AccountID: uuid.NewString(), Amount: decimal.NewFromInt(-10), TransactionType: domain.Debit},
			{AccountID: uuid.NewString(), Amount: decimal.NewFromInt(-10), TransactionType: domain.Credit},
		},
	}

	entry, err := suite.service.CreateDraft(ctx, input, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
}

func (suite *JournalServiceTestSuite) TestCreateDraft_MissingAccount() {
	ctx := context.Background()
	debitAcc, creditAcc := uuid.NewString(), uuid.NewString()
	input := balancedInput(debitAcc, creditAcc, decimal.NewFromInt(100))

	// Only the debit account exists.
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{debitAcc, creditAcc}).
		Return(activeAccounts(debitAcc), nil).Once()

	entry, err := suite.service.CreateDraft(ctx, input, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrMissingAccount)

	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateDraft_InactiveAccount() {
	ctx := context.Background()
	debitAcc, creditAcc := uuid.NewString(), uuid.NewString()
	input := balancedInput(debitAcc, creditAcc, decimal.NewFromInt(100))

	accounts := activeAccounts(debitAcc, creditAcc)
	inactive := accounts[creditAcc]
	inactive.IsActive = false
	accounts[creditAcc] = inactive

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{debitAcc, creditAcc}).
		Return(accounts, nil).Once()

	entry, err := suite.service.CreateDraft(ctx, input, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestPost_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	entryID := uuid.NewString()
	debitAcc, creditAcc := uuid.NewString(), uuid.NewString()
	draft := &domain.JournalEntry{
		EntryID:   entryID,
		Reference: "JE-000007",
		IsPosted:  false,
	}
	legs := []domain.Transaction{
		{TransactionID: uuid.NewString(), EntryID: entryID, AccountID: debitAcc, Amount: decimal.NewFromInt(200), TransactionType: domain.Debit},
		{TransactionID: uuid.NewString(), EntryID: entryID, AccountID: creditAcc, Amount: decimal.NewFromInt(200), TransactionType: domain.Credit},
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(draft, nil).Once()
	suite.mockJournalRepo.On("FindTransactionsByEntryID", ctx, entryID).Return(legs, nil).Once()
	suite.mockJournalRepo.On("MarkPosted", ctx, entryID, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAccountRepo.On("RefreshAccountBalance", ctx, debitAcc).Return(decimal.NewFromInt(200), nil).Once()
	suite.mockAccountRepo.On("RefreshAccountBalance", ctx, creditAcc).Return(decimal.NewFromInt(-200), nil).Once()

	posted, err := suite.service.Post(ctx, entryID, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(posted)
	suite.True(posted.IsPosted)
	suite.Require().NotNil(posted.PostedAt)
	suite.Equal(userID, posted.PostedBy)

	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPost_AlreadyPosted() {
	ctx := context.Background()
	entryID := uuid.NewString()
	now := time.Now()
	posted := &domain.JournalEntry{
		EntryID:   entryID,
		Reference: "JE-000008",
		IsPosted:  true,
		PostedAt:  &now,
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(posted, nil).Once()
	suite.mockJournalRepo.On("FindTransactionsByEntryID", ctx, entryID).Return([]domain.Transaction{}, nil).Once()

	entry, err := suite.service.Post(ctx, entryID, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrAlreadyPosted)

	suite.mockJournalRepo.AssertNotCalled(suite.T(), "MarkPosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverse_NotPosted() {
	ctx := context.Background()
	entryID := uuid.NewString()
	draft := &domain.JournalEntry{EntryID: entryID, Reference: "JE-000009", IsPosted: false}

	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(draft, nil).Once()
	suite.mockJournalRepo.On("FindTransactionsByEntryID", ctx, entryID).Return([]domain.Transaction{}, nil).Once()

	entry, err := suite.service.Reverse(ctx, entryID, "", uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrNotPosted)
}

func (suite *JournalServiceTestSuite) TestReverse_FlipsLegsAndLinksOriginal() {
	ctx := context.Background()
	userID := uuid.NewString()
	originalID := uuid.NewString()
	debitAcc, creditAcc := uuid.NewString(), uuid.NewString()
	now := time.Now()
	original := &domain.JournalEntry{
		EntryID:   originalID,
		Reference: "JE-000010",
		IsPosted:  true,
		PostedAt:  &now,
	}
	originalLegs := []domain.Transaction{
		{TransactionID: uuid.NewString(), EntryID: originalID, AccountID: debitAcc, Amount: decimal.NewFromInt(300), TransactionType: domain.Debit},
		{TransactionID: uuid.NewString(), EntryID: originalID, AccountID: creditAcc, Amount: decimal.NewFromInt(300), TransactionType: domain.Credit},
	}

	suite.mockJournalRepo.On("FindEntryByID", ctx, originalID).Return(original, nil).Once()
	suite.mockJournalRepo.On("FindTransactionsByEntryID", ctx, originalID).Return(originalLegs, nil).Once()

	// The reversal runs through the full draft-and-post path.
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{debitAcc, creditAcc}).
		Return(activeAccounts(debitAcc, creditAcc), nil).Once()
	suite.mockSequenceRepo.On("NextValue", ctx, domain.SeqJournalEntry).Return(int64(11), nil).Once()

	var saved domain.JournalEntry
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.Transaction")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.JournalEntry) }).
		Return(nil).Once()

	isReversal := mock.MatchedBy(func(id string) bool { return id != originalID })
	findCall := suite.mockJournalRepo.On("FindEntryByID", ctx, isReversal).Once()
	findCall.Run(func(args mock.Arguments) {
		entry := saved
		findCall.ReturnArguments = mock.Arguments{&entry, nil}
	})
	txnsCall := suite.mockJournalRepo.On("FindTransactionsByEntryID", ctx, isReversal).Once()
	txnsCall.Run(func(args mock.Arguments) {
		txnsCall.ReturnArguments = mock.Arguments{saved.Transactions, nil}
	})

	suite.mockJournalRepo.On("MarkPosted", ctx, isReversal, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAccountRepo.On("RefreshAccountBalance", ctx, debitAcc).Return(decimal.Zero, nil).Once()
	suite.mockAccountRepo.On("RefreshAccountBalance", ctx, creditAcc).Return(decimal.Zero, nil).Once()

	reversal, err := suite.service.Reverse(ctx, originalID, "", userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.Equal(domain.EntryAdjustment, reversal.EntryType)
	suite.Equal("Reversal of JE-000010", reversal.Description)
	suite.Require().NotNil(reversal.ReversesEntryID)
	suite.Equal(originalID, *reversal.ReversesEntryID)
	suite.Require().Len(reversal.Transactions, 2)
	suite.Equal(domain.Credit, reversal.Transactions[0].TransactionType)
	suite.Equal(debitAcc, reversal.Transactions[0].AccountID)
	suite.Equal(domain.Debit, reversal.Transactions[1].TransactionType)
	suite.Equal(creditAcc, reversal.Transactions[1].AccountID)

	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockSequenceRepo.AssertExpectations(suite.T())
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
