package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/alnahda/institute-ledger/internal/apperrors"
	"github.com/alnahda/institute-ledger/internal/core/domain"
	"github.com/alnahda/institute-ledger/internal/core/services"
	"github.com/alnahda/institute-ledger/internal/dto"
	"github.com/alnahda/institute-ledger/internal/utils"
	"github.com/alnahda/institute-ledger/pkg/config"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  *services.UserService
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockRepo)
}

func (suite *UserServiceTestSuite) TestCreateUser_HashesPassword() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Username: "accountant",
		Name:     "The Accountant",
		Password: "s3cret-pass",
	}

	var saved domain.User
	suite.mockRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.User) }).
		Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.NotEmpty(user.UserID)
	suite.True(user.IsActive)
	suite.NotEqual(req.Password, saved.PasswordHash)
	suite.True(utils.CheckPasswordHash(req.Password, saved.PasswordHash))

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	password := "s3cret-pass"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	user := &domain.User{
		UserID:       uuid.NewString(),
		Username:     "accountant",
		PasswordHash: hash,
		IsActive:     true,
	}

	suite.mockRepo.On("FindUserByUsername", ctx, user.Username).Return(user, nil).Once()

	authenticated, err := suite.service.AuthenticateUser(ctx, user.Username, password)

	suite.Require().NoError(err)
	suite.Equal(user, authenticated)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("the-right-one")
	suite.Require().NoError(err)
	user := &domain.User{
		UserID:       uuid.NewString(),
		Username:     "accountant",
		PasswordHash: hash,
		IsActive:     true,
	}

	suite.mockRepo.On("FindUserByUsername", ctx, user.Username).Return(user, nil).Once()

	authenticated, err := suite.service.AuthenticateUser(ctx, user.Username, "the-wrong-one")

	suite.Require().Error(err)
	suite.Nil(authenticated)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownUsername() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	authenticated, err := suite.service.AuthenticateUser(ctx, "ghost", "whatever")

	suite.Require().Error(err)
	suite.Nil(authenticated)
	// Unknown usernames and wrong passwords must be indistinguishable.
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_InactiveUser() {
	ctx := context.Background()
	password := "s3cret-pass"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	user := &domain.User{
		UserID:       uuid.NewString(),
		Username:     "accountant",
		PasswordHash: hash,
		IsActive:     false,
	}

	suite.mockRepo.On("FindUserByUsername", ctx, user.Username).Return(user, nil).Once()

	authenticated, err := suite.service.AuthenticateUser(ctx, user.Username, password)

	suite.Require().Error(err)
	suite.Nil(authenticated)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestTokenService_RoundTrip() {
	ctx := context.Background()
	cfg := &config.Config{
		JWTSecret:         "test-secret-key",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "institute-ledger-test",
	}
	tokenService := services.NewTokenService(cfg)
	user := &domain.User{UserID: uuid.NewString(), Username: "accountant", IsActive: true}

	token, expiry, err := tokenService.GenerateAccessToken(ctx, user)
	suite.Require().NoError(err)
	suite.NotEmpty(token)
	suite.WithinDuration(time.Now().Add(time.Hour), expiry, time.Minute)

	subject, err := tokenService.ValidateAccessToken(ctx, token)
	suite.Require().NoError(err)
	suite.Equal(user.UserID, subject)
}

func (suite *UserServiceTestSuite) TestTokenService_RejectsTamperedToken() {
	ctx := context.Background()
	cfg := &config.Config{
		JWTSecret:         "test-secret-key",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "institute-ledger-test",
	}
	otherCfg := &config.Config{
		JWTSecret:         "a-different-secret",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "institute-ledger-test",
	}
	user := &domain.User{UserID: uuid.NewString(), Username: "accountant", IsActive: true}

	token, _, err := services.NewTokenService(otherCfg).GenerateAccessToken(ctx, user)
	suite.Require().NoError(err)

	_, err = services.NewTokenService(cfg).ValidateAccessToken(ctx, token)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
