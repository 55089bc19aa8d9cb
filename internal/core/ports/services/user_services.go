package services

import (
	"context"
	"time"

	"github.com/alnahda/institute-ledger/internal/core/domain"
	"github.com/alnahda/institute-ledger/internal/dto"
)

// UserSvcFacade manages the authenticated actors behind every audit field.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// AuthenticateUser verifies credentials and returns the active user.
	AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error)
}

// TokenSvcFacade issues and validates the access tokens used by the API.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
	// ValidateAccessToken parses the token and returns the subject user ID.
	ValidateAccessToken(ctx context.Context, tokenString string) (string, error)
}
