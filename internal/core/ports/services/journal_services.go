package services

import (
	"context"
	"time"

	"github.com/alnahda/institute-ledger/internal/core/domain"
	"github.com/alnahda/institute-ledger/internal/dto"
)

// JournalReaderSvc defines read operations for journal data.
type JournalReaderSvc interface {
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
	ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListEntriesParams) ([]domain.Transaction, error)
}

// JournalWriterSvc defines the posting engine operations.
type JournalWriterSvc interface {
	// CreateDraft validates and persists an unposted entry with its legs,
	// allocating the JE reference from the sequence.
	CreateDraft(ctx context.Context, input NewEntryInput, creatorUserID string) (*domain.JournalEntry, error)

	// Post marks a balanced draft as posted and refreshes the cached balance
	// of every touched account. Posting a posted entry fails with
	// apperrors.ErrAlreadyPosted.
	Post(ctx context.Context, entryID string, postingUserID string) (*domain.JournalEntry, error)

	// PostNew is the create-and-post path the domain workflows use.
	PostNew(ctx context.Context, input NewEntryInput, userID string) (*domain.JournalEntry, error)

	// Reverse creates and posts an ADJUSTMENT entry whose legs mirror the
	// original with flipped directions. The original stays untouched.
	Reverse(ctx context.Context, entryID string, description string, userID string) (*domain.JournalEntry, error)
}

// NewEntryInput carries a fully specified entry into the posting engine.
type NewEntryInput struct {
	Date            time.Time
	Description     string
	EntryType       domain.EntryType
	ReversesEntryID *string              // Set only on ADJUSTMENT entries
	Lines           []domain.Transaction // TransactionID/EntryID left blank
}

// JournalSvcFacade combines all journal-related service interfaces.
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
