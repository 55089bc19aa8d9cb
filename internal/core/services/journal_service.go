package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alnahda/institute-ledger/internal/apperrors"
	"github.com/alnahda/institute-ledger/internal/core/domain"
	portsrepo "github.com/alnahda/institute-ledger/internal/core/ports/repositories"
	portssvc "github.com/alnahda/institute-ledger/internal/core/ports/services"
	"github.com/alnahda/institute-ledger/internal/dto"
	"github.com/alnahda/institute-ledger/internal/middleware"
	"github.com/alnahda/institute-ledger/internal/utils/accounting"
)

// JournalService is the posting engine. Every ledger mutation in the system
// funnels through it: drafts are validated and persisted atomically, posting
// flips the immutable flag and refreshes cached balances, and corrections
// happen through reversing entries only.
type JournalService struct {
	journalRepo  portsrepo.JournalRepository
	accountRepo  portsrepo.AccountRepository
	sequenceRepo portsrepo.SequenceRepository
}

func NewJournalService(journalRepo portsrepo.JournalRepository, accountRepo portsrepo.AccountRepository, sequenceRepo portsrepo.SequenceRepository) *JournalService {
	return &JournalService{
		journalRepo:  journalRepo,
		accountRepo:  accountRepo,
		sequenceRepo: sequenceRepo,
	}
}

func (s *JournalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	txns, err := s.journalRepo.FindTransactionsByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.Transactions = txns
	return entry, nil
}

func (s *JournalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	entries, err := s.journalRepo.ListEntries(ctx, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	res := dto.ToListEntriesResponse(entries)
	return &res, nil
}

func (s *JournalService) ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListEntriesParams) ([]domain.Transaction, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.journalRepo.ListTransactionsByAccount(ctx, accountID, params.Limit, params.Offset)
}

// CreateDraft validates the legs, allocates the JE reference and persists the
// unposted entry with its transactions in one database transaction.
func (s *JournalService) CreateDraft(ctx context.Context, input portssvc.NewEntryInput, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := accounting.ValidateEntryBalance(input.Lines); err != nil {
		return nil, err
	}
	if err := s.checkAccounts(ctx, input.Lines); err != nil {
		return nil, err
	}

	seq, err := s.sequenceRepo.NextValue(ctx, domain.SeqJournalEntry)
	if err != nil {
		return nil, fmt.Errorf("allocating entry reference: %w", err)
	}

	now := time.Now()
	entryType := input.EntryType
	if entryType == "" {
		entryType = domain.EntryManual
	}
	entry := domain.JournalEntry{
		EntryID:         uuid.NewString(),
		Reference:       domain.FormatReference(domain.RefPrefixJournal, seq),
		Date:            input.Date,
		Description:     input.Description,
		EntryType:       entryType,
		IsPosted:        false,
		ReversesEntryID: input.ReversesEntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	txns := make([]domain.Transaction, len(input.Lines))
	for i, line := range input.Lines {
		txns[i] = domain.Transaction{
			TransactionID:   uuid.NewString(),
			EntryID:         entry.EntryID,
			AccountID:       line.AccountID,
			Amount:          line.Amount,
			TransactionType: line.TransactionType,
			Description:     line.Description,
			CostCenterID:    line.CostCenterID,
			CreatedAt:       now,
		}
	}
	entry.Transactions = txns
	entry.TotalAmount = entry.DebitTotal()

	if err := s.journalRepo.SaveEntry(ctx, entry, txns); err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()), slog.String("reference", entry.Reference))
		return nil, err
	}

	logger.Info("Journal entry drafted", slog.String("entry_id", entry.EntryID), slog.String("reference", entry.Reference))
	return &entry, nil
}

// Post marks a balanced draft as posted and refreshes the cached balance of
// every account the entry touches. Posted entries cannot be posted again.
func (s *JournalService) Post(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.IsPosted {
		return nil, fmt.Errorf("%w: entry %s", apperrors.ErrAlreadyPosted, entry.Reference)
	}
	if err := accounting.ValidateEntryBalance(entry.Transactions); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.journalRepo.MarkPosted(ctx, entryID, userID, now); err != nil {
		return nil, err
	}
	entry.IsPosted = true
	entry.PostedAt = &now
	entry.PostedBy = userID

	// The cached balance column is only ever written here, from the posted
	// transaction log, so concurrent postings converge.
	for _, accountID := range entry.AccountIDs() {
		if _, err := s.accountRepo.RefreshAccountBalance(ctx, accountID); err != nil {
			logger.Error("Failed to refresh account balance after posting", slog.String("error", err.Error()), slog.String("account_id", accountID))
			return nil, err
		}
	}

	logger.Info("Journal entry posted", slog.String("entry_id", entry.EntryID), slog.String("reference", entry.Reference))
	return entry, nil
}

// PostNew drafts and immediately posts an entry; the path every domain
// workflow uses.
func (s *JournalService) PostNew(ctx context.Context, input portssvc.NewEntryInput, userID string) (*domain.JournalEntry, error) {
	entry, err := s.CreateDraft(ctx, input, userID)
	if err != nil {
		return nil, err
	}
	return s.Post(ctx, entry.EntryID, userID)
}

// Reverse creates and posts an ADJUSTMENT entry mirroring the original with
// flipped leg directions. The original entry is never mutated.
func (s *JournalService) Reverse(ctx context.Context, entryID string, description string, userID string) (*domain.JournalEntry, error) {
	original, err := s.GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !original.IsPosted {
		return nil, fmt.Errorf("%w: entry %s", apperrors.ErrNotPosted, original.Reference)
	}

	if description == "" {
		description = fmt.Sprintf("Reversal of %s", original.Reference)
	}

	lines := make([]domain.Transaction, len(original.Transactions))
	for i, txn := range original.Transactions {
		lines[i] = domain.Transaction{
			AccountID:       txn.AccountID,
			Amount:          txn.Amount,
			TransactionType: txn.TransactionType.Opposite(),
			Description:     txn.Description,
			CostCenterID:    txn.CostCenterID,
		}
	}

	return s.PostNew(ctx, portssvc.NewEntryInput{
		Date:            time.Now(),
		Description:     description,
		EntryType:       domain.EntryAdjustment,
		ReversesEntryID: &original.EntryID,
		Lines:           lines,
	}, userID)
}

// checkAccounts verifies every referenced account exists and is active.
func (s *JournalService) checkAccounts(ctx context.Context, lines []domain.Transaction) error {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; ok {
			continue
		}
		seen[line.AccountID] = struct{}{}
		ids = append(ids, line.AccountID)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		account, ok := accounts[id]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrMissingAccount, id)
		}
		if !account.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, account.Code)
		}
	}
	return nil
}
