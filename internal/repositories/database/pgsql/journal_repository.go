package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alnahda/institute-ledger/internal/apperrors"
	"github.com/alnahda/institute-ledger/internal/core/domain"
	portsrepo "github.com/alnahda/institute-ledger/internal/core/ports/repositories"
)

type PgxJournalRepository struct {
	BaseRepository
}

func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepository {
	return &PgxJournalRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepository = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, reference, entry_date, description, entry_type, total_amount, is_posted, posted_at, posted_by, reverses_entry_id, created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	var postedAt sql.NullTime
	var postedBy sql.NullString
	var reversesID sql.NullString
	err := row.Scan(
		&e.EntryID,
		&e.Reference,
		&e.Date,
		&e.Description,
		&e.EntryType,
		&e.TotalAmount,
		&e.IsPosted,
		&postedAt,
		&postedBy,
		&reversesID,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	if postedAt.Valid {
		t := postedAt.Time
		e.PostedAt = &t
	}
	if postedBy.Valid {
		e.PostedBy = postedBy.String
	}
	if reversesID.Valid {
		s := reversesID.String
		e.ReversesEntryID = &s
	}
	return e, nil
}

const transactionColumns = `transaction_id, entry_id, account_id, amount, transaction_type, description, cost_center_id, created_at`

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var t domain.Transaction
	var costCenterID sql.NullInt64
	err := row.Scan(
		&t.TransactionID,
		&t.EntryID,
		&t.AccountID,
		&t.Amount,
		&t.TransactionType,
		&t.Description,
		&costCenterID,
		&t.CreatedAt,
	)
	if err != nil {
		return domain.Transaction{}, err
	}
	if costCenterID.Valid {
		id := costCenterID.Int64
		t.CostCenterID = &id
	}
	return t, nil
}

// SaveEntry writes the entry and all its legs in one database transaction;
// a partially written entry can never become visible.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, transactions []domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	entryQuery := `
		INSERT INTO journal_entries (entry_id, reference, entry_date, description, entry_type, total_amount, is_posted, posted_at, posted_by, reverses_entry_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	var postedBy sql.NullString
	if entry.PostedBy != "" {
		postedBy = sql.NullString{String: entry.PostedBy, Valid: true}
	}
	_, err = tx.Exec(ctx, entryQuery,
		entry.EntryID,
		entry.Reference,
		entry.Date,
		entry.Description,
		entry.EntryType,
		entry.TotalAmount,
		entry.IsPosted,
		entry.PostedAt,
		postedBy,
		entry.ReversesEntryID,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: entry reference %s already exists", apperrors.ErrDuplicate, entry.Reference)
		}
		return fmt.Errorf("failed to insert journal entry %s: %w", entry.Reference, err)
	}

	txnQuery := `
		INSERT INTO transactions (transaction_id, entry_id, account_id, amount, transaction_type, description, cost_center_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	batch := &pgx.Batch{}
	for _, txn := range transactions {
		batch.Queue(txnQuery,
			txn.TransactionID,
			txn.EntryID,
			txn.AccountID,
			txn.Amount,
			txn.TransactionType,
			txn.Description,
			txn.CostCenterID,
			txn.CreatedAt,
		)
	}
	br := tx.SendBatch(ctx, batch)
	for range transactions {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to insert transaction for entry %s: %w", entry.Reference, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close transaction batch for entry %s: %w", entry.Reference, err)
	}

	return tx.Commit(ctx)
}

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	return &entry, nil
}

func (r *PgxJournalRepository) FindTransactionsByEntryID(ctx context.Context, entryID string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE entry_id = $1 ORDER BY created_at, transaction_id;`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, nil
}

func (r *PgxJournalRepository) ListEntries(ctx context.Context, limit, offset int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries ORDER BY entry_date DESC, reference DESC LIMIT $1 OFFSET $2;`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}
	return entries, nil
}

func (r *PgxJournalRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, transaction_id
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, nil
}

// MarkPosted flips the posted flag. Repeating the call for an entry that is
// already posted leaves the original posting audit untouched.
func (r *PgxJournalRepository) MarkPosted(ctx context.Context, entryID string, postedBy string, postedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET is_posted = TRUE, posted_at = $2, posted_by = $3, last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1 AND NOT is_posted;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, entryID, postedAt, postedBy)
	if err != nil {
		return fmt.Errorf("failed to mark entry %s posted: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		entry, findErr := r.FindEntryByID(ctx, entryID)
		if findErr != nil {
			return findErr
		}
		if entry.IsPosted {
			return nil
		}
		return fmt.Errorf("failed to mark entry %s posted", entryID)
	}
	return nil
}
