package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/alnahda/institute-ledger/internal/apperrors"
	"github.com/alnahda/institute-ledger/internal/core/domain"
	portsrepo "github.com/alnahda/institute-ledger/internal/core/ports/repositories"
)

type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, code, name, name_ar, account_type, parent_account_id, description, is_active, balance, created_at, created_by, last_updated_at, last_updated_by`

// scanAccount reads one account row in accountColumns order.
func scanAccount(row pgx.Row) (domain.Account, error) {
	var acc domain.Account
	var parentID sql.NullString
	err := row.Scan(
		&acc.AccountID,
		&acc.Code,
		&acc.Name,
		&acc.NameAr,
		&acc.AccountType,
		&parentID,
		&acc.Description,
		&acc.IsActive,
		&acc.Balance,
		&acc.CreatedAt,
		&acc.CreatedBy,
		&acc.LastUpdatedAt,
		&acc.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	if parentID.Valid {
		acc.ParentAccountID = parentID.String
	}
	return acc, nil
}

// SaveAccount inserts or updates an account. The code is the conflict target:
// two writers racing to create the same well-known account converge.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (account_id, code, name, name_ar, account_type, parent_account_id, description, is_active, balance, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (account_id) DO UPDATE
		SET name = EXCLUDED.name,
		    name_ar = EXCLUDED.name_ar,
		    description = EXCLUDED.description,
		    is_active = EXCLUDED.is_active,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	var parentID sql.NullString
	if account.ParentAccountID != "" {
		parentID = sql.NullString{String: account.ParentAccountID, Valid: true}
	}

	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.Code,
		account.Name,
		account.NameAr,
		account.AccountType,
		parentID,
		account.Description,
		account.IsActive,
		account.Balance,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: account with code %s already exists", apperrors.ErrDuplicate, account.Code)
		}
		return fmt.Errorf("failed to save account %s: %w", account.Code, err)
	}
	return nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return &acc, nil
}

func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	return &acc, nil
}

func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row during batch fetch: %w", err)
		}
		accountsMap[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows during batch fetch: %w", err)
	}
	return accountsMap, nil
}

func (r *PgxAccountRepository) FindChildren(ctx context.Context, accountID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE parent_account_id = $1 ORDER BY code;`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query children of account %s: %w", accountID, err)
	}
	defer rows.Close()

	children := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan child account row: %w", err)
		}
		children = append(children, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating child account rows: %w", err)
	}
	return children, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY code;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// DebitCreditTotals aggregates posted transaction amounts for one account.
func (r *PgxAccountRepository) DebitCreditTotals(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(t.amount) FILTER (WHERE t.transaction_type = 'DEBIT'), 0),
			COALESCE(SUM(t.amount) FILTER (WHERE t.transaction_type = 'CREDIT'), 0)
		FROM transactions t
		JOIN journal_entries e ON e.entry_id = t.entry_id
		WHERE t.account_id = $1 AND e.is_posted;
	`
	var debit, credit decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to aggregate totals for account %s: %w", accountID, err)
	}
	return debit, credit, nil
}

// balanceExpr computes the sign-convention net balance from the posted log.
// ASSET/EXPENSE accounts are debit-normal, the rest credit-normal.
const balanceExpr = `
	COALESCE((
		SELECT SUM(CASE
			WHEN a.account_type IN ('ASSET', 'EXPENSE') THEN
				CASE WHEN t.transaction_type = 'DEBIT' THEN t.amount ELSE -t.amount END
			ELSE
				CASE WHEN t.transaction_type = 'CREDIT' THEN t.amount ELSE -t.amount END
		END)
		FROM transactions t
		JOIN journal_entries e ON e.entry_id = t.entry_id
		WHERE t.account_id = a.account_id AND e.is_posted
	), 0)`

// RefreshAccountBalance recomputes the cached balance in one statement. The
// value is derived entirely from the posted log, so concurrent refreshes are
// idempotent rather than racing read-modify-write updates.
func (r *PgxAccountRepository) RefreshAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `
		UPDATE accounts a
		SET balance = ` + balanceExpr + `
		WHERE a.account_id = $1
		RETURNING a.balance;
	`
	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperrors.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to refresh balance for account %s: %w", accountID, err)
	}
	return balance, nil
}

// RefreshAllBalances recomputes every cached balance from the posted log.
func (r *PgxAccountRepository) RefreshAllBalances(ctx context.Context) error {
	query := `UPDATE accounts a SET balance = ` + balanceExpr + `;`
	if _, err := r.Pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to refresh all account balances: %w", err)
	}
	return nil
}
