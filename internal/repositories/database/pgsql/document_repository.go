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
	"github.com/shopspring/decimal"

	"github.com/alnahda/institute-ledger/internal/apperrors"
	"github.com/alnahda/institute-ledger/internal/core/domain"
	portsrepo "github.com/alnahda/institute-ledger/internal/core/ports/repositories"
)

type PgxDocumentRepository struct {
	BaseRepository
}

func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepository {
	return &PgxDocumentRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.DocumentRepository = (*PgxDocumentRepository)(nil)

const receiptColumns = `id, receipt_number, receipt_date, student_id, enrollment_id, paid_amount, payment_method, notes, entry_id, created_at, created_by, last_updated_at, last_updated_by`

func scanReceipt(row pgx.Row) (domain.Receipt, error) {
	var rec domain.Receipt
	var enrollmentID sql.NullInt64
	var entryID sql.NullString
	err := row.Scan(
		&rec.ID,
		&rec.ReceiptNumber,
		&rec.Date,
		&rec.StudentID,
		&enrollmentID,
		&rec.PaidAmount,
		&rec.PaymentMethod,
		&rec.Notes,
		&entryID,
		&rec.CreatedAt,
		&rec.CreatedBy,
		&rec.LastUpdatedAt,
		&rec.LastUpdatedBy,
	)
	if err != nil {
		return domain.Receipt{}, err
	}
	if enrollmentID.Valid {
		id := enrollmentID.Int64
		rec.EnrollmentID = &id
	}
	if entryID.Valid {
		s := entryID.String
		rec.EntryID = &s
	}
	return rec, nil
}

func (r *PgxDocumentRepository) SaveReceipt(ctx context.Context, rec domain.Receipt) (int64, error) {
	query := `
		INSERT INTO receipts (receipt_number, receipt_date, student_id, enrollment_id, paid_amount, payment_method, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id;
	`
	var id int64
	err := r.Pool.QueryRow(ctx, query,
		rec.ReceiptNumber,
		rec.Date,
		rec.StudentID,
		rec.EnrollmentID,
		rec.PaidAmount,
		rec.PaymentMethod,
		rec.Notes,
		rec.CreatedAt,
		rec.CreatedBy,
		rec.LastUpdatedAt,
		rec.LastUpdatedBy,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("%w: receipt %s already exists", apperrors.ErrDuplicate, rec.ReceiptNumber)
		}
		return 0, fmt.Errorf("failed to save receipt %s: %w", rec.ReceiptNumber, err)
	}
	return id, nil
}

func (r *PgxDocumentRepository) FindReceiptByID(ctx context.Context, id int64) (*domain.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE id = $1;`
	rec, err := scanReceipt(r.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find receipt %d: %w", id, err)
	}
	return &rec, nil
}

func (r *PgxDocumentRepository) SetReceiptEntry(ctx context.Context, receiptID int64, entryID string) error {
	return r.setDocumentEntry(ctx, "receipts", receiptID, entryID)
}

const expenseColumns = `id, reference, expense_date, description, amount, account_id, payment_method, cost_center_id, notes, entry_id, created_at, created_by, last_updated_at, last_updated_by`

func scanExpense(row pgx.Row) (domain.ExpenseDocument, error) {
	var e domain.ExpenseDocument
	var costCenterID sql.NullInt64
	var entryID sql.NullString
	err := row.Scan(
		&e.ID,
		&e.Reference,
		&e.Date,
		&e.Description,
		&e.Amount,
		&e.AccountID,
		&e.PaymentMethod,
		&costCenterID,
		&e.Notes,
		&entryID,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return domain.ExpenseDocument{}, err
	}
	if costCenterID.Valid {
		id := costCenterID.Int64
		e.CostCenterID = &id
	}
	if entryID.Valid {
		s := entryID.String
		e.EntryID = &s
	}
	return e, nil
}

func (r *PgxDocumentRepository) SaveExpense(ctx context.Context, e domain.ExpenseDocument) (int64, error) {
	query := `
		INSERT INTO expenses (reference, expense_date, description, amount, account_id, payment_method, cost_center_id, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id;
	`
	var id int64
	err := r.Pool.QueryRow(ctx, query,
		e.Reference,
		e.Date,
		e.Description,
		e.Amount,
		e.AccountID,
		e.PaymentMethod,
		e.CostCenterID,
		e.Notes,
		e.CreatedAt,
		e.CreatedBy,
		e.LastUpdatedAt,
		e.LastUpdatedBy,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("%w: expense %s already exists", apperrors.ErrDuplicate, e.Reference)
		}
		return 0, fmt.Errorf("failed to save expense %s: %w", e.Reference, err)
	}
	return id, nil
}

func (r *PgxDocumentRepository) FindExpenseByID(ctx context.Context, id int64) (*domain.ExpenseDocument, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1;`
	e, err := scanExpense(r.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense %d: %w", id, err)
	}
	return &e, nil
}

func (r *PgxDocumentRepository) SetExpenseEntry(ctx context.Context, expenseID int64, entryID string) error {
	return r.setDocumentEntry(ctx, "expenses", expenseID, entryID)
}

const advanceColumns = `id, reference, owner_kind, owner_id, advance_date, amount, purpose, payment_method, is_repaid, repaid_amount, entry_id, created_at, created_by, last_updated_at, last_updated_by`

func scanAdvance(row pgx.Row) (domain.Advance, error) {
	var a domain.Advance
	var entryID sql.NullString
	err := row.Scan(
		&a.ID,
		&a.Reference,
		&a.OwnerKind,
		&a.OwnerID,
		&a.Date,
		&a.Amount,
		&a.Purpose,
		&a.PaymentMethod,
		&a.IsRepaid,
		&a.RepaidAmount,
		&entryID,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	if err != nil {
		return domain.Advance{}, err
	}
	if entryID.Valid {
		s := entryID.String
		a.EntryID = &s
	}
	return a, nil
}

func (r *PgxDocumentRepository) SaveAdvance(ctx context.Context, a domain.Advance) (int64, error) {
	query := `
		INSERT INTO advances (reference, owner_kind, owner_id, advance_date, amount, purpose, payment_method, is_repaid, repaid_amount, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id;
	`
	var id int64
	err := r.Pool.QueryRow(ctx, query,
		a.Reference,
		a.OwnerKind,
		a.OwnerID,
		a.Date,
		a.Amount,
		a.Purpose,
		a.PaymentMethod,
		a.IsRepaid,
		a.RepaidAmount,
		a.CreatedAt,
		a.CreatedBy,
		a.LastUpdatedAt,
		a.LastUpdatedBy,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("%w: advance %s already exists", apperrors.ErrDuplicate, a.Reference)
		}
		return 0, fmt.Errorf("failed to save advance %s: %w", a.Reference, err)
	}
	return id, nil
}

func (r *PgxDocumentRepository) FindAdvanceByID(ctx context.Context, id int64) (*domain.Advance, error) {
	query := `SELECT ` + advanceColumns + ` FROM advances WHERE id = $1;`
	a, err := scanAdvance(r.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find advance %d: %w", id, err)
	}
	return &a, nil
}

func (r *PgxDocumentRepository) SetAdvanceEntry(ctx context.Context, advanceID int64, entryID string) error {
	return r.setDocumentEntry(ctx, "advances", advanceID, entryID)
}

// ListOutstandingAdvances returns unrepaid advances for the owner taken in the
// given month, oldest first so recovery consumes them in order.
func (r *PgxDocumentRepository) ListOutstandingAdvances(ctx context.Context, kind domain.AdvanceOwnerKind, ownerID int64, year int, month time.Month) ([]domain.Advance, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	query := `
		SELECT ` + advanceColumns + `
		FROM advances
		WHERE owner_kind = $1
		  AND owner_id = $2
		  AND NOT is_repaid
		  AND advance_date >= $3
		  AND advance_date < $4
		ORDER BY advance_date, id;
	`
	rows, err := r.Pool.Query(ctx, query, kind, ownerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding advances for %s %d: %w", kind, ownerID, err)
	}
	defer rows.Close()

	advances := []domain.Advance{}
	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advance row: %w", err)
		}
		advances = append(advances, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating advance rows: %w", err)
	}
	return advances, nil
}

// MarkAdvanceRepaid records the cumulative repaid amount and flips the repaid
// flag once the full amount has been recovered.
func (r *PgxDocumentRepository) MarkAdvanceRepaid(ctx context.Context, advanceID int64, repaidAmount decimal.Decimal) error {
	query := `
		UPDATE advances
		SET repaid_amount = $2, is_repaid = ($2 >= amount), last_updated_at = NOW()
		WHERE id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, advanceID, repaidAmount)
	if err != nil {
		return fmt.Errorf("failed to mark advance %d repaid: %w", advanceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// setDocumentEntry records the posted entry reference on a document row. The
// reference is the posting idempotency guard, so it is written at most once.
func (r *PgxDocumentRepository) setDocumentEntry(ctx context.Context, table string, id int64, entryID string) error {
	query := fmt.Sprintf(`UPDATE %s SET entry_id = $2, last_updated_at = NOW() WHERE id = $1 AND entry_id IS NULL;`, table)
	cmdTag, err := r.Pool.Exec(ctx, query, id, entryID)
	if err != nil {
		return fmt.Errorf("failed to set entry on %s row %d: %w", table, id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s row %d already has a posted entry or does not exist", apperrors.ErrDuplicate, table, id)
	}
	return nil
}
