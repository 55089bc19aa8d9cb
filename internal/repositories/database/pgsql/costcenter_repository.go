package pgsql

import (
	"context"
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

type PgxCostCenterRepository struct {
	BaseRepository
}

func newPgxCostCenterRepository(pool *pgxpool.Pool) portsrepo.CostCenterRepository {
	return &PgxCostCenterRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.CostCenterRepository = (*PgxCostCenterRepository)(nil)

const costCenterColumns = `id, code, name, name_ar, description, cost_center_type, is_active, manager_name, manager_phone, annual_budget, monthly_budget, created_at, updated_at`

func scanCostCenter(row pgx.Row) (domain.CostCenter, error) {
	var cc domain.CostCenter
	err := row.Scan(
		&cc.ID,
		&cc.Code,
		&cc.Name,
		&cc.NameAr,
		&cc.Description,
		&cc.CostCenterType,
		&cc.IsActive,
		&cc.ManagerName,
		&cc.ManagerPhone,
		&cc.AnnualBudget,
		&cc.MonthlyBudget,
		&cc.CreatedAt,
		&cc.UpdatedAt,
	)
	if err != nil {
		return domain.CostCenter{}, err
	}
	return cc, nil
}

func (r *PgxCostCenterRepository) SaveCostCenter(ctx context.Context, cc domain.CostCenter) (int64, error) {
	query := `
		INSERT INTO cost_centers (code, name, name_ar, description, cost_center_type, is_active, manager_name, manager_phone, annual_budget, monthly_budget, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id;
	`
	var id int64
	err := r.Pool.QueryRow(ctx, query,
		cc.Code,
		cc.Name,
		cc.NameAr,
		cc.Description,
		cc.CostCenterType,
		cc.IsActive,
		cc.ManagerName,
		cc.ManagerPhone,
		cc.AnnualBudget,
		cc.MonthlyBudget,
		cc.CreatedAt,
		cc.UpdatedAt,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("%w: cost center with code %s already exists", apperrors.ErrDuplicate, cc.Code)
		}
		return 0, fmt.Errorf("failed to save cost center %s: %w", cc.Code, err)
	}
	return id, nil
}

func (r *PgxCostCenterRepository) FindCostCenterByID(ctx context.Context, id int64) (*domain.CostCenter, error) {
	query := `SELECT ` + costCenterColumns + ` FROM cost_centers WHERE id = $1;`
	cc, err := scanCostCenter(r.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cost center %d: %w", id, err)
	}
	return &cc, nil
}

func (r *PgxCostCenterRepository) ListCostCenters(ctx context.Context) ([]domain.CostCenter, error) {
	query := `SELECT ` + costCenterColumns + ` FROM cost_centers ORDER BY code;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cost centers: %w", err)
	}
	defer rows.Close()

	centers := []domain.CostCenter{}
	for rows.Next() {
		cc, err := scanCostCenter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cost center row: %w", err)
		}
		centers = append(centers, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cost center rows: %w", err)
	}
	return centers, nil
}

// ExpenseDebitTotal sums posted debit legs on EXPENSE accounts tagged to the
// cost center. Restricting to EXPENSE accounts keeps receivable accruals,
// which also carry the tag, out of the expense figure.
func (r *PgxCostCenterRepository) ExpenseDebitTotal(ctx context.Context, costCenterID int64, from, to *time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(t.amount), 0)
		FROM transactions t
		JOIN journal_entries e ON e.entry_id = t.entry_id
		JOIN accounts a ON a.account_id = t.account_id
		WHERE t.cost_center_id = $1
		  AND t.transaction_type = 'DEBIT'
		  AND a.account_type = 'EXPENSE'
		  AND e.is_posted
		  AND ($2::date IS NULL OR e.entry_date >= $2)
		  AND ($3::date IS NULL OR e.entry_date <= $3);
	`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, costCenterID, from, to).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses for cost center %d: %w", costCenterID, err)
	}
	return total, nil
}

// CashTotals sums posted cash movement tagged to the cost center, restricted
// to the given account codes. Debits are inflow, credits outflow.
func (r *PgxCostCenterRepository) CashTotals(ctx context.Context, costCenterID int64, from, to *time.Time, accountCodes []string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(t.amount) FILTER (WHERE t.transaction_type = 'DEBIT'), 0),
			COALESCE(SUM(t.amount) FILTER (WHERE t.transaction_type = 'CREDIT'), 0)
		FROM transactions t
		JOIN journal_entries e ON e.entry_id = t.entry_id
		JOIN accounts a ON a.account_id = t.account_id
		WHERE t.cost_center_id = $1
		  AND a.code = ANY($4)
		  AND e.is_posted
		  AND ($2::date IS NULL OR e.entry_date >= $2)
		  AND ($3::date IS NULL OR e.entry_date <= $3);
	`
	var inflow, outflow decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, costCenterID, from, to, accountCodes).Scan(&inflow, &outflow); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum cash totals for cost center %d: %w", costCenterID, err)
	}
	return inflow, outflow, nil
}

// NetBefore returns debit minus credit over all of the cost center's posted
// transactions strictly before the given date.
func (r *PgxCostCenterRepository) NetBefore(ctx context.Context, costCenterID int64, before time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN t.transaction_type = 'DEBIT' THEN t.amount ELSE -t.amount END), 0)
		FROM transactions t
		JOIN journal_entries e ON e.entry_id = t.entry_id
		WHERE t.cost_center_id = $1
		  AND e.is_posted
		  AND e.entry_date < $2;
	`
	var net decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, costCenterID, before).Scan(&net); err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute opening net for cost center %d: %w", costCenterID, err)
	}
	return net, nil
}
