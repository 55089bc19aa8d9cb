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

type PgxPayrollRepository struct {
	BaseRepository
}

func newPgxPayrollRepository(pool *pgxpool.Pool) portsrepo.PayrollRepository {
	return &PgxPayrollRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.PayrollRepository = (*PgxPayrollRepository)(nil)

func (r *PgxPayrollRepository) SaveTeacher(ctx context.Context, t domain.Teacher) (int64, error) {
	query := `
		INSERT INTO teachers (full_name, phone, branches, hire_date, hourly_rate, monthly_salary, salary_type, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id;
	`
	var id int64
	err := r.Pool.QueryRow(ctx, query,
		t.FullName,
		t.Phone,
		t.Branches,
		t.HireDate,
		t.HourlyRate,
		t.MonthlySalary,
		t.SalaryType,
		t.Notes,
		t.CreatedAt,
		t.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save teacher %s: %w", t.FullName, err)
	}
	return id, nil
}

func (r *PgxPayrollRepository) FindTeacherByID(ctx context.Context, id int64) (*domain.Teacher, error) {
	query := `SELECT id, full_name, phone, branches, hire_date, hourly_rate, monthly_salary, salary_type, notes, created_at, updated_at FROM teachers WHERE id = $1;`
	var t domain.Teacher
	err := r.Pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.FullName, &t.Phone, &t.Branches, &t.HireDate,
		&t.HourlyRate, &t.MonthlySalary, &t.SalaryType, &t.Notes,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find teacher %d: %w", id, err)
	}
	return &t, nil
}

func (r *PgxPayrollRepository) SaveEmployee(ctx context.Context, e domain.Employee) (int64, error) {
	query := `
		INSERT INTO employees (full_name, phone, hire_date, salary, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`
	var id int64
	err := r.Pool.QueryRow(ctx, query,
		e.FullName,
		e.Phone,
		e.HireDate,
		e.Salary,
		e.Position,
		e.CreatedAt,
		e.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save employee %s: %w", e.FullName, err)
	}
	return id, nil
}

func (r *PgxPayrollRepository) FindEmployeeByID(ctx context.Context, id int64) (*domain.Employee, error) {
	query := `SELECT id, full_name, phone, hire_date, salary, position, created_at, updated_at FROM employees WHERE id = $1;`
	var e domain.Employee
	var hireDate sql.NullTime
	err := r.Pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.FullName, &e.Phone, &hireDate, &e.Salary, &e.Position,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find employee %d: %w", id, err)
	}
	if hireDate.Valid {
		t := hireDate.Time
		e.HireDate = &t
	}
	return &e, nil
}

func (r *PgxPayrollRepository) MonthlySessions(ctx context.Context, teacherID int64, year int, month time.Month) (int64, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	query := `
		SELECT COALESCE(SUM(sessions), 0)
		FROM teacher_attendance
		WHERE teacher_id = $1
		  AND attendance_date >= $2
		  AND attendance_date < $3;
	`
	var sessions int64
	if err := r.Pool.QueryRow(ctx, query, teacherID, start, end).Scan(&sessions); err != nil {
		return 0, fmt.Errorf("failed to count sessions for teacher %d: %w", teacherID, err)
	}
	return sessions, nil
}

// RecordAttendance upserts the session count for a teacher and day. Recording
// the same day twice replaces the count instead of double-counting it.
func (r *PgxPayrollRepository) RecordAttendance(ctx context.Context, teacherID int64, date time.Time, sessions int64) error {
	query := `
		INSERT INTO teacher_attendance (teacher_id, attendance_date, sessions, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (teacher_id, attendance_date) DO UPDATE SET sessions = EXCLUDED.sessions;
	`
	if _, err := r.Pool.Exec(ctx, query, teacherID, date, sessions); err != nil {
		return fmt.Errorf("failed to record attendance for teacher %d: %w", teacherID, err)
	}
	return nil
}

func (r *PgxPayrollRepository) FindSalaryPosting(ctx context.Context, kind domain.AdvanceOwnerKind, ownerID int64, year int, month time.Month, purpose domain.SalaryPostingPurpose) (*domain.SalaryPosting, error) {
	query := `
		SELECT id, owner_kind, owner_id, year, month, purpose, entry_id, created_at
		FROM salary_postings
		WHERE owner_kind = $1 AND owner_id = $2 AND year = $3 AND month = $4 AND purpose = $5;
	`
	var sp domain.SalaryPosting
	var monthNum int
	err := r.Pool.QueryRow(ctx, query, kind, ownerID, year, int(month), purpose).Scan(
		&sp.ID, &sp.OwnerKind, &sp.OwnerID, &sp.Year, &monthNum, &sp.Purpose, &sp.EntryID, &sp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find salary posting for %s %d: %w", kind, ownerID, err)
	}
	sp.Month = time.Month(monthNum)
	return &sp, nil
}

// CreateSalaryPosting inserts the dedup row. The unique constraint on
// (owner kind, owner id, year, month, purpose) is the final arbiter when two
// posters race past the service-level check.
func (r *PgxPayrollRepository) CreateSalaryPosting(ctx context.Context, sp domain.SalaryPosting) error {
	query := `
		INSERT INTO salary_postings (owner_kind, owner_id, year, month, purpose, entry_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query, sp.OwnerKind, sp.OwnerID, sp.Year, int(sp.Month), sp.Purpose, sp.EntryID, sp.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: salary %s already recorded for %s %d in %d-%02d", apperrors.ErrDuplicate, sp.Purpose, sp.OwnerKind, sp.OwnerID, sp.Year, int(sp.Month))
		}
		return fmt.Errorf("failed to record salary posting for %s %d: %w", sp.OwnerKind, sp.OwnerID, err)
	}
	return nil
}
