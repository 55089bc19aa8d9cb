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

type PgxSchoolRepository struct {
	BaseRepository
}

func newPgxSchoolRepository(pool *pgxpool.Pool) portsrepo.SchoolRepository {
	return &PgxSchoolRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.SchoolRepository = (*PgxSchoolRepository)(nil)

func (r *PgxSchoolRepository) SaveStudent(ctx context.Context, s domain.Student) (int64, error) {
	query := `
		INSERT INTO students (student_no, full_name, email, phone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`
	var id int64
	err := r.Pool.QueryRow(ctx, query,
		s.StudentNo,
		s.FullName,
		s.Email,
		s.Phone,
		s.IsActive,
		s.CreatedAt,
		s.UpdatedAt,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("%w: student with number %s already exists", apperrors.ErrDuplicate, s.StudentNo)
		}
		return 0, fmt.Errorf("failed to save student %s: %w", s.FullName, err)
	}
	return id, nil
}

func (r *PgxSchoolRepository) FindStudentByID(ctx context.Context, id int64) (*domain.Student, error) {
	query := `SELECT id, student_no, full_name, email, phone, is_active, created_at, updated_at FROM students WHERE id = $1;`
	var s domain.Student
	err := r.Pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.StudentNo, &s.FullName, &s.Email, &s.Phone, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find student %d: %w", id, err)
	}
	return &s, nil
}

const courseColumns = `id, name, name_ar, description, price, duration_hours, cost_center_id, is_active, created_at, updated_at`

func scanCourse(row pgx.Row) (domain.Course, error) {
	var c domain.Course
	var durationHours, costCenterID sql.NullInt64
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.NameAr,
		&c.Description,
		&c.Price,
		&durationHours,
		&costCenterID,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return domain.Course{}, err
	}
	if durationHours.Valid {
		h := durationHours.Int64
		c.DurationHours = &h
	}
	if costCenterID.Valid {
		cc := costCenterID.Int64
		c.CostCenterID = &cc
	}
	return c, nil
}

func (r *PgxSchoolRepository) SaveCourse(ctx context.Context, c domain.Course) (int64, error) {
	query := `
		INSERT INTO courses (name, name_ar, description, price, duration_hours, cost_center_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id;
	`
	var id int64
	err := r.Pool.QueryRow(ctx, query,
		c.Name,
		c.NameAr,
		c.Description,
		c.Price,
		c.DurationHours,
		c.CostCenterID,
		c.IsActive,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save course %s: %w", c.Name, err)
	}
	return id, nil
}

func (r *PgxSchoolRepository) FindCourseByID(ctx context.Context, id int64) (*domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1;`
	c, err := scanCourse(r.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find course %d: %w", id, err)
	}
	return &c, nil
}

func (r *PgxSchoolRepository) ListActiveCoursesByCostCenter(ctx context.Context, costCenterID int64) ([]domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE cost_center_id = $1 AND is_active ORDER BY id;`
	rows, err := r.Pool.Query(ctx, query, costCenterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses for cost center %d: %w", costCenterID, err)
	}
	defer rows.Close()

	courses := []domain.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}
	return courses, nil
}

const assignmentColumns = `id, course_id, teacher_id, start_date, end_date, hourly_rate, monthly_rate, total_hours, is_active, notes, created_at`

func scanAssignment(row pgx.Row) (domain.CourseTeacherAssignment, error) {
	var a domain.CourseTeacherAssignment
	var endDate sql.NullTime
	var hourlyRate, monthlyRate decimal.NullDecimal
	var totalHours sql.NullInt64
	err := row.Scan(
		&a.ID,
		&a.CourseID,
		&a.TeacherID,
		&a.StartDate,
		&endDate,
		&hourlyRate,
		&monthlyRate,
		&totalHours,
		&a.IsActive,
		&a.Notes,
		&a.CreatedAt,
	)
	if err != nil {
		return domain.CourseTeacherAssignment{}, err
	}
	if endDate.Valid {
		t := endDate.Time
		a.EndDate = &t
	}
	if hourlyRate.Valid {
		a.HourlyRate = &hourlyRate.Decimal
	}
	if monthlyRate.Valid {
		a.MonthlyRate = &monthlyRate.Decimal
	}
	if totalHours.Valid {
		h := totalHours.Int64
		a.TotalHours = &h
	}
	return a, nil
}

func (r *PgxSchoolRepository) SaveAssignment(ctx context.Context, a domain.CourseTeacherAssignment) (int64, error) {
	query := `
		INSERT INTO course_teacher_assignments (course_id, teacher_id, start_date, end_date, hourly_rate, monthly_rate, total_hours, is_active, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id;
	`
	var id int64
	err := r.Pool.QueryRow(ctx, query,
		a.CourseID,
		a.TeacherID,
		a.StartDate,
		a.EndDate,
		a.HourlyRate,
		a.MonthlyRate,
		a.TotalHours,
		a.IsActive,
		a.Notes,
		a.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save assignment for course %d: %w", a.CourseID, err)
	}
	return id, nil
}

func (r *PgxSchoolRepository) ListActiveAssignments(ctx context.Context, courseIDs []int64, from, to *time.Time) ([]domain.CourseTeacherAssignment, error) {
	if len(courseIDs) == 0 {
		return []domain.CourseTeacherAssignment{}, nil
	}

	query := `
		SELECT ` + assignmentColumns + `
		FROM course_teacher_assignments
		WHERE course_id = ANY($1)
		  AND is_active
		  AND ($2::date IS NULL OR start_date >= $2)
		  AND ($3::date IS NULL OR start_date <= $3)
		ORDER BY id;
	`
	rows, err := r.Pool.Query(ctx, query, courseIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	assignments := []domain.CourseTeacherAssignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment row: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignment rows: %w", err)
	}
	return assignments, nil
}

const enrollmentColumns = `id, student_id, course_id, enrollment_date, total_amount, discount_percent, discount_amount, payment_method, notes, is_completed, completion_date, accrual_entry_id, completion_entry_id, created_at, created_by, last_updated_at, last_updated_by`

func scanEnrollment(row pgx.Row) (domain.Enrollment, error) {
	var e domain.Enrollment
	var completionDate sql.NullTime
	var accrualEntryID, completionEntryID sql.NullString
	err := row.Scan(
		&e.ID,
		&e.StudentID,
		&e.CourseID,
		&e.EnrollmentDate,
		&e.TotalAmount,
		&e.DiscountPercent,
		&e.DiscountAmount,
		&e.PaymentMethod,
		&e.Notes,
		&e.IsCompleted,
		&completionDate,
		&accrualEntryID,
		&completionEntryID,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return domain.Enrollment{}, err
	}
	if completionDate.Valid {
		t := completionDate.Time
		e.CompletionDate = &t
	}
	if accrualEntryID.Valid {
		s := accrualEntryID.String
		e.AccrualEntryID = &s
	}
	if completionEntryID.Valid {
		s := completionEntryID.String
		e.CompletionEntryID = &s
	}
	return e, nil
}

func (r *PgxSchoolRepository) SaveEnrollment(ctx context.Context, e domain.Enrollment) (int64, error) {
	query := `
		INSERT INTO enrollments (student_id, course_id, enrollment_date, total_amount, discount_percent, discount_amount, payment_method, notes, is_completed, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id;
	`
	var id int64
	err := r.Pool.QueryRow(ctx, query,
		e.StudentID,
		e.CourseID,
		e.EnrollmentDate,
		e.TotalAmount,
		e.DiscountPercent,
		e.DiscountAmount,
		e.PaymentMethod,
		e.Notes,
		e.IsCompleted,
		e.CreatedAt,
		e.CreatedBy,
		e.LastUpdatedAt,
		e.LastUpdatedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save enrollment for student %d: %w", e.StudentID, err)
	}
	return id, nil
}

func (r *PgxSchoolRepository) FindEnrollmentByID(ctx context.Context, id int64) (*domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1;`
	e, err := scanEnrollment(r.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find enrollment %d: %w", id, err)
	}
	return &e, nil
}

func (r *PgxSchoolRepository) SetEnrollmentAccrualEntry(ctx context.Context, enrollmentID int64, entryID string) error {
	query := `UPDATE enrollments SET accrual_entry_id = $2, last_updated_at = NOW() WHERE id = $1;`
	cmdTag, err := r.Pool.Exec(ctx, query, enrollmentID, entryID)
	if err != nil {
		return fmt.Errorf("failed to set accrual entry on enrollment %d: %w", enrollmentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxSchoolRepository) SetEnrollmentCompletion(ctx context.Context, enrollmentID int64, entryID string, completedAt time.Time) error {
	query := `
		UPDATE enrollments
		SET is_completed = TRUE, completion_date = $3, completion_entry_id = $2, last_updated_at = NOW()
		WHERE id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, enrollmentID, entryID, completedAt)
	if err != nil {
		return fmt.Errorf("failed to complete enrollment %d: %w", enrollmentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxSchoolRepository) AmountPaid(ctx context.Context, enrollmentID int64) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(paid_amount), 0) FROM receipts WHERE enrollment_id = $1;`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, enrollmentID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments for enrollment %d: %w", enrollmentID, err)
	}
	return total, nil
}

func (r *PgxSchoolRepository) EnrollmentTotal(ctx context.Context, courseID int64, from, to *time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM enrollments
		WHERE course_id = $1
		  AND ($2::date IS NULL OR enrollment_date >= $2)
		  AND ($3::date IS NULL OR enrollment_date <= $3);
	`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, courseID, from, to).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum enrollment totals for course %d: %w", courseID, err)
	}
	return total, nil
}
