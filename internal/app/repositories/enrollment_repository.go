package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/demir/enrollpass/internal/app/models"
	"github.com/demir/enrollpass/internal/db"
	"github.com/demir/enrollpass/internal/pkg/apperrors"
	"github.com/demir/enrollpass/internal/pkg/dberrors"
)

// Name of the unique constraint guarding the (student, course) pair.
// A violation here is a concurrent duplicate admission losing the race.
const studentCourseConstraint = "uq_enrollment_student_course"

// enrollmentColumns are the columns selected for every enrollment read,
// joined with student and course context.
var enrollmentColumns = []string{
	"e.id", "e.student_id", "e.course_id", "e.enrolled_at",
	"e.checked_in", "e.checked_in_at", "e.credential_token",
	"u.name", "u.email", "c.title", "c.start_time", "c.end_time",
}

// EnrollmentRepository handles database operations for enrollments.
// It owns the transactional admission insert, so it holds the database
// wrapper rather than the bare pool.
type EnrollmentRepository struct {
	database *db.PostgresDB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(database *db.PostgresDB) *EnrollmentRepository {
	return &EnrollmentRepository{
		database: database,
	}
}

// scanEnrollment scans one joined enrollment row
func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var e models.Enrollment
	var student models.User
	var course models.Course

	err := row.Scan(
		&e.ID,
		&e.StudentID,
		&e.CourseID,
		&e.EnrolledAt,
		&e.CheckedIn,
		&e.CheckedInAt,
		&e.CredentialToken,
		&student.Name,
		&student.Email,
		&course.Title,
		&course.StartTime,
		&course.EndTime,
	)
	if err != nil {
		return nil, err
	}

	student.ID = e.StudentID
	course.ID = e.CourseID
	e.Student = &student
	e.Course = &course

	return &e, nil
}

func (r *EnrollmentRepository) selectQuery() squirrel.SelectBuilder {
	return squirrel.Select(enrollmentColumns...).
		From("enrollments e").
		Join("users u ON u.id = e.student_id").
		Join("courses c ON c.id = e.course_id").
		PlaceholderFormat(squirrel.Dollar)
}

// GetByID retrieves an enrollment by ID
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	sql, args, err := r.selectQuery().Where("e.id = ?", id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	enrollment, err := scanEnrollment(r.database.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return enrollment, nil
}

// GetByToken retrieves an enrollment by its credential token
func (r *EnrollmentRepository) GetByToken(ctx context.Context, token string) (*models.Enrollment, error) {
	sql, args, err := r.selectQuery().Where("e.credential_token = ?", token).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	enrollment, err := scanEnrollment(r.database.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return enrollment, nil
}

// FindByStudentAndCourse retrieves the enrollment for a (student, course)
// pair, or ErrEnrollmentNotFound when none exists.
func (r *EnrollmentRepository) FindByStudentAndCourse(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	sql, args, err := r.selectQuery().
		Where("e.student_id = ?", studentID).
		Where("e.course_id = ?", courseID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	enrollment, err := scanEnrollment(r.database.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return enrollment, nil
}

// listQuery runs a filtered enrollment select
func (r *EnrollmentRepository) listQuery(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Enrollment, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.database.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		enrollment, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return enrollments, nil
}

// ListByStudent retrieves all enrollments of one student
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error) {
	return r.listQuery(ctx, r.selectQuery().Where("e.student_id = ?", studentID).OrderBy("e.enrolled_at ASC"))
}

// ListByCourse retrieves all enrollments of one course
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Enrollment, error) {
	return r.listQuery(ctx, r.selectQuery().Where("e.course_id = ?", courseID).OrderBy("e.enrolled_at ASC"))
}

// ListAll retrieves every enrollment (admin view)
func (r *EnrollmentRepository) ListAll(ctx context.Context) ([]*models.Enrollment, error) {
	return r.listQuery(ctx, r.selectQuery().OrderBy("e.enrolled_at ASC"))
}

// CountByCourse returns the live enrollment count of a course
func (r *EnrollmentRepository) CountByCourse(ctx context.Context, courseID int64) (int, error) {
	var count int
	err := r.database.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE course_id = $1`, courseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting enrollments: %w", err)
	}
	return count, nil
}

// GetCountsByCourseIDs returns enrolled and checked-in counts for
// multiple courses at once. Courses with no enrollments are absent from
// the maps.
func (r *EnrollmentRepository) GetCountsByCourseIDs(ctx context.Context, courseIDs []int64) (map[int64]int, map[int64]int, error) {
	enrolled := make(map[int64]int)
	checkedIn := make(map[int64]int)
	if len(courseIDs) == 0 {
		return enrolled, checkedIn, nil
	}

	query := squirrel.Select(
		"course_id",
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE checked_in)",
	).
		From("enrollments").
		Where(squirrel.Eq{"course_id": courseIDs}).
		GroupBy("course_id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.database.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var courseID int64
		var total, redeemed int
		if err := rows.Scan(&courseID, &total, &redeemed); err != nil {
			return nil, nil, fmt.Errorf("error scanning row: %w", err)
		}
		enrolled[courseID] = total
		checkedIn[courseID] = redeemed
	}

	return enrolled, checkedIn, nil
}

// Admit inserts an enrollment inside a single transaction that locks the
// course row, re-validates capacity, and writes the row complete with
// its credential token. Concurrent admissions for the same course
// serialize on the row lock, so capacity cannot be exceeded; a unique
// violation on the (student, course) constraint means a concurrent
// duplicate won the race and is reported as ErrAlreadyEnrolled.
// The tokenFn callback computes the credential token for the reserved
// enrollment id; it runs inside the transaction.
func (r *EnrollmentRepository) Admit(ctx context.Context, studentID, courseID int64, tokenFn func(enrollmentID int64) (string, error)) (*models.Enrollment, error) {
	var enrollmentID int64

	err := r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var capacity int
		err := tx.QueryRow(ctx,
			`SELECT capacity FROM courses WHERE id = $1 FOR UPDATE`, courseID).Scan(&capacity)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrCourseNotFound
			}
			return fmt.Errorf("error locking course: %w", err)
		}

		var count int
		err = tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM enrollments WHERE course_id = $1`, courseID).Scan(&count)
		if err != nil {
			return fmt.Errorf("error counting enrollments: %w", err)
		}
		if count >= capacity {
			return apperrors.ErrCourseFull
		}

		// Reserve the id up front so the row can be inserted complete
		// with its token; no reader ever observes a token-less enrollment.
		err = tx.QueryRow(ctx,
			`SELECT nextval(pg_get_serial_sequence('enrollments', 'id'))`).Scan(&enrollmentID)
		if err != nil {
			return fmt.Errorf("error reserving enrollment id: %w", err)
		}

		token, err := tokenFn(enrollmentID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO enrollments (id, student_id, course_id, credential_token)
			VALUES ($1, $2, $3, $4)`,
			enrollmentID, studentID, courseID, token)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, studentCourseConstraint) {
				return apperrors.ErrAlreadyEnrolled
			}
			return fmt.Errorf("error inserting enrollment: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, enrollmentID)
}

// Redeem transitions a credential from issued to redeemed exactly once.
// The conditional UPDATE makes concurrent verifies race-safe: only one
// caller sets the timestamp, later ones observe alreadyRedeemed.
func (r *EnrollmentRepository) Redeem(ctx context.Context, token string) (*models.Enrollment, bool, error) {
	cmdTag, err := r.database.Pool.Exec(ctx, `
		UPDATE enrollments
		SET checked_in = TRUE, checked_in_at = NOW()
		WHERE credential_token = $1 AND NOT checked_in`,
		token)
	if err != nil {
		return nil, false, fmt.Errorf("error redeeming credential: %w", err)
	}

	enrollment, err := r.GetByToken(ctx, token)
	if err != nil {
		return nil, false, err
	}

	alreadyRedeemed := cmdTag.RowsAffected() == 0
	return enrollment, alreadyRedeemed, nil
}

// Delete removes an enrollment (cancellation). The seat is freed and the
// credential token becomes permanently invalid.
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.database.Pool.Exec(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting enrollment: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}
