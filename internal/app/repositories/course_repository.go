package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/demir/enrollpass/internal/app/models"
	"github.com/demir/enrollpass/internal/pkg/apperrors"
)

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

// Create inserts a new course and fills in the assigned id and timestamp.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (title, description, instructor_id, start_time, end_time, location, capacity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		course.Title,
		course.Description,
		course.InstructorID,
		course.StartTime,
		course.EndTime,
		course.Location,
		course.Capacity,
	).Scan(&course.ID, &course.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by ID with its instructor resolved
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `
		SELECT c.id, c.title, c.description, c.instructor_id, c.start_time, c.end_time,
		       c.location, c.capacity, c.created_at, u.name, u.email
		FROM courses c
		JOIN users u ON u.id = c.instructor_id
		WHERE c.id = $1
	`

	var course models.Course
	var instructor models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.InstructorID,
		&course.StartTime,
		&course.EndTime,
		&course.Location,
		&course.Capacity,
		&course.CreatedAt,
		&instructor.Name,
		&instructor.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	instructor.ID = course.InstructorID
	course.Instructor = &instructor

	return &course, nil
}

// List retrieves all courses ordered by start time ascending, the
// public listing order.
func (r *CourseRepository) List(ctx context.Context) ([]*models.Course, error) {
	query := squirrel.Select(
		"c.id", "c.title", "c.description", "c.instructor_id", "c.start_time", "c.end_time",
		"c.location", "c.capacity", "c.created_at", "u.name", "u.email",
	).
		From("courses c").
		Join("users u ON u.id = c.instructor_id").
		OrderBy("c.start_time ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		var instructor models.User
		if err := rows.Scan(
			&course.ID,
			&course.Title,
			&course.Description,
			&course.InstructorID,
			&course.StartTime,
			&course.EndTime,
			&course.Location,
			&course.Capacity,
			&course.CreatedAt,
			&instructor.Name,
			&instructor.Email,
		); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		instructor.ID = course.InstructorID
		course.Instructor = &instructor
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// ListByStudent retrieves the courses a student currently holds a live
// enrollment in. Used by the admission engine's overlap check.
func (r *CourseRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Course, error) {
	query := squirrel.Select(
		"c.id", "c.title", "c.description", "c.instructor_id", "c.start_time", "c.end_time",
		"c.location", "c.capacity", "c.created_at",
	).
		From("courses c").
		Join("enrollments e ON e.course_id = c.id").
		Where("e.student_id = ?", studentID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(
			&course.ID,
			&course.Title,
			&course.Description,
			&course.InstructorID,
			&course.StartTime,
			&course.EndTime,
			&course.Location,
			&course.Capacity,
			&course.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// Update updates an existing course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET title = $1, description = $2, start_time = $3, end_time = $4, location = $5, capacity = $6
		WHERE id = $7
	`

	cmdTag, err := r.db.Exec(ctx, query,
		course.Title,
		course.Description,
		course.StartTime,
		course.EndTime,
		course.Location,
		course.Capacity,
		course.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete deletes a course by ID. Dependent enrollments are removed by
// the cascade, which permanently invalidates their credentials.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}
