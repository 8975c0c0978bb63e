package services

import (
	"context"

	"github.com/demir/enrollpass/internal/app/models"
)

// Principal identifies the authenticated caller of a service operation.
// Services receive it explicitly instead of reading ambient request
// state, so every capability check is visible at the call site.
type Principal struct {
	ID    int64
	Email string
	Role  models.RoleType
}

// IsAdmin reports whether the principal holds the admin capability.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// UserStore is the persistence surface services need for users.
// Implemented by repositories.UserRepository.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// CourseStore is the persistence surface services need for courses.
// Implemented by repositories.CourseRepository.
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context) ([]*models.Course, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

// EnrollmentStore is the persistence surface services need for
// enrollments. Implemented by repositories.EnrollmentRepository. Admit
// and Redeem carry the storage-level race guarantees the admission
// engine and check-in machine rely on (see the repository).
type EnrollmentStore interface {
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	GetByToken(ctx context.Context, token string) (*models.Enrollment, error)
	FindByStudentAndCourse(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Enrollment, error)
	ListAll(ctx context.Context) ([]*models.Enrollment, error)
	CountByCourse(ctx context.Context, courseID int64) (int, error)
	GetCountsByCourseIDs(ctx context.Context, courseIDs []int64) (map[int64]int, map[int64]int, error)
	Admit(ctx context.Context, studentID, courseID int64, tokenFn func(enrollmentID int64) (string, error)) (*models.Enrollment, error)
	Redeem(ctx context.Context, token string) (*models.Enrollment, bool, error)
	Delete(ctx context.Context, id int64) error
}
