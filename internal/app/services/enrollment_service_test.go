package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demir/enrollpass/internal/app/models"
	"github.com/demir/enrollpass/internal/pkg/apperrors"
)

func enrollmentServiceUnderTest(env *testEnv) EnrollmentService {
	return NewEnrollmentService(env.enrollments, env.courses, zerolog.Nop())
}

func TestEnroll_Success(t *testing.T) {
	env := newTestEnv()
	env.addUser("Admin", "admin@workshop.com", models.RoleAdmin)
	student := env.addUser("Jane", "jane@example.com", models.RoleStudent)
	course := env.addCourse("Screen Printing",
		time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC), 10)

	svc := enrollmentServiceUnderTest(env)
	resp, err := svc.Enroll(context.Background(), principalFor(student), course.ID)
	require.NoError(t, err)

	assert.Equal(t, student.ID, resp.Enrollment.StudentID)
	assert.Equal(t, course.ID, resp.Enrollment.CourseID)
	assert.False(t, resp.Enrollment.CheckedIn)
	assert.True(t, strings.HasPrefix(resp.Enrollment.CredentialToken, "ENROLL:"))
	assert.NotEmpty(t, resp.QRCodeImage)
}

func TestEnroll_CourseNotFound(t *testing.T) {
	env := newTestEnv()
	student := env.addUser("Jane", "jane@example.com", models.RoleStudent)

	svc := enrollmentServiceUnderTest(env)
	_, err := svc.Enroll(context.Background(), principalFor(student), 42)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestEnroll_AdminRejected(t *testing.T) {
	env := newTestEnv()
	admin := env.addUser("Admin", "admin@workshop.com", models.RoleAdmin)
	course := env.addCourse("Screen Printing",
		time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC), 10)

	svc := enrollmentServiceUnderTest(env)
	_, err := svc.Enroll(context.Background(), principalFor(admin), course.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestEnroll_Duplicate(t *testing.T) {
	env := newTestEnv()
	student := env.addUser("Jane", "jane@example.com", models.RoleStudent)
	course := env.addCourse("Screen Printing",
		time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC), 10)

	svc := enrollmentServiceUnderTest(env)
	_, err := svc.Enroll(context.Background(), principalFor(student), course.ID)
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), principalFor(student), course.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)
}

func TestEnroll_CourseFull(t *testing.T) {
	env := newTestEnv()
	first := env.addUser("Jane", "jane@example.com", models.RoleStudent)
	second := env.addUser("John", "john@example.com", models.RoleStudent)
	course := env.addCourse("Screen Printing",
		time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC), 1)

	svc := enrollmentServiceUnderTest(env)
	_, err := svc.Enroll(context.Background(), principalFor(first), course.ID)
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), principalFor(second), course.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseFull)
}

func TestEnroll_ScheduleConflict(t *testing.T) {
	env := newTestEnv()
	student := env.addUser("Jane", "jane@example.com", models.RoleStudent)
	pottery := env.addCourse("Pottery",
		time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC), 10)
	// Starts one second before the pottery workshop ends.
	welding := env.addCourse("Welding",
		time.Date(2025, 6, 1, 10, 59, 59, 0, time.UTC),
		time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC), 10)

	svc := enrollmentServiceUnderTest(env)
	_, err := svc.Enroll(context.Background(), principalFor(student), pottery.ID)
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), principalFor(student), welding.ID)
	require.ErrorIs(t, err, apperrors.ErrScheduleConflict)
	assert.Contains(t, err.Error(), "Pottery")
}

func TestEnroll_TouchingWindowsAllowed(t *testing.T) {
	env := newTestEnv()
	student := env.addUser("Jane", "jane@example.com", models.RoleStudent)
	morning := env.addCourse("Morning",
		time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC), 10)
	// Starts exactly when the morning course ends.
	afternoon := env.addCourse("Afternoon",
		time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC), 10)

	svc := enrollmentServiceUnderTest(env)
	_, err := svc.Enroll(context.Background(), principalFor(student), morning.ID)
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), principalFor(student), afternoon.ID)
	assert.NoError(t, err)
}

func TestEnroll_DuplicateReportedBeforeCapacity(t *testing.T) {
	env := newTestEnv()
	student := env.addUser("Jane", "jane@example.com", models.RoleStudent)
	course := env.addCourse("Screen Printing",
		time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC), 1)

	svc := enrollmentServiceUnderTest(env)
	_, err := svc.Enroll(context.Background(), principalFor(student), course.ID)
	require.NoError(t, err)

	// The course is now full AND the student is already enrolled; the
	// duplicate check wins.
	_, err = svc.Enroll(context.Background(), principalFor(student), course.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)
}

func TestListForCaller(t *testing.T) {
	env := newTestEnv()
	admin := env.addUser("Admin", "admin@workshop.com", models.RoleAdmin)
	jane := env.addUser("Jane", "jane@example.com", models.RoleStudent)
	john := env.addUser("John", "john@example.com", models.RoleStudent)
	course := env.addCourse("Screen Printing",
		time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC), 10)
	env.addEnrollment(jane.ID, course.ID)
	env.addEnrollment(john.ID, course.ID)

	svc := enrollmentServiceUnderTest(env)

	own, err := svc.ListForCaller(context.Background(), principalFor(jane))
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, jane.ID, own[0].StudentID)

	all, err := svc.ListForCaller(context.Background(), principalFor(admin))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListByCourse_AdminOnly(t *testing.T) {
	env := newTestEnv()
	admin := env.addUser("Admin", "admin@workshop.com", models.RoleAdmin)
	jane := env.addUser("Jane", "jane@example.com", models.RoleStudent)
	course := env.addCourse("Screen Printing",
		time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC), 10)
	env.addEnrollment(jane.ID, course.ID)

	svc := enrollmentServiceUnderTest(env)

	_, err := svc.ListByCourse(context.Background(), principalFor(jane), course.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	enrollments, err := svc.ListByCourse(context.Background(), principalFor(admin), course.ID)
	require.NoError(t, err)
	assert.Len(t, enrollments, 1)

	_, err = svc.ListByCourse(context.Background(), principalFor(admin), 99)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestGetCredential_Ownership(t *testing.T) {
	env := newTestEnv()
	admin := env.addUser("Admin", "admin@workshop.com", models.RoleAdmin)
	jane := env.addUser("Jane", "jane@example.com", models.RoleStudent)
	john := env.addUser("John", "john@example.com", models.RoleStudent)
	course := env.addCourse("Screen Printing",
		time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC), 10)
	enrollment := env.addEnrollment(jane.ID, course.ID)

	svc := enrollmentServiceUnderTest(env)

	resp, err := svc.GetCredential(context.Background(), principalFor(jane), enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.CredentialToken, resp.CredentialToken)
	assert.NotEmpty(t, resp.QRCodeImage)

	_, err = svc.GetCredential(context.Background(), principalFor(john), enrollment.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.GetCredential(context.Background(), principalFor(admin), enrollment.ID)
	assert.NoError(t, err)
}

func TestCancel_FreesSeat(t *testing.T) {
	env := newTestEnv()
	jane := env.addUser("Jane", "jane@example.com", models.RoleStudent)
	john := env.addUser("John", "john@example.com", models.RoleStudent)
	course := env.addCourse("Screen Printing",
		time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC), 1)

	svc := enrollmentServiceUnderTest(env)
	resp, err := svc.Enroll(context.Background(), principalFor(jane), course.ID)
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), principalFor(john), course.ID)
	require.ErrorIs(t, err, apperrors.ErrCourseFull)

	// Not the owner.
	err = svc.Cancel(context.Background(), principalFor(john), resp.Enrollment.ID)
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, svc.Cancel(context.Background(), principalFor(jane), resp.Enrollment.ID))

	_, err = svc.Enroll(context.Background(), principalFor(john), course.ID)
	assert.NoError(t, err)
}

func TestCancel_NotFound(t *testing.T) {
	env := newTestEnv()
	jane := env.addUser("Jane", "jane@example.com", models.RoleStudent)

	svc := enrollmentServiceUnderTest(env)
	err := svc.Cancel(context.Background(), principalFor(jane), 42)
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)
}
