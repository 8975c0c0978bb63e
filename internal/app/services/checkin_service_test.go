package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demir/enrollpass/internal/app/models"
	"github.com/demir/enrollpass/internal/pkg/apperrors"
)

func checkInServiceUnderTest(env *testEnv) CheckInService {
	return NewCheckInService(env.enrollments, zerolog.Nop())
}

func TestVerify_FirstRedemption(t *testing.T) {
	env := newTestEnv()
	admin := env.addUser("Admin", "admin@workshop.com", models.RoleAdmin)
	jane := env.addUser("Jane", "jane@example.com", models.RoleStudent)
	course := env.addCourse("Screen Printing",
		time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC), 10)
	enrollment := env.addEnrollment(jane.ID, course.ID)

	svc := checkInServiceUnderTest(env)
	resp, err := svc.Verify(context.Background(), principalFor(admin), enrollment.CredentialToken)
	require.NoError(t, err)

	assert.False(t, resp.AlreadyCheckedIn)
	assert.Equal(t, "Check-in successful", resp.Message)
	assert.True(t, resp.Enrollment.CheckedIn)
	assert.NotNil(t, resp.Enrollment.CheckedInAt)
}

func TestVerify_Idempotent(t *testing.T) {
	env := newTestEnv()
	admin := env.addUser("Admin", "admin@workshop.com", models.RoleAdmin)
	jane := env.addUser("Jane", "jane@example.com", models.RoleStudent)
	course := env.addCourse("Screen Printing",
		time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC), 10)
	enrollment := env.addEnrollment(jane.ID, course.ID)

	svc := checkInServiceUnderTest(env)
	first, err := svc.Verify(context.Background(), principalFor(admin), enrollment.CredentialToken)
	require.NoError(t, err)
	require.NotNil(t, first.Enrollment.CheckedInAt)

	second, err := svc.Verify(context.Background(), principalFor(admin), enrollment.CredentialToken)
	require.NoError(t, err)

	assert.True(t, second.AlreadyCheckedIn)
	assert.Equal(t, "Already checked in", second.Message)
	// The original check-in timestamp is preserved.
	assert.Equal(t, *first.Enrollment.CheckedInAt, *second.Enrollment.CheckedInAt)
}

func TestVerify_StudentForbidden(t *testing.T) {
	env := newTestEnv()
	jane := env.addUser("Jane", "jane@example.com", models.RoleStudent)
	course := env.addCourse("Screen Printing",
		time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC), 10)
	enrollment := env.addEnrollment(jane.ID, course.ID)

	svc := checkInServiceUnderTest(env)
	_, err := svc.Verify(context.Background(), principalFor(jane), enrollment.CredentialToken)
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// The failed verify must not have mutated anything.
	scan, err := svc.Scan(context.Background(), enrollment.CredentialToken)
	require.NoError(t, err)
	assert.False(t, scan.CheckedIn)
}

func TestVerify_UnknownToken(t *testing.T) {
	env := newTestEnv()
	admin := env.addUser("Admin", "admin@workshop.com", models.RoleAdmin)

	svc := checkInServiceUnderTest(env)
	_, err := svc.Verify(context.Background(), principalFor(admin), "ENROLL:9:9:9:bogus")
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)
}

func TestScan_ReadOnly(t *testing.T) {
	env := newTestEnv()
	admin := env.addUser("Admin", "admin@workshop.com", models.RoleAdmin)
	jane := env.addUser("Jane", "jane@example.com", models.RoleStudent)
	course := env.addCourse("Screen Printing",
		time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC), 10)
	enrollment := env.addEnrollment(jane.ID, course.ID)

	svc := checkInServiceUnderTest(env)

	// Repeated scans never flip the state.
	for i := 0; i < 3; i++ {
		scan, err := svc.Scan(context.Background(), enrollment.CredentialToken)
		require.NoError(t, err)
		assert.False(t, scan.CheckedIn)
	}

	_, err := svc.Verify(context.Background(), principalFor(admin), enrollment.CredentialToken)
	require.NoError(t, err)

	scan, err := svc.Scan(context.Background(), enrollment.CredentialToken)
	require.NoError(t, err)
	assert.True(t, scan.CheckedIn)
	assert.Equal(t, jane.Name, scan.Enrollment.StudentName)
	assert.Equal(t, course.Title, scan.Enrollment.CourseTitle)
}

func TestScan_UnknownToken(t *testing.T) {
	env := newTestEnv()

	svc := checkInServiceUnderTest(env)
	_, err := svc.Scan(context.Background(), "ENROLL:9:9:9:bogus")
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)
}
