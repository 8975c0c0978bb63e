package services

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/rs/zerolog"

	"github.com/demir/enrollpass/internal/app/models/dto"
	"github.com/demir/enrollpass/internal/pkg/apperrors"
	"github.com/demir/enrollpass/internal/pkg/credential"
)

// EnrollmentService defines the interface for enrollment operations.
// Enroll is the admission engine: it decides whether a student may take
// a seat in a course and, on success, issues the scannable credential.
type EnrollmentService interface {
	Enroll(ctx context.Context, caller Principal, courseID int64) (*dto.EnrollResponse, error)
	ListForCaller(ctx context.Context, caller Principal) ([]dto.EnrollmentResponse, error)
	ListByCourse(ctx context.Context, caller Principal, courseID int64) ([]dto.EnrollmentResponse, error)
	GetCredential(ctx context.Context, caller Principal, enrollmentID int64) (*dto.CredentialResponse, error)
	Cancel(ctx context.Context, caller Principal, enrollmentID int64) error
}

// enrollmentServiceImpl implements EnrollmentService
type enrollmentServiceImpl struct {
	enrollments EnrollmentStore
	courses     CourseStore
	logger      zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(enrollments EnrollmentStore, courses CourseStore, logger zerolog.Logger) EnrollmentService {
	return &enrollmentServiceImpl{
		enrollments: enrollments,
		courses:     courses,
		logger:      logger,
	}
}

// Enroll applies the admission preconditions in a fixed order, so the
// first failing rule determines the reported error:
//
//  1. the course must exist
//  2. only students enroll
//  3. no duplicate enrollment for the (student, course) pair
//  4. a seat must be free
//  5. the schedule must not overlap any other live enrollment
//
// The checks run against a snapshot; the store's Admit re-validates
// capacity and uniqueness inside its transaction, so race losers still
// come back as ErrCourseFull or ErrAlreadyEnrolled.
func (s *enrollmentServiceImpl) Enroll(ctx context.Context, caller Principal, courseID int64) (*dto.EnrollResponse, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("admins cannot enroll in courses")
	}

	_, err = s.enrollments.FindByStudentAndCourse(ctx, caller.ID, courseID)
	if err == nil {
		return nil, apperrors.ErrAlreadyEnrolled
	}
	if !errors.Is(err, apperrors.ErrEnrollmentNotFound) {
		return nil, err
	}

	count, err := s.enrollments.CountByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if count >= course.Capacity {
		return nil, apperrors.ErrCourseFull
	}

	enrolledCourses, err := s.courses.ListByStudent(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	for _, enrolled := range enrolledCourses {
		if course.OverlapsWith(enrolled) {
			return nil, apperrors.NewScheduleConflictError(enrolled.Title)
		}
	}

	enrollment, err := s.enrollments.Admit(ctx, caller.ID, courseID, func(enrollmentID int64) (string, error) {
		return credential.GenerateToken(enrollmentID, courseID, caller.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("enrollmentId", enrollment.ID).
		Int64("studentId", caller.ID).
		Int64("courseId", courseID).
		Msg("Student admitted to course")

	image, err := credential.RenderPNG(enrollment.CredentialToken)
	if err != nil {
		return nil, err
	}

	return &dto.EnrollResponse{
		Enrollment:  toEnrollmentResponse(enrollment),
		QRCodeImage: base64.StdEncoding.EncodeToString(image),
	}, nil
}

// ListForCaller returns the caller's own enrollments, or every
// enrollment when the caller is an admin.
func (s *enrollmentServiceImpl) ListForCaller(ctx context.Context, caller Principal) ([]dto.EnrollmentResponse, error) {
	if caller.IsAdmin() {
		enrollments, err := s.enrollments.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		return toEnrollmentResponses(enrollments), nil
	}

	enrollments, err := s.enrollments.ListByStudent(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return toEnrollmentResponses(enrollments), nil
}

// ListByCourse returns all enrollments of one course (admin only).
func (s *enrollmentServiceImpl) ListByCourse(ctx context.Context, caller Principal, courseID int64) ([]dto.EnrollmentResponse, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.ErrPermissionDenied
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	enrollments, err := s.enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return toEnrollmentResponses(enrollments), nil
}

// GetCredential re-renders the QR image for an enrollment. Only the
// owning student or an admin may fetch it.
func (s *enrollmentServiceImpl) GetCredential(ctx context.Context, caller Principal, enrollmentID int64) (*dto.CredentialResponse, error) {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	if enrollment.StudentID != caller.ID && !caller.IsAdmin() {
		return nil, apperrors.ErrPermissionDenied
	}

	image, err := credential.RenderPNG(enrollment.CredentialToken)
	if err != nil {
		return nil, err
	}

	return &dto.CredentialResponse{
		CredentialToken: enrollment.CredentialToken,
		QRCodeImage:     base64.StdEncoding.EncodeToString(image),
	}, nil
}

// Cancel removes an enrollment, freeing the seat and invalidating the
// credential. Only the owning student or an admin may cancel.
func (s *enrollmentServiceImpl) Cancel(ctx context.Context, caller Principal, enrollmentID int64) error {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return err
	}

	if enrollment.StudentID != caller.ID && !caller.IsAdmin() {
		return apperrors.ErrPermissionDenied
	}

	if err := s.enrollments.Delete(ctx, enrollmentID); err != nil {
		return err
	}

	s.logger.Info().
		Int64("enrollmentId", enrollmentID).
		Int64("studentId", enrollment.StudentID).
		Int64("courseId", enrollment.CourseID).
		Msg("Enrollment cancelled")

	return nil
}
