package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/demir/enrollpass/internal/app/models/dto"
	"github.com/demir/enrollpass/internal/pkg/apperrors"
)

// AnalyticsService derives attendance statistics from the live
// enrollment set. It is a pure read-side projection: nothing is cached
// or stored, every call recomputes from current state.
type AnalyticsService interface {
	Overview(ctx context.Context, caller Principal) ([]dto.CourseAnalyticsResponse, error)
	CourseAnalytics(ctx context.Context, caller Principal, courseID int64) (*dto.CourseAnalyticsDetailResponse, error)
}

// analyticsServiceImpl implements AnalyticsService
type analyticsServiceImpl struct {
	courses     CourseStore
	enrollments EnrollmentStore
	logger      zerolog.Logger
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(courses CourseStore, enrollments EnrollmentStore, logger zerolog.Logger) AnalyticsService {
	return &analyticsServiceImpl{
		courses:     courses,
		enrollments: enrollments,
		logger:      logger,
	}
}

// attendanceRate is a percentage, defined as 0 for an empty course.
func attendanceRate(checkedIn, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(checkedIn) / float64(total) * 100
}

// Overview returns per-course attendance stats for all courses, in
// listing order (admin only).
func (s *analyticsServiceImpl) Overview(ctx context.Context, caller Principal) ([]dto.CourseAnalyticsResponse, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.ErrPermissionDenied
	}

	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}

	courseIDs := make([]int64, 0, len(courses))
	for _, c := range courses {
		courseIDs = append(courseIDs, c.ID)
	}

	enrolled, checkedIn, err := s.enrollments.GetCountsByCourseIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}

	analytics := make([]dto.CourseAnalyticsResponse, 0, len(courses))
	for _, course := range courses {
		total := enrolled[course.ID]
		redeemed := checkedIn[course.ID]
		analytics = append(analytics, dto.CourseAnalyticsResponse{
			CourseID:       course.ID,
			CourseTitle:    course.Title,
			TotalEnrolled:  total,
			CheckedIn:      redeemed,
			NotCheckedIn:   total - redeemed,
			Capacity:       course.Capacity,
			AttendanceRate: attendanceRate(redeemed, total),
		})
	}

	return analytics, nil
}

// CourseAnalytics returns the detailed attendance breakdown for one
// course, splitting enrollments into checked-in and pending (admin only).
func (s *analyticsServiceImpl) CourseAnalytics(ctx context.Context, caller Principal, courseID int64) (*dto.CourseAnalyticsDetailResponse, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.ErrPermissionDenied
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	checkedIn := make([]dto.EnrollmentResponse, 0)
	notCheckedIn := make([]dto.EnrollmentResponse, 0)
	for _, e := range enrollments {
		if e.CheckedIn {
			checkedIn = append(checkedIn, toEnrollmentResponse(e))
		} else {
			notCheckedIn = append(notCheckedIn, toEnrollmentResponse(e))
		}
	}

	return &dto.CourseAnalyticsDetailResponse{
		Course:               toCourseResponse(course, len(enrollments), len(checkedIn)),
		TotalEnrolled:        len(enrollments),
		CheckedInCount:       len(checkedIn),
		NotCheckedInCount:    len(notCheckedIn),
		CheckedInStudents:    checkedIn,
		NotCheckedInStudents: notCheckedIn,
		AttendanceRate:       attendanceRate(len(checkedIn), len(enrollments)),
	}, nil
}
