package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/demir/enrollpass/internal/app/models"
	"github.com/demir/enrollpass/internal/app/models/dto"
	"github.com/demir/enrollpass/internal/pkg/apperrors"
)

// CourseService defines the interface for course registry operations
type CourseService interface {
	List(ctx context.Context) ([]dto.CourseResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.CourseResponse, error)
	Create(ctx context.Context, caller Principal, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	Update(ctx context.Context, caller Principal, id int64, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	Delete(ctx context.Context, caller Principal, id int64) error
}

// courseServiceImpl implements CourseService
type courseServiceImpl struct {
	courses     CourseStore
	enrollments EnrollmentStore
	logger      zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(courses CourseStore, enrollments EnrollmentStore, logger zerolog.Logger) CourseService {
	return &courseServiceImpl{
		courses:     courses,
		enrollments: enrollments,
		logger:      logger,
	}
}

// List returns all courses in start-time order with live counts.
func (s *courseServiceImpl) List(ctx context.Context) ([]dto.CourseResponse, error) {
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

	responses := make([]dto.CourseResponse, 0, len(courses))
	for _, c := range courses {
		responses = append(responses, toCourseResponse(c, enrolled[c.ID], checkedIn[c.ID]))
	}

	return responses, nil
}

// GetByID returns one course with live counts.
func (s *courseServiceImpl) GetByID(ctx context.Context, id int64) (*dto.CourseResponse, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	enrolled, checkedIn, err := s.enrollments.GetCountsByCourseIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}

	resp := toCourseResponse(course, enrolled[id], checkedIn[id])
	return &resp, nil
}

// Create creates a new course (admin only). The creating admin becomes
// the owning instructor.
func (s *courseServiceImpl) Create(ctx context.Context, caller Principal, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.ErrPermissionDenied
	}

	if !req.EndTime.After(req.StartTime) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "end time must be after start time")
	}

	capacity := req.Capacity
	if capacity == 0 {
		capacity = 30
	}
	if capacity < 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "capacity must be a positive integer")
	}

	course := &models.Course{
		Title:        req.Title,
		InstructorID: caller.ID,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Capacity:     capacity,
	}
	if req.Description != "" {
		course.Description = &req.Description
	}
	if req.Location != "" {
		course.Location = &req.Location
	}

	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("courseId", course.ID).
		Str("title", course.Title).
		Msg("Course created")

	return s.GetByID(ctx, course.ID)
}

// Update applies a partial update (admin only) and revalidates the
// resulting schedule window.
func (s *courseServiceImpl) Update(ctx context.Context, caller Principal, id int64, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.ErrPermissionDenied
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.StartTime != nil {
		course.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		course.EndTime = *req.EndTime
	}
	if req.Location != nil {
		course.Location = req.Location
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "capacity must be a positive integer")
		}
		course.Capacity = *req.Capacity
	}

	if !course.EndTime.After(course.StartTime) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "end time must be after start time")
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// Delete removes a course (admin only). Enrollments cascade away and
// their credentials become permanently invalid.
func (s *courseServiceImpl) Delete(ctx context.Context, caller Principal, id int64) error {
	if !caller.IsAdmin() {
		return apperrors.ErrPermissionDenied
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("courseId", id).Msg("Course deleted")
	return nil
}
