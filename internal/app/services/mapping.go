package services

import (
	"github.com/demir/enrollpass/internal/app/models"
	"github.com/demir/enrollpass/internal/app/models/dto"
)

// toEnrollmentResponse maps an enrollment row with its resolved
// relations into the API shape.
func toEnrollmentResponse(e *models.Enrollment) dto.EnrollmentResponse {
	resp := dto.EnrollmentResponse{
		ID:              e.ID,
		StudentID:       e.StudentID,
		CourseID:        e.CourseID,
		EnrolledAt:      e.EnrolledAt,
		CheckedIn:       e.CheckedIn,
		CheckedInAt:     e.CheckedInAt,
		CredentialToken: e.CredentialToken,
	}
	if e.Student != nil {
		resp.StudentName = e.Student.Name
		resp.StudentEmail = e.Student.Email
	}
	if e.Course != nil {
		resp.CourseTitle = e.Course.Title
	}
	return resp
}

func toEnrollmentResponses(enrollments []*models.Enrollment) []dto.EnrollmentResponse {
	responses := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for _, e := range enrollments {
		responses = append(responses, toEnrollmentResponse(e))
	}
	return responses
}

// toCourseResponse maps a course with live counts into the API shape.
func toCourseResponse(c *models.Course, enrolledCount, checkedInCount int) dto.CourseResponse {
	resp := dto.CourseResponse{
		ID:             c.ID,
		Title:          c.Title,
		InstructorID:   c.InstructorID,
		StartTime:      c.StartTime,
		EndTime:        c.EndTime,
		Capacity:       c.Capacity,
		EnrolledCount:  enrolledCount,
		CheckedInCount: checkedInCount,
		CreatedAt:      c.CreatedAt,
	}
	if c.Description != nil {
		resp.Description = *c.Description
	}
	if c.Location != nil {
		resp.Location = *c.Location
	}
	if c.Instructor != nil {
		resp.InstructorName = c.Instructor.Name
	}
	return resp
}

func toUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		RoleType:  string(u.RoleType),
		CreatedAt: u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
