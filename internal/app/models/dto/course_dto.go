package dto

import "time"

// CreateCourseRequest is the payload for course creation (admin only)
type CreateCourseRequest struct {
	Title       string    `json:"title" binding:"required" example:"Intro to Screen Printing"`
	Description string    `json:"description" example:"Hands-on workshop, no experience needed"`
	StartTime   time.Time `json:"startTime" binding:"required" example:"2025-06-01T09:00:00Z"`
	EndTime     time.Time `json:"endTime" binding:"required" example:"2025-06-01T11:00:00Z"`
	Location    string    `json:"location" example:"Room 204"`
	Capacity    int       `json:"capacity" example:"30"`
}

// UpdateCourseRequest is the payload for partial course updates (admin only)
type UpdateCourseRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Capacity    *int       `json:"capacity,omitempty"`
}

// CourseResponse is the public view of a course with live counts.
// EnrolledCount and CheckedInCount are always computed from the current
// enrollment set, never stored.
type CourseResponse struct {
	ID             int64     `json:"id" example:"1"`
	Title          string    `json:"title" example:"Intro to Screen Printing"`
	Description    string    `json:"description,omitempty"`
	InstructorID   int64     `json:"instructorId" example:"1"`
	InstructorName string    `json:"instructorName,omitempty" example:"Admin"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	Location       string    `json:"location,omitempty" example:"Room 204"`
	Capacity       int       `json:"capacity" example:"30"`
	EnrolledCount  int       `json:"enrolledCount" example:"12"`
	CheckedInCount int       `json:"checkedInCount" example:"7"`
	CreatedAt      time.Time `json:"createdAt"`
}
