package models

import (
	"time"
)

// Course represents a time-boxed workshop with a seat capacity.
type Course struct {
	ID           int64     `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Description  *string   `json:"description,omitempty" db:"description"` // Nullable
	InstructorID int64     `json:"instructorId" db:"instructor_id"`
	StartTime    time.Time `json:"startTime" db:"start_time"`
	EndTime      time.Time `json:"endTime" db:"end_time"`
	Location     *string   `json:"location,omitempty" db:"location"` // Nullable
	Capacity     int       `json:"capacity" db:"capacity"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Instructor *User `json:"instructor,omitempty"`
}

// OverlapsWith reports whether the schedule windows of two courses
// overlap. Windows are half-open [start, end): touching endpoints do
// not count as an overlap.
func (c *Course) OverlapsWith(other *Course) bool {
	return c.StartTime.Before(other.EndTime) && other.StartTime.Before(c.EndTime)
}
