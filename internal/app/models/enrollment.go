package models

import (
	"time"
)

// Enrollment ties a student to a course and carries the scannable
// credential used for door check-in. The (student, course) pair and the
// credential token are both unique at the database level.
type Enrollment struct {
	ID              int64      `json:"id" db:"id"`
	StudentID       int64      `json:"studentId" db:"student_id"`
	CourseID        int64      `json:"courseId" db:"course_id"`
	EnrolledAt      time.Time  `json:"enrolledAt" db:"enrolled_at"`
	CheckedIn       bool       `json:"checkedIn" db:"checked_in"`
	CheckedInAt     *time.Time `json:"checkedInAt,omitempty" db:"checked_in_at"` // Nullable, set on redemption
	CredentialToken string     `json:"credentialToken" db:"credential_token"`

	// Relations (populated when needed)
	Student *User   `json:"student,omitempty"`
	Course  *Course `json:"course,omitempty"`
}
