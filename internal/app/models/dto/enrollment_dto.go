package dto

import "time"

// EnrollRequest is the payload for enrollment admission
type EnrollRequest struct {
	CourseID int64 `json:"courseId" binding:"required" example:"1"`
}

// EnrollmentResponse mirrors one enrollment row together with student
// and course context resolved for display.
type EnrollmentResponse struct {
	ID              int64      `json:"id" example:"1"`
	StudentID       int64      `json:"studentId" example:"2"`
	CourseID        int64      `json:"courseId" example:"1"`
	StudentName     string     `json:"studentName,omitempty" example:"Jane Doe"`
	StudentEmail    string     `json:"studentEmail,omitempty" example:"student@example.com"`
	CourseTitle     string     `json:"courseTitle,omitempty" example:"Intro to Screen Printing"`
	EnrolledAt      time.Time  `json:"enrolledAt"`
	CheckedIn       bool       `json:"checkedIn" example:"false"`
	CheckedInAt     *time.Time `json:"checkedInAt,omitempty"`
	CredentialToken string     `json:"credentialToken" example:"ENROLL:1:1:2:dGhpcy1pcy1ub3QtcmVhbA"`
}

// EnrollResponse is returned on successful admission: the created
// enrollment plus its credential rendered as a QR image.
type EnrollResponse struct {
	Enrollment  EnrollmentResponse `json:"enrollment"`
	QRCodeImage string             `json:"qrCodeImage"` // base64-encoded PNG
}

// CredentialResponse carries the raw token and its rendered image
type CredentialResponse struct {
	CredentialToken string `json:"credentialToken"`
	QRCodeImage     string `json:"qrCodeImage"` // base64-encoded PNG
}
