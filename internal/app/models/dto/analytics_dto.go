package dto

// CourseAnalyticsResponse is the per-course attendance projection.
// AttendanceRate is a percentage and is defined as 0 when the course has
// no enrollments.
type CourseAnalyticsResponse struct {
	CourseID       int64   `json:"courseId" example:"1"`
	CourseTitle    string  `json:"courseTitle" example:"Intro to Screen Printing"`
	TotalEnrolled  int     `json:"totalEnrolled" example:"12"`
	CheckedIn      int     `json:"checkedIn" example:"7"`
	NotCheckedIn   int     `json:"notCheckedIn" example:"5"`
	Capacity       int     `json:"capacity" example:"30"`
	AttendanceRate float64 `json:"attendanceRate" example:"58.33"`
}

// CourseAnalyticsDetailResponse adds the per-student breakdown used by
// the single-course analytics view.
type CourseAnalyticsDetailResponse struct {
	Course               CourseResponse       `json:"course"`
	TotalEnrolled        int                  `json:"totalEnrolled"`
	CheckedInCount       int                  `json:"checkedInCount"`
	NotCheckedInCount    int                  `json:"notCheckedInCount"`
	CheckedInStudents    []EnrollmentResponse `json:"checkedInStudents"`
	NotCheckedInStudents []EnrollmentResponse `json:"notCheckedInStudents"`
	AttendanceRate       float64              `json:"attendanceRate"`
}

// ReminderResponse reports aggregate reminder dispatch results
type ReminderResponse struct {
	Message     string `json:"message" example:"Reminders sent: 2, Failed: 1"`
	SentCount   int    `json:"sentCount" example:"2"`
	FailedCount int    `json:"failedCount" example:"1"`
}
