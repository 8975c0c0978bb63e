package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/demir/enrollpass/internal/app/models"
	"github.com/demir/enrollpass/internal/app/models/dto"
	"github.com/demir/enrollpass/internal/pkg/apperrors"
	"github.com/demir/enrollpass/internal/pkg/email"
)

// ReminderService dispatches course reminders to enrolled students.
// Delivery failures are isolated per recipient: one bad address never
// blocks the rest of the batch.
type ReminderService interface {
	SendCourseReminders(ctx context.Context, caller Principal, courseID int64) (*dto.ReminderResponse, error)
}

// reminderServiceImpl implements ReminderService
type reminderServiceImpl struct {
	courses     CourseStore
	enrollments EnrollmentStore
	sender      email.Sender
	logger      zerolog.Logger
}

// NewReminderService creates a new ReminderService
func NewReminderService(courses CourseStore, enrollments EnrollmentStore, sender email.Sender, logger zerolog.Logger) ReminderService {
	return &reminderServiceImpl{
		courses:     courses,
		enrollments: enrollments,
		sender:      sender,
		logger:      logger,
	}
}

// SendCourseReminders sends a reminder email to every student enrolled
// in the course (admin only). The result counts successes and failures;
// the operation itself only errors when the course is missing, has no
// enrollments, or the listing fails.
func (s *reminderServiceImpl) SendCourseReminders(ctx context.Context, caller Principal, courseID int64) (*dto.ReminderResponse, error) {
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
	if len(enrollments) == 0 {
		return nil, apperrors.ErrNoRecipients
	}

	subject := fmt.Sprintf("Reminder: %s", course.Title)

	sent := 0
	failed := 0
	for _, enrollment := range enrollments {
		if enrollment.Student == nil {
			failed++
			s.logger.Error().
				Int64("enrollmentId", enrollment.ID).
				Msg("Enrollment has no resolved student, skipping reminder")
			continue
		}

		body := reminderBody(enrollment.Student, course)
		if err := s.sender.Send(enrollment.Student.Email, subject, body); err != nil {
			failed++
			s.logger.Error().
				Err(err).
				Str("toEmail", enrollment.Student.Email).
				Int64("courseId", courseID).
				Msg("Failed to send course reminder")
			continue
		}
		sent++
	}

	s.logger.Info().
		Int64("courseId", courseID).
		Int("sent", sent).
		Int("failed", failed).
		Msg("Course reminders dispatched")

	return &dto.ReminderResponse{
		Message:     fmt.Sprintf("Reminders sent: %d, Failed: %d", sent, failed),
		SentCount:   sent,
		FailedCount: failed,
	}, nil
}

// reminderBody renders the plain-text reminder for one student.
func reminderBody(student *models.User, course *models.Course) string {
	location := "TBA"
	if course.Location != nil && *course.Location != "" {
		location = *course.Location
	}

	return fmt.Sprintf(
		"Hello %s,\n\n"+
			"This is a reminder for your upcoming course:\n\n"+
			"%s\n"+
			"Starts: %s\n"+
			"Location: %s\n\n"+
			"Please bring your QR code for check-in at the door.\n",
		student.Name,
		course.Title,
		course.StartTime.Format("2006-01-02 15:04"),
		location,
	)
}
