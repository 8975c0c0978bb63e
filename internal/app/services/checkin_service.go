package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/demir/enrollpass/internal/app/models/dto"
	"github.com/demir/enrollpass/internal/pkg/apperrors"
)

// CheckInService drives the credential state machine. A credential is
// issued when the enrollment is created and redeemed at most once at
// the door; there is no transition back.
type CheckInService interface {
	Verify(ctx context.Context, caller Principal, token string) (*dto.VerifyResponse, error)
	Scan(ctx context.Context, token string) (*dto.ScanResponse, error)
}

// checkInServiceImpl implements CheckInService
type checkInServiceImpl struct {
	enrollments EnrollmentStore
	logger      zerolog.Logger
}

// NewCheckInService creates a new CheckInService
func NewCheckInService(enrollments EnrollmentStore, logger zerolog.Logger) CheckInService {
	return &checkInServiceImpl{
		enrollments: enrollments,
		logger:      logger,
	}
}

// Verify redeems a credential. Staff capability required. Verifying an
// already-redeemed credential is not an error: the response flags it and
// the original check-in timestamp is preserved.
func (s *checkInServiceImpl) Verify(ctx context.Context, caller Principal, token string) (*dto.VerifyResponse, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("admin access required for check-in")
	}

	enrollment, alreadyRedeemed, err := s.enrollments.Redeem(ctx, token)
	if err != nil {
		return nil, err
	}

	message := "Check-in successful"
	if alreadyRedeemed {
		message = "Already checked in"
	} else {
		s.logger.Info().
			Int64("enrollmentId", enrollment.ID).
			Int64("courseId", enrollment.CourseID).
			Msg("Credential redeemed")
	}

	return &dto.VerifyResponse{
		Message:          message,
		AlreadyCheckedIn: alreadyRedeemed,
		Enrollment:       toEnrollmentResponse(enrollment),
	}, nil
}

// Scan is the read-only lookup: it reports the credential's current
// state and never mutates anything, so it is safe to call repeatedly.
func (s *checkInServiceImpl) Scan(ctx context.Context, token string) (*dto.ScanResponse, error) {
	enrollment, err := s.enrollments.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return &dto.ScanResponse{
		CheckedIn:  enrollment.CheckedIn,
		Enrollment: toEnrollmentResponse(enrollment),
	}, nil
}
