package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demir/enrollpass/internal/app/models/dto"
	"github.com/demir/enrollpass/internal/pkg/apperrors"
)

func respondWith(t *testing.T, err error) (int, dto.APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, err)

	var body dto.APIResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder.Code, body
}

func TestHandleAPIError_AdmissionConflicts(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code dto.ErrorCode
	}{
		{"already enrolled", apperrors.ErrAlreadyEnrolled, dto.ErrorCodeAlreadyEnrolled},
		{"course full", apperrors.ErrCourseFull, dto.ErrorCodeCourseFull},
		{"schedule conflict", apperrors.NewScheduleConflictError("Pottery"), dto.ErrorCodeScheduleConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := respondWith(t, tt.err)
			assert.Equal(t, 409, status)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestHandleAPIError_ScheduleConflictNamesCourse(t *testing.T) {
	_, body := respondWith(t, apperrors.NewScheduleConflictError("Pottery"))
	require.NotNil(t, body.Error)
	assert.Contains(t, body.Error.Message, "Pottery")
}

func TestHandleAPIError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"course not found", apperrors.ErrCourseNotFound, 404},
		{"enrollment not found", apperrors.ErrEnrollmentNotFound, 404},
		{"no recipients", apperrors.ErrNoRecipients, 404},
		{"permission denied", apperrors.ErrPermissionDenied, 403},
		{"forbidden with message", apperrors.NewForbiddenError("admins cannot enroll"), 403},
		{"invalid credentials", apperrors.ErrInvalidCredentials, 401},
		{"validation failed", apperrors.ErrValidationFailed, 400},
		{"email exists", apperrors.ErrEmailAlreadyExists, 409},
		{"unknown error", assert.AnError, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := respondWith(t, tt.err)
			assert.Equal(t, tt.status, status)
			require.NotNil(t, body.Error)
		})
	}
}
