package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/demir/enrollpass/internal/app/models/dto"
	"github.com/demir/enrollpass/internal/app/services"
	"github.com/demir/enrollpass/internal/middleware"
)

// AdminController handles attendance analytics and reminder dispatch
type AdminController struct {
	analyticsService services.AnalyticsService
	reminderService  services.ReminderService
}

// NewAdminController creates a new AdminController
func NewAdminController(analyticsService services.AnalyticsService, reminderService services.ReminderService) *AdminController {
	return &AdminController{
		analyticsService: analyticsService,
		reminderService:  reminderService,
	}
}

// GetAnalytics returns per-course attendance statistics
// @Summary Attendance overview
// @Description Returns per-course enrollment and check-in statistics, computed from current state
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseAnalyticsResponse} "Analytics retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin access required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/analytics [get]
func (c *AdminController) GetAnalytics(ctx *gin.Context) {
	caller, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	analytics, err := c.analyticsService.Overview(ctx, caller)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      analytics,
		Timestamp: time.Now(),
	})
}

// GetCourseAnalytics returns the attendance breakdown for one course
// @Summary Course attendance detail
// @Description Returns the per-student check-in breakdown for one course
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.CourseAnalyticsDetailResponse} "Analytics retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin access required"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/analytics/courses/{id} [get]
func (c *AdminController) GetCourseAnalytics(ctx *gin.Context) {
	caller, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	courseID, ok := parseIDParam(ctx, "id", "course ID")
	if !ok {
		return
	}

	analytics, err := c.analyticsService.CourseAnalytics(ctx, caller, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      analytics,
		Timestamp: time.Now(),
	})
}

// SendReminders dispatches reminder emails for a course
// @Summary Send course reminders
// @Description Sends a reminder email to every enrolled student. One failed delivery never blocks the rest.
// @Tags reminders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.ReminderResponse} "Reminders dispatched"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin access required"
// @Failure 404 {object} dto.ErrorResponse "Course not found or no enrollments"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/courses/{id}/reminders [post]
func (c *AdminController) SendReminders(ctx *gin.Context) {
	caller, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	courseID, ok := parseIDParam(ctx, "id", "course ID")
	if !ok {
		return
	}

	result, err := c.reminderService.SendCourseReminders(ctx, caller, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      result,
		Timestamp: time.Now(),
	})
}
