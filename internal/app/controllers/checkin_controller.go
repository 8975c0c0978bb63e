package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/demir/enrollpass/internal/app/models/dto"
	"github.com/demir/enrollpass/internal/app/services"
	"github.com/demir/enrollpass/internal/middleware"
)

// CheckInController handles credential verification and scanning
type CheckInController struct {
	checkInService services.CheckInService
}

// NewCheckInController creates a new CheckInController
func NewCheckInController(checkInService services.CheckInService) *CheckInController {
	return &CheckInController{
		checkInService: checkInService,
	}
}

// Verify redeems a credential at the door
// @Summary Verify a credential
// @Description Marks the credential's enrollment as checked in. Repeating the call reports the earlier check-in instead of failing.
// @Tags check-in
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.VerifyRequest true "Credential token to verify"
// @Success 200 {object} dto.APIResponse{data=dto.VerifyResponse} "Check-in processed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin access required"
// @Failure 404 {object} dto.ErrorResponse "Unknown credential"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/checkin/verify [post]
func (c *CheckInController) Verify(ctx *gin.Context) {
	caller, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	var req dto.VerifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid check-in data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	result, err := c.checkInService.Verify(ctx, caller, req.CredentialToken)
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

// Scan looks up a credential without mutating it
// @Summary Scan a credential
// @Description Reports the credential's current state. Never mutates anything, so it is safe to call repeatedly.
// @Tags check-in
// @Accept json
// @Produce json
// @Param request body dto.ScanRequest true "Credential token to look up"
// @Success 200 {object} dto.APIResponse{data=dto.ScanResponse} "Credential state retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Unknown credential"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /checkin/scan [post]
func (c *CheckInController) Scan(ctx *gin.Context) {
	var req dto.ScanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid scan data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	result, err := c.checkInService.Scan(ctx, req.CredentialToken)
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
