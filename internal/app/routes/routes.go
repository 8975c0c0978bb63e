package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/demir/enrollpass/internal/app/controllers"
	"github.com/demir/enrollpass/internal/app/models"
	"github.com/demir/enrollpass/internal/app/models/dto"
	"github.com/demir/enrollpass/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	enrollmentController *controllers.EnrollmentController,
	checkInController *controllers.CheckInController,
	adminController *controllers.AdminController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// Course catalog is public so prospective students can browse
	courses := v1.Group("/courses")
	{
		courses.GET("", courseController.ListCourses)
		courses.GET("/:id", courseController.GetCourse)
	}

	// Scan is public: it only reads credential state, so a kiosk or the
	// student's own phone can use it without logging in.
	v1.POST("/checkin/scan", checkInController.Scan)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.GetProfile)

		enrollments := authenticated.Group("/enrollments")
		{
			enrollments.POST("", enrollmentController.Enroll)
			enrollments.GET("", enrollmentController.ListMyEnrollments)
			enrollments.GET("/:id/credential", enrollmentController.GetCredential)
			enrollments.DELETE("/:id", enrollmentController.CancelEnrollment)
		}

		// Admin-only routes
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			admin.POST("/courses", courseController.CreateCourse)
			admin.PUT("/courses/:id", courseController.UpdateCourse)
			admin.DELETE("/courses/:id", courseController.DeleteCourse)
			admin.GET("/courses/:id/enrollments", enrollmentController.ListCourseEnrollments)
			admin.POST("/courses/:id/reminders", adminController.SendReminders)

			admin.POST("/checkin/verify", checkInController.Verify)

			admin.GET("/analytics", adminController.GetAnalytics)
			admin.GET("/analytics/courses/:id", adminController.GetCourseAnalytics)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Success: true,
			Data:    gin.H{"status": "ok"},
		})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
