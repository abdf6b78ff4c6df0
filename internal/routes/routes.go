package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-app-server/internal/config"
	"hospital-app-server/internal/handlers"
	"hospital-app-server/internal/middleware"
	"hospital-app-server/internal/models"
	"hospital-app-server/internal/services"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Services
	directory := services.NewDirectoryService(db)
	scheduling := services.NewSchedulingService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(db, cfg, directory)
	adminHandler := handlers.NewAdminHandler(directory, scheduling)
	availabilityHandler := handlers.NewAvailabilityHandler(db, scheduling)
	appointmentHandler := handlers.NewAppointmentHandler(db, scheduling)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", middleware.RoleAuthMiddleware(models.RolePatient), authHandler.UpdateProfile)
		}

		// Doctor directory: browsable by any authenticated user
		doctorRoutes := private.Group("/doctors")
		{
			doctorRoutes.GET("", adminHandler.ListDoctors)
			doctorRoutes.GET("/:id/slots", availabilityHandler.DoctorSlots)
		}

		// Departments: readable by anyone, managed by admins
		departmentRoutes := private.Group("/departments")
		{
			departmentRoutes.GET("", adminHandler.ListDepartments)
			departmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleAdmin), adminHandler.CreateDepartment)
		}

		// Admin-only management routes
		adminRoutes := private.Group("/admin")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.POST("/doctors", adminHandler.CreateDoctor)
			adminRoutes.PUT("/doctors/:id", adminHandler.UpdateDoctor)
			adminRoutes.DELETE("/users/:id", adminHandler.DeleteUser)
			adminRoutes.GET("/patients", adminHandler.ListPatients)
			adminRoutes.PATCH("/patients/:id/blacklist", adminHandler.SetBlacklisted)
			adminRoutes.GET("/stats", adminHandler.Stats)
			adminRoutes.GET("/appointments", adminHandler.AllAppointments)
		}

		// Availability ledger: doctors declare and review their slots
		availabilityRoutes := private.Group("/availability")
		availabilityRoutes.Use(middleware.RoleAuthMiddleware(models.RoleDoctor))
		{
			availabilityRoutes.POST("", availabilityHandler.DeclareSlot)
			availabilityRoutes.GET("", availabilityHandler.MySlots)
		}

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.Book)
			appointmentRoutes.GET("", appointmentHandler.List)
			appointmentRoutes.GET("/history", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.History)
			appointmentRoutes.GET("/:id", appointmentHandler.Get)
			appointmentRoutes.PATCH("/:id/cancel", appointmentHandler.Cancel)
			appointmentRoutes.PATCH("/:id/complete", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), appointmentHandler.Complete)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
