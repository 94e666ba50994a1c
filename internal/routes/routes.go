package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"nutrition-app-server/internal/config"
	"nutrition-app-server/internal/handlers"
	"nutrition-app-server/internal/middleware"
	"nutrition-app-server/internal/repository"
	"nutrition-app-server/internal/store"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, docs store.Store, cfg *config.Config, logger *zap.Logger) {
	// Initialize repositories over the document store
	patientRepo := repository.NewPatientRepository(docs, logger)
	consultationRepo := repository.NewConsultationRepository(docs, logger)
	measurementRepo := repository.NewMeasurementRepository(docs, logger)
	planRepo := repository.NewMealPlanRepository(docs, logger)
	deleter := repository.NewCascadeDeleter(docs, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	patientHandler := handlers.NewPatientHandler(patientRepo, deleter)
	consultationHandler := handlers.NewConsultationHandler(consultationRepo, patientRepo)
	measurementHandler := handlers.NewMeasurementHandler(measurementRepo, patientRepo)
	planHandler := handlers.NewMealPlanHandler(planRepo, patientRepo)
	streamHandler := handlers.NewStreamHandler(patientRepo, consultationRepo, measurementRepo, planRepo)

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
	private.Use(middleware.AuthMiddleware(cfg)) // Apply JWT authentication middleware
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// Patient routes. Every record is scoped to the authenticated
		// owner; records of other users read as not found.
		patientRoutes := private.Group("/patients")
		{
			patientRoutes.GET("", patientHandler.ListPatients)
			patientRoutes.POST("", patientHandler.CreatePatient)
			patientRoutes.GET("/stream", streamHandler.StreamPatients)
			patientRoutes.GET("/:patientId", patientHandler.GetPatient)
			patientRoutes.PATCH("/:patientId", patientHandler.UpdatePatient)
			// DELETE removes only the patient document unless ?cascade=true
			patientRoutes.DELETE("/:patientId", patientHandler.DeletePatient)

			consultationRoutes := patientRoutes.Group("/:patientId/consultations")
			{
				consultationRoutes.GET("", consultationHandler.ListConsultations)
				consultationRoutes.POST("", consultationHandler.CreateConsultation)
				consultationRoutes.GET("/stream", streamHandler.StreamConsultations)
				consultationRoutes.DELETE("/:consultationId", consultationHandler.DeleteConsultation)
			}

			measurementRoutes := patientRoutes.Group("/:patientId/measurements")
			{
				measurementRoutes.GET("", measurementHandler.ListMeasurements)
				measurementRoutes.POST("", measurementHandler.CreateMeasurement)
				measurementRoutes.GET("/stream", streamHandler.StreamMeasurements)
				measurementRoutes.DELETE("/:measurementId", measurementHandler.DeleteMeasurement)
			}

			planRoutes := patientRoutes.Group("/:patientId/plans")
			{
				planRoutes.GET("", planHandler.ListPlans)
				planRoutes.POST("", planHandler.CreatePlan)
				planRoutes.GET("/stream", streamHandler.StreamPlans)
				planRoutes.DELETE("/:planId", planHandler.DeletePlan)
			}
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
