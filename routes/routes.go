package routes

import (
	"github.com/geo-diary/api-go/config"
	"github.com/geo-diary/api-go/controllers"
	"github.com/geo-diary/api-go/middleware"
	"github.com/geo-diary/api-go/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	googleConfig := config.NewGoogleConfig()
	bucketService := services.NewBucketService(config.GetBucketConfig())
	markerService := services.NewMarkerService(db, bucketService)
	userService := services.NewUserService(db, markerService)

	userController := controllers.NewUserController(userService)
	markerController := controllers.NewMarkerController(markerService)
	validationController := controllers.NewValidationController(googleConfig)

	r.Use(middleware.RateLimitMiddleware())

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/validateToken", validationController.ValidateToken)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(googleConfig))
	{
		SetupUserRoutes(protected, userController)
		SetupMarkerRoutes(protected, markerController)
	}
}
