package http

import (
	"github.com/gin-gonic/gin"

	"github.com/safebite/backend/config"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(cfg *config.Config, handler *Handler, authHandler *AuthHandler, auth tokenParser) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/signup", authHandler.Signup)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.POST("/admin/request-otp", authHandler.RequestAdminOTP)
			authGroup.POST("/admin/verify-otp", authHandler.VerifyAdminOTP)
		}

		foods := v1.Group("/food-items")
		{
			foods.GET("", handler.ListFoodItems)
			foods.GET("/search", handler.SearchFoodItems)
			foods.GET("/:id", handler.GetFoodItem)
			foods.GET("/:id/nutrition", handler.GetNutrition)

			admin := foods.Group("", AuthRequired(auth), AdminRequired())
			{
				admin.POST("", handler.CreateFoodItem)
				admin.POST("/:id/nutrition", handler.AddNutrition)
				admin.PUT("/:id/nutrition", handler.UpdateNutrition)
			}
		}

		inferences := v1.Group("/inference", AuthRequired(auth))
		{
			inferences.POST("", handler.CreateInference)
			inferences.GET("/:id", handler.GetInference)
		}
	}

	return router
}
