package api

import (
	"alcyxob/workout-planner/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	planService service.PlanService,
	workcardService service.WorkcardService,
	cascadeService service.CascadeService,
	historyService service.HistoryService,
	profileService service.ProfileService,
) {
	planHandler := NewPlanHandler(planService, workcardService, cascadeService)
	workcardHandler := NewWorkcardHandler(workcardService, cascadeService)
	historyHandler := NewHistoryHandler(historyService)
	profileHandler := NewProfileHandler(profileService, planService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	protected := router.Group("/api/v1")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/profile", profileHandler.GetProfile)
		protected.PUT("/profile", profileHandler.SaveProfile)
		protected.POST("/profile/plan", profileHandler.CreatePlanFromProfile)

		// --- Plan Lifecycle ---
		planGroup := protected.Group("/plans")
		{
			planGroup.GET("", planHandler.ListPlans)
			planGroup.POST("", planHandler.CreatePlan)
			planGroup.GET("/:id", planHandler.GetPlan)
			// DELETE cascades to workcards and history
			planGroup.DELETE("/:id", planHandler.DeletePlan)
			planGroup.POST("/:id/generate", planHandler.GeneratePlan)
			planGroup.POST("/:id/workcards", planHandler.ExpandPlan)
			planGroup.GET("/:id/transcript", planHandler.GetTranscript)
		}

		// --- Workcards ---
		workcardGroup := protected.Group("/workcards")
		{
			workcardGroup.GET("", workcardHandler.ListWorkcards)
			workcardGroup.GET("/:id", workcardHandler.GetWorkcard)
			workcardGroup.PATCH("/:id", workcardHandler.UpdateWorkcard)
			workcardGroup.DELETE("/:id", workcardHandler.DeleteWorkcard)
			workcardGroup.POST("/:id/submit", workcardHandler.SubmitWorkcard)
		}

		// --- Session History ---
		protected.GET("/history", historyHandler.ListHistory)
		protected.POST("/history", historyHandler.RecordSession)
	}
}
