package api

import (
	"alcyxob/workout-planner/internal/domain"
	"alcyxob/workout-planner/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PlanHandler serves workout plan endpoints, including expansion and cascade deletion.
type PlanHandler struct {
	planService     service.PlanService
	workcardService service.WorkcardService
	cascadeService  service.CascadeService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService, workcardService service.WorkcardService, cascadeService service.CascadeService) *PlanHandler {
	return &PlanHandler{
		planService:     planService,
		workcardService: workcardService,
		cascadeService:  cascadeService,
	}
}

// --- DTOs ---

// CreatePlanRequest defines the expected JSON for creating a plan.
type CreatePlanRequest struct {
	Name            string   `json:"name"`
	Origin          string   `json:"origin"` // "onboarding" or anything else for custom
	FitnessLevel    string   `json:"fitnessLevel"`
	TargetMuscles   []string `json:"targetMuscles"`
	Frequency       *int     `json:"frequency"`
	SessionDuration *int     `json:"sessionDuration"`
	Preferences     string   `json:"preferences"`
}

// --- Handler Methods ---

// CreatePlan godoc
// @Summary Create a workout plan
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body CreatePlanRequest true "Plan parameters"
// @Success 201 {object} domain.WorkoutPlan
// @Failure 400 {object} gin.H "Invalid input"
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), ownerID, service.CreatePlanInput{
		Name:            req.Name,
		Origin:          domain.PlanOrigin(req.Origin),
		FitnessLevel:    req.FitnessLevel,
		TargetMuscles:   req.TargetMuscles,
		Frequency:       req.Frequency,
		SessionDuration: req.SessionDuration,
		Preferences:     req.Preferences,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to create workout plan")
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// ListPlans godoc
// @Summary List the caller's workout plans
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.WorkoutPlan
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	plans, err := h.planService.ListPlans(c.Request.Context(), ownerID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch workout plans")
		return
	}
	c.JSON(http.StatusOK, plans)
}

// GetPlan godoc
// @Summary Get one workout plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} domain.WorkoutPlan
// @Failure 404 {object} gin.H "Not found"
// @Router /plans/{id} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	ownerID, planID, ok := ownerAndID(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), planID, ownerID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch workout plan")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GeneratePlan godoc
// @Summary Generate plan content
// @Description Runs one generation attempt synchronously. A failed attempt is stored on the plan and reported as 502.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} gin.H "success, plan"
// @Failure 404 {object} gin.H "Not found"
// @Failure 502 {object} gin.H "Generation failed; plan is in the failed state"
// @Router /plans/{id}/generate [post]
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	ownerID, planID, ok := ownerAndID(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.RequestGeneration(c.Request.Context(), planID, ownerID)
	if err != nil {
		respondServiceError(c, err, "Failed to generate workout plan")
		return
	}
	if plan.Status == domain.PlanStatusFailed {
		c.JSON(http.StatusBadGateway, gin.H{"error": plan.LastError, "plan": plan})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "plan": plan})
}

// ExpandPlan godoc
// @Summary Create workcards from a ready plan
// @Description Idempotent: a plan that already has workcards returns them with reused=true.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} gin.H "success, workcards, reused"
// @Failure 409 {object} gin.H "Plan not ready"
// @Router /plans/{id}/workcards [post]
func (h *PlanHandler) ExpandPlan(c *gin.Context) {
	ownerID, planID, ok := ownerAndID(c, "id")
	if !ok {
		return
	}

	result, err := h.workcardService.ExpandPlan(c.Request.Context(), planID, ownerID)
	if err != nil {
		respondServiceError(c, err, "Failed to generate workcards")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "workcards": result.Workcards, "reused": result.Reused})
}

// DeletePlan godoc
// @Summary Delete a plan with its workcards and history
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} gin.H "success, deleted counts"
// @Failure 404 {object} gin.H "Not found"
// @Router /plans/{id} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	ownerID, planID, ok := ownerAndID(c, "id")
	if !ok {
		return
	}

	result, err := h.cascadeService.DeletePlan(c.Request.Context(), planID, ownerID)
	if err != nil {
		respondServiceError(c, err, "Failed to delete workout plan")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": result})
}

// GetTranscript returns a presigned link to the plan's last raw generation response.
func (h *PlanHandler) GetTranscript(c *gin.Context) {
	ownerID, planID, ok := ownerAndID(c, "id")
	if !ok {
		return
	}

	url, err := h.planService.TranscriptURL(c.Request.Context(), planID, ownerID)
	if err != nil {
		respondServiceError(c, err, "Failed to create transcript link")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
