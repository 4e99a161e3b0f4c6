package api

import (
	"alcyxob/workout-planner/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ProfileHandler serves onboarding answers and plan creation from them.
type ProfileHandler struct {
	profileService service.ProfileService
	planService    service.PlanService
}

func NewProfileHandler(profileService service.ProfileService, planService service.PlanService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, planService: planService}
}

// SaveProfileRequest defines the onboarding payload.
type SaveProfileRequest struct {
	Email           string   `json:"email" binding:"omitempty,email"`
	FitnessLevel    string   `json:"fitnessLevel"`
	TargetMuscles   []string `json:"targetMuscles"`
	Frequency       *int     `json:"frequency"`
	SessionDuration *int     `json:"sessionDuration"`
	Preferences     string   `json:"preferences"`
}

// PlanFromProfileRequest optionally names the derived plan.
type PlanFromProfileRequest struct {
	Name string `json:"name"`
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), ownerID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	var req SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	profile, err := h.profileService.SaveProfile(c.Request.Context(), ownerID, service.ProfileInput{
		Email:           req.Email,
		FitnessLevel:    req.FitnessLevel,
		TargetMuscles:   req.TargetMuscles,
		Frequency:       req.Frequency,
		SessionDuration: req.SessionDuration,
		Preferences:     req.Preferences,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to save profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// CreatePlanFromProfile creates a draft plan from the stored onboarding answers.
func (h *ProfileHandler) CreatePlanFromProfile(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	var req PlanFromProfileRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}

	plan, err := h.planService.CreatePlanFromProfile(c.Request.Context(), ownerID, req.Name)
	if err != nil {
		respondServiceError(c, err, "Failed to create workout plan")
		return
	}
	c.JSON(http.StatusCreated, plan)
}
