package api

import (
	"alcyxob/workout-planner/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkcardHandler serves workcard checklist endpoints.
type WorkcardHandler struct {
	workcardService service.WorkcardService
	cascadeService  service.CascadeService
}

// NewWorkcardHandler creates a new WorkcardHandler.
func NewWorkcardHandler(workcardService service.WorkcardService, cascadeService service.CascadeService) *WorkcardHandler {
	return &WorkcardHandler{workcardService: workcardService, cascadeService: cascadeService}
}

// UpdateWorkcardRequest carries a partial progress update. Omitted fields are unchanged.
type UpdateWorkcardRequest struct {
	Date    *string `json:"date"`
	Weekday *string `json:"weekday"`
	Checked *[]bool `json:"checked"`
}

// ListWorkcards godoc
// @Summary List the caller's workcards
// @Tags Workcards
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending or submitted"
// @Param planId query string false "Plan ID"
// @Success 200 {array} domain.Workcard
// @Router /workcards [get]
func (h *WorkcardHandler) ListWorkcards(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	filter := service.WorkcardListFilter{Status: c.Query("status")}
	if raw := c.Query("planId"); raw != "" {
		planID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid planId format.")
			return
		}
		filter.PlanID = planID
	}

	cards, err := h.workcardService.ListWorkcards(c.Request.Context(), ownerID, filter)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch workcards")
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (h *WorkcardHandler) GetWorkcard(c *gin.Context) {
	ownerID, cardID, ok := ownerAndID(c, "id")
	if !ok {
		return
	}

	card, err := h.workcardService.GetWorkcard(c.Request.Context(), cardID, ownerID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch workcard")
		return
	}
	c.JSON(http.StatusOK, card)
}

// UpdateWorkcard godoc
// @Summary Update date, weekday or checklist of a pending workcard
// @Tags Workcards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workcard ID"
// @Param update body UpdateWorkcardRequest true "Fields to change"
// @Success 200 {object} domain.Workcard
// @Failure 409 {object} gin.H "Already submitted"
// @Router /workcards/{id} [patch]
func (h *WorkcardHandler) UpdateWorkcard(c *gin.Context) {
	ownerID, cardID, ok := ownerAndID(c, "id")
	if !ok {
		return
	}

	var req UpdateWorkcardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	update := service.ProgressUpdate{Date: req.Date, Weekday: req.Weekday}
	if req.Checked != nil {
		update.Checked = *req.Checked
		if update.Checked == nil {
			update.Checked = []bool{}
		}
	}

	card, err := h.workcardService.UpdateProgress(c.Request.Context(), cardID, ownerID, update)
	if err != nil {
		respondServiceError(c, err, "Failed to update workcard")
		return
	}
	c.JSON(http.StatusOK, card)
}

// SubmitWorkcard godoc
// @Summary Submit a workcard and record the session
// @Description Idempotent: resubmitting returns alreadySubmitted=true without writing history.
// @Tags Workcards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workcard ID"
// @Success 200 {object} gin.H "success, workcard, alreadySubmitted"
// @Failure 400 {object} gin.H "Date and day are required"
// @Router /workcards/{id}/submit [post]
func (h *WorkcardHandler) SubmitWorkcard(c *gin.Context) {
	ownerID, cardID, ok := ownerAndID(c, "id")
	if !ok {
		return
	}

	result, err := h.workcardService.Submit(c.Request.Context(), cardID, ownerID)
	if err != nil {
		respondServiceError(c, err, "Failed to submit workcard")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "workcard": result.Workcard, "alreadySubmitted": result.AlreadySubmitted})
}

func (h *WorkcardHandler) DeleteWorkcard(c *gin.Context) {
	ownerID, cardID, ok := ownerAndID(c, "id")
	if !ok {
		return
	}

	result, err := h.cascadeService.DeleteWorkcard(c.Request.Context(), cardID, ownerID)
	if err != nil {
		respondServiceError(c, err, "Failed to delete workcard")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": result})
}
