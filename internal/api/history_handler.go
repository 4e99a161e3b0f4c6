package api

import (
	"alcyxob/workout-planner/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HistoryHandler serves the session history log.
type HistoryHandler struct {
	historyService service.HistoryService
}

func NewHistoryHandler(historyService service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// ManualSessionRequest logs a session that did not come from a workcard.
type ManualSessionRequest struct {
	Exercises      []string `json:"exercises"`
	SessionDate    string   `json:"sessionDate"`
	SessionWeekday string   `json:"sessionWeekday"`
}

func (h *HistoryHandler) ListHistory(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	records, err := h.historyService.ListHistory(c.Request.Context(), ownerID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch workouts")
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *HistoryHandler) RecordSession(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	var req ManualSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	record, err := h.historyService.RecordManualSession(c.Request.Context(), ownerID, service.ManualSessionInput{
		Exercises:      req.Exercises,
		SessionDate:    req.SessionDate,
		SessionWeekday: req.SessionWeekday,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to save workout")
		return
	}
	c.JSON(http.StatusCreated, record)
}
