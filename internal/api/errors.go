package api

import (
	"alcyxob/workout-planner/internal/generation"
	"alcyxob/workout-planner/internal/service"
	"alcyxob/workout-planner/internal/storage"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service errors to HTTP responses. Unknown errors
// are logged and hidden behind fallback.
func respondServiceError(c *gin.Context, err error, fallback string) {
	var genErr *generation.GenerationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanNotReady), errors.Is(err, service.ErrAlreadySubmitted):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrMissingSchedule), errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrStorageDisabled):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.As(err, &genErr):
		abortWithError(c, http.StatusBadGateway, genErr.Error())
	default:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
