package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yogapratama/dinein-app/services"
	"github.com/yogapratama/dinein-app/utils"
)

// kindStatus maps service error kinds to HTTP statuses. NoTableAvailable is
// a 409 (retryable), TableNotAvailable a 410 (the requested table identity
// is gone for this guest, not merely busy).
var kindStatus = map[services.ErrorKind]int{
	services.KindSessionNotFound:   http.StatusNotFound,
	services.KindNoTableAvailable:  http.StatusConflict,
	services.KindTableNotAvailable: http.StatusGone,
	services.KindOrderNotFound:     http.StatusNotFound,
	services.KindOrderNotPayable:   http.StatusBadRequest,
	services.KindSessionEnded:      http.StatusBadRequest,
	services.KindValidationFailed:  http.StatusBadRequest,
}

// respondServiceError writes a tagged service error with its mapped status;
// anything untagged is a 500.
func respondServiceError(c *gin.Context, err error) {
	if appErr, ok := services.AsAppError(err); ok {
		if code, known := kindStatus[appErr.Kind]; known {
			c.JSON(code, gin.H{
				"status":  false,
				"message": appErr.Message,
				"kind":    string(appErr.Kind),
			})
			return
		}
	}
	utils.ErrorLogger.Printf("unexpected service error: %v", err)
	utils.RespondError(c, http.StatusInternalServerError, err)
}
