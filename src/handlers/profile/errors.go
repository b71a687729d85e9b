package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func errorResponse(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":       code,
			"message":    message,
			"request_id": c.GetString("request_id"),
		},
	})
}

func validationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error": gin.H{
			"code":       "validation_failed",
			"message":    "Request validation failed",
			"fields":     fields,
			"request_id": c.GetString("request_id"),
		},
	})
}

func downstreamError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal Server Error"
	}
	errorResponse(c, http.StatusInternalServerError, "downstream_error", message)
}
