package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yebeniyam/bingo/models"
	"github.com/yebeniyam/bingo/utils/logger"
)

// respondError maps an application error to its HTTP response. Anything
// outside the taxonomy is logged and answered with a generic 500; stack
// traces and internals never reach the client.
func respondError(c *gin.Context, err error) {
	var appErr *models.Error
	if errors.As(err, &appErr) {
		body := gin.H{"error": appErr.Message, "code": appErr.Code}
		for k, v := range appErr.Fields {
			body[k] = v
		}
		c.JSON(appErr.Status, body)
		return
	}

	logger.Errorf("unhandled error: %v", err)
	internal := models.ErrInternal("internal server error")
	c.JSON(internal.Status, gin.H{"error": internal.Message, "code": internal.Code})
}
