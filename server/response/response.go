package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apiError "github.com/clockwisehq/clockwise/errors"
)

// JSON writes the standard response envelope used by every handler.
func JSON(c *gin.Context, message string, status int, data interface{}, err *apiError.Error) {
	var errMessage *string
	if err != nil {
		errMessage = &err.Message
	}
	c.JSON(status, gin.H{
		"message": message,
		"data":    data,
		"errors":  errMessage,
		"status":  http.StatusText(status),
	})
}
