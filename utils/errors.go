package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error body for both validation and processing
// failures: a single detail string carrying the underlying message.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// RespondWithError sends an error response with the given status code
func RespondWithError(c *gin.Context, statusCode int, detail string) {
	c.JSON(statusCode, ErrorResponse{Detail: detail})
}

// RespondInvalidInput sends a 400 Bad Request for rejected input
func RespondInvalidInput(c *gin.Context, detail string) {
	RespondWithError(c, http.StatusBadRequest, detail)
}

// RespondProcessingError sends a 500 with the raw underlying error message
func RespondProcessingError(c *gin.Context, err error) {
	RespondWithError(c, http.StatusInternalServerError, err.Error())
}
