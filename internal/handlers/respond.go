package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"employee-records/internal/apperror"
)

func statusForCode(code apperror.Code) int {
	switch code {
	case apperror.CodeInvalidArgument:
		return http.StatusBadRequest
	case apperror.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperror.CodeNotFound:
		return http.StatusNotFound
	case apperror.CodeConflict:
		// The boundary contract reports duplicate employee_id as 400.
		return http.StatusBadRequest
	case apperror.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps a service error to an HTTP response. Unexpected errors
// are logged with their full chain but answered with a generic body so no
// store internals leak out.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	status := statusForCode(apperror.GetCode(err))
	if status == http.StatusInternalServerError {
		log.Error("unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
