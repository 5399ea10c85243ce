package delivery

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akaJirt/restaurant-api/internal/domain"
)

type Response struct {
	Status  string      `json:"Status"`
	Message string      `json:"Message"`
	Data    interface{} `json:"Data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:  "Success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Status:  "Fail",
		Message: message,
	})
}

// mapErrorToStatus translates domain errors to HTTP status codes. Sentinel
// errors are checked first; the message-substring fallback covers wrapped
// driver errors that carry no sentinel.
func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrDuplicate):
		return http.StatusConflict
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "not found") {
		return http.StatusNotFound
	}
	if strings.Contains(errMsg, "already exists") || strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint") {
		return http.StatusConflict
	}
	if strings.Contains(errMsg, "invalid") || strings.Contains(errMsg, "cannot be empty") ||
		strings.Contains(errMsg, "must be positive") || strings.Contains(errMsg, "must be at least") ||
		strings.Contains(errMsg, "cannot be negative") || strings.Contains(errMsg, "must contain") ||
		strings.Contains(errMsg, "constraint violation") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
