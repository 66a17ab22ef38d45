package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mentor-backend/internal/platform/apierr"
	"github.com/yungbote/mentor-backend/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// AbortError writes the envelope and stops the handler chain.
func AbortError(c *gin.Context, status int, code string, err error) {
	RespondError(c, status, code, err)
	c.Abort()
}

// RespondServiceError maps apierr values and service sentinels to a status.
// fallbackCode names the operation for unclassified 500s.
func RespondServiceError(c *gin.Context, fallbackCode string, err error) {
	if e, ok := apierr.As(err); ok {
		RespondError(c, e.Status, e.Code, e)
		return
	}
	switch {
	case errors.Is(err, services.ErrValidation):
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, services.ErrForbidden):
		RespondError(c, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, services.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	default:
		RespondError(c, http.StatusInternalServerError, fallbackCode, err)
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
