package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/orgflow/pkg/apperrors"
	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type TokenResponse struct {
	Token    string `json:"token"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	GroupID  uint   `json:"group_id"`
	Role     string `json:"role"`
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation, apperrors.KindInvalidState:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as JSON. Internal errors are logged and replaced by an
// opaque message.
func Error(c *gin.Context, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Str("request_id", c.GetString("request_id")).
			Msg("Request failed")
		c.JSON(status, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Details: apperrors.DetailsOf(err)})
}
