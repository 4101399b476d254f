package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/matchpoint-backend/internal/pkg/apperr"
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

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondAppError maps an error kind to its HTTP status.
func RespondAppError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	switch kind {
	case apperr.KindNotFound:
		RespondError(c, http.StatusNotFound, string(kind), err)
	case apperr.KindInvalidState, apperr.KindInsufficientParticipants:
		RespondError(c, http.StatusBadRequest, string(kind), err)
	case apperr.KindConfiguration:
		RespondError(c, http.StatusInternalServerError, string(kind), err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}
