package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/matchpoint-backend/internal/logger"
	"github.com/yungbote/matchpoint-backend/internal/pkg/apperr"
	"github.com/yungbote/matchpoint-backend/internal/services"
)

type MatchFeedbackHandler struct {
	log         *logger.Logger
	feedbackSvc services.MatchFeedbackService
}

func NewMatchFeedbackHandler(log *logger.Logger, feedbackSvc services.MatchFeedbackService) *MatchFeedbackHandler {
	return &MatchFeedbackHandler{
		log:         log.With("handler", "MatchFeedbackHandler"),
		feedbackSvc: feedbackSvc,
	}
}

type submitFeedbackRequest struct {
	ProfileID string `json:"profile_id" binding:"required,uuid"`
	Positive  *bool  `json:"positive" binding:"required"`
	Reason    string `json:"reason"`
}

// POST /api/matches/:id/feedback
func (h *MatchFeedbackHandler) SubmitFeedback(c *gin.Context) {
	matchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondAppError(c, apperr.E(apperr.KindNotFound, "invalid match id", err))
		return
	}

	var req submitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	profileID, err := uuid.Parse(req.ProfileID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	fb, err := h.feedbackSvc.SubmitFeedback(c.Request.Context(), matchID, profileID, *req.Positive, req.Reason)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, fb)
}

// GET /api/matches/:id/feedback
func (h *MatchFeedbackHandler) ListFeedback(c *gin.Context) {
	matchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondAppError(c, apperr.E(apperr.KindNotFound, "invalid match id", err))
		return
	}

	items, err := h.feedbackSvc.ListForMatch(c.Request.Context(), matchID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"feedback": items})
}
