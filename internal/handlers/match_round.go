package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/matchpoint-backend/internal/logger"
	"github.com/yungbote/matchpoint-backend/internal/pkg/apperr"
	"github.com/yungbote/matchpoint-backend/internal/services"
)

type MatchRoundHandler struct {
	log      *logger.Logger
	roundSvc services.MatchRoundService
}

func NewMatchRoundHandler(log *logger.Logger, roundSvc services.MatchRoundService) *MatchRoundHandler {
	return &MatchRoundHandler{
		log:      log.With("handler", "MatchRoundHandler"),
		roundSvc: roundSvc,
	}
}

type runRoundResponse struct {
	Success             bool `json:"success"`
	MatchesCreated      int  `json:"matches_created"`
	ParticipantsMatched int  `json:"participants_matched"`
}

// POST /api/match-rounds/:id/run
func (h *MatchRoundHandler) RunRound(c *gin.Context) {
	roundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondAppError(c, apperr.E(apperr.KindNotFound, "invalid round id", err))
		return
	}

	result, err := h.roundSvc.RunRound(c.Request.Context(), roundID)
	if err != nil {
		h.log.Warn("Run round rejected or failed", "round_id", roundID, "kind", apperr.KindOf(err), "error", err)
		RespondAppError(c, err)
		return
	}

	RespondOK(c, runRoundResponse{
		Success:             true,
		MatchesCreated:      result.MatchesCreated,
		ParticipantsMatched: result.ParticipantsMatched,
	})
}

// GET /api/match-rounds/:id/matches
func (h *MatchRoundHandler) GetRoundMatches(c *gin.Context) {
	roundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondAppError(c, apperr.E(apperr.KindNotFound, "invalid round id", err))
		return
	}

	matches, err := h.roundSvc.GetRoundMatches(c.Request.Context(), roundID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"matches": matches})
}
