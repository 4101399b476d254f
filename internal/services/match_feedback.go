package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/matchpoint-backend/internal/logger"
	"github.com/yungbote/matchpoint-backend/internal/repos"
	"github.com/yungbote/matchpoint-backend/internal/types"
)

// MatchFeedbackService records participant reactions to persisted matches.
// Feedback has its own lifecycle and never mutates the match or the round.
type MatchFeedbackService interface {
	SubmitFeedback(ctx context.Context, matchID, profileID uuid.UUID, positive bool, reason string) (*types.MatchFeedback, error)
	ListForMatch(ctx context.Context, matchID uuid.UUID) ([]*types.MatchFeedback, error)
}

type matchFeedbackService struct {
	log      *logger.Logger
	matches  repos.MatchRepo
	feedback repos.MatchFeedbackRepo
}

func NewMatchFeedbackService(log *logger.Logger, matches repos.MatchRepo, feedback repos.MatchFeedbackRepo) MatchFeedbackService {
	return &matchFeedbackService{
		log:      log.With("service", "MatchFeedbackService"),
		matches:  matches,
		feedback: feedback,
	}
}

func (s *matchFeedbackService) SubmitFeedback(ctx context.Context, matchID, profileID uuid.UUID, positive bool, reason string) (*types.MatchFeedback, error) {
	if _, err := s.matches.GetByID(ctx, nil, matchID); err != nil {
		return nil, err
	}

	fb := &types.MatchFeedback{
		ID:        uuid.New(),
		MatchID:   matchID,
		ProfileID: profileID,
		Positive:  positive,
		Reason:    reason,
	}
	if err := s.feedback.Create(ctx, nil, fb); err != nil {
		return nil, err
	}
	return fb, nil
}

func (s *matchFeedbackService) ListForMatch(ctx context.Context, matchID uuid.UUID) ([]*types.MatchFeedback, error) {
	if _, err := s.matches.GetByID(ctx, nil, matchID); err != nil {
		return nil, err
	}
	return s.feedback.GetByMatchID(ctx, nil, matchID)
}
