package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/matchpoint-backend/internal/logger"
	"github.com/yungbote/matchpoint-backend/internal/pkg/apperr"
	"github.com/yungbote/matchpoint-backend/internal/repos"
	"github.com/yungbote/matchpoint-backend/internal/types"
)

// RunRoundResult is what the invoking surface reports back.
type RunRoundResult struct {
	MatchesCreated      int `json:"matches_created"`
	ParticipantsMatched int `json:"participants_matched"`
}

// MatchRoundService drives a round through its lifecycle:
// pending -> running -> completed | failed. Completed and failed are terminal,
// which is also what prevents duplicate matches for the same round.
type MatchRoundService interface {
	RunRound(ctx context.Context, roundID uuid.UUID) (*RunRoundResult, error)
	GetRoundMatches(ctx context.Context, roundID uuid.UUID) ([]*types.Match, error)
}

type matchRoundService struct {
	log            *logger.Logger
	db             *gorm.DB
	activities     repos.ActivityRepo
	rounds         repos.MatchRoundRepo
	questionnaires repos.QuestionnaireRepo
	participants   repos.ParticipantRepo
	matches        repos.MatchRepo
	filter         *HardFilterEngine
	ranker         CandidateRanker
	explainer      ExplanationGenerator
}

func NewMatchRoundService(
	log *logger.Logger,
	db *gorm.DB,
	activities repos.ActivityRepo,
	rounds repos.MatchRoundRepo,
	questionnaires repos.QuestionnaireRepo,
	participants repos.ParticipantRepo,
	matches repos.MatchRepo,
	filter *HardFilterEngine,
	ranker CandidateRanker,
	explainer ExplanationGenerator,
) MatchRoundService {
	return &matchRoundService{
		log:            log.With("service", "MatchRoundService"),
		db:             db,
		activities:     activities,
		rounds:         rounds,
		questionnaires: questionnaires,
		participants:   participants,
		matches:        matches,
		filter:         filter,
		ranker:         ranker,
		explainer:      explainer,
	}
}

func (s *matchRoundService) RunRound(ctx context.Context, roundID uuid.UUID) (*RunRoundResult, error) {
	round, err := s.rounds.GetByID(ctx, nil, roundID)
	if err != nil {
		return nil, err
	}

	// Entry guard: only a pending round may start, and the conditional update
	// below makes the claim race-safe. Nothing has been written if it fails.
	if round.Status != types.RoundPending {
		return nil, apperr.Errorf(apperr.KindInvalidState, "round %s is %s, only pending rounds can run", roundID, round.Status)
	}
	if err := s.rounds.TransitionStatus(ctx, nil, roundID, types.RoundPending, types.RoundRunning); err != nil {
		return nil, err
	}

	log := s.log.With("round_id", roundID, "activity_id", round.ActivityID)
	log.Info("Match round started")
	startedAt := time.Now()

	result, runErr := s.execute(ctx, log, round)
	if runErr != nil {
		log.Error("Match round failed", "error", runErr, "elapsed", time.Since(startedAt).String())
		s.failRound(ctx, roundID, runErr)
		return nil, runErr
	}

	log.Info("Match round completed",
		"matches_created", result.MatchesCreated,
		"participants_matched", result.ParticipantsMatched,
		"elapsed", time.Since(startedAt).String(),
	)
	return result, nil
}

// execute runs the pipeline for a round already claimed as running. Any error
// it returns causes the round to be marked failed with zero matches persisted.
func (s *matchRoundService) execute(ctx context.Context, log *logger.Logger, round *types.MatchRound) (*RunRoundResult, error) {
	// The activity may have been soft-deleted since the round was scheduled.
	if _, err := s.activities.GetByID(ctx, nil, round.ActivityID); err != nil {
		return nil, err
	}
	questionnaire, err := s.questionnaires.GetByActivityID(ctx, nil, round.ActivityID)
	if err != nil {
		return nil, err
	}
	completed, err := s.participants.GetCompletedByActivityID(ctx, nil, round.ActivityID)
	if err != nil {
		return nil, err
	}

	eligible := s.filter.Filter(completed, questionnaire.Questions)
	if len(eligible) < 2 {
		return nil, apperr.Errorf(apperr.KindInsufficientParticipants,
			"round %s: %d eligible participants after hard filtering, need at least 2", round.ID, len(eligible))
	}

	// The earliest joiner anchors the round; everyone else is a candidate.
	anchor := eligible[0]
	candidates := eligible[1:]

	ranked, err := s.ranker.Rank(ctx, anchor, candidates, questionnaire.Questions)
	if err != nil {
		return nil, err
	}

	batchExplanation, err := s.explainer.ExplainMatches(ctx, anchor, ranked)
	if err != nil {
		return nil, err
	}

	// TODO: reconcile the model's ordering with the locally computed one;
	// persisted matches currently follow the local sort and only borrow the
	// per-candidate explanation text from this call.
	insights, err := s.explainer.RankCandidates(ctx, anchor, rankedParticipants(ranked))
	if err != nil {
		return nil, err
	}
	log.Debug("Model ranking computed", "candidates", len(insights))
	insightByProfile := InsightsByProfile(insights)

	rows := make([]*types.Match, 0, len(ranked))
	for _, rc := range ranked {
		reason := batchExplanation
		if in, ok := insightByProfile[rc.Participant.ProfileID]; ok && strings.TrimSpace(in.Explanation) != "" {
			reason = in.Explanation
		}
		rows = append(rows, &types.Match{
			ID:          uuid.New(),
			RoundID:     round.ID,
			ProfileID1:  anchor.ProfileID,
			ProfileID2:  rc.Participant.ProfileID,
			MatchScore:  clamp01(rc.CombinedScore),
			MatchReason: reason,
			Icebreaker:  BuildIcebreaker(anchor, rc.Participant),
		})
	}

	// Match insert and the completed transition commit together, so a failure
	// anywhere leaves the round with zero matches.
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.matches.CreateBatch(ctx, tx, rows); err != nil {
			return err
		}
		return s.rounds.TransitionStatus(ctx, tx, round.ID, types.RoundRunning, types.RoundCompleted)
	}); err != nil {
		return nil, err
	}

	participantsMatched := 0
	if len(rows) > 0 {
		participantsMatched = len(rows) + 1 // anchor plus every matched candidate
	}
	return &RunRoundResult{
		MatchesCreated:      len(rows),
		ParticipantsMatched: participantsMatched,
	}, nil
}

func (s *matchRoundService) failRound(ctx context.Context, roundID uuid.UUID, cause error) {
	// The run error may itself be the caller's cancellation. The failed
	// transition must still land or the round is stuck in running forever.
	ctx = context.WithoutCancel(ctx)

	reason := cause.Error()
	if len(reason) > 500 {
		reason = reason[:500]
	}
	if err := s.rounds.MarkFailed(ctx, nil, roundID, reason); err != nil {
		s.log.Error("Failed to mark round as failed", "round_id", roundID, "error", err)
	}
}

func (s *matchRoundService) GetRoundMatches(ctx context.Context, roundID uuid.UUID) ([]*types.Match, error) {
	if _, err := s.rounds.GetByID(ctx, nil, roundID); err != nil {
		return nil, err
	}
	return s.matches.GetByRoundID(ctx, nil, roundID)
}

func rankedParticipants(ranked []RankedCandidate) []*types.Participant {
	out := make([]*types.Participant, len(ranked))
	for i, rc := range ranked {
		out[i] = rc.Participant
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
