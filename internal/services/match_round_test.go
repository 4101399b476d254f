package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/matchpoint-backend/internal/logger"
	"github.com/yungbote/matchpoint-backend/internal/pkg/apperr"
	"github.com/yungbote/matchpoint-backend/internal/repos"
	"github.com/yungbote/matchpoint-backend/internal/repos/testutil"
	"github.com/yungbote/matchpoint-backend/internal/types"
)

type fakeRanker struct {
	combined float64
	err      error
}

func (f *fakeRanker) Rank(_ context.Context, _ *types.Participant, candidates []*types.Participant, _ []types.Question) ([]RankedCandidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, RankedCandidate{Participant: c, CombinedScore: f.combined})
	}
	return out, nil
}

type fakeExplainer struct {
	text       string
	textErr    error
	insightErr error
}

func (f *fakeExplainer) ExplainMatches(_ context.Context, _ *types.Participant, _ []RankedCandidate) (string, error) {
	if f.textErr != nil {
		return "", f.textErr
	}
	return f.text, nil
}

func (f *fakeExplainer) RankCandidates(_ context.Context, _ *types.Participant, candidates []*types.Participant) ([]CandidateInsight, error) {
	if f.insightErr != nil {
		return nil, f.insightErr
	}
	out := make([]CandidateInsight, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, CandidateInsight{
			UserID:      c.ProfileID.String(),
			Score:       0.9,
			Explanation: fmt.Sprintf("insight for %s", c.ProfileID),
		})
	}
	return out, nil
}

type roundHarness struct {
	tx      *gorm.DB
	svc     MatchRoundService
	rounds  repos.MatchRoundRepo
	matches repos.MatchRepo
}

func newRoundHarness(t *testing.T, ranker CandidateRanker, explainer ExplanationGenerator) *roundHarness {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := logger.NewNop()

	rounds := repos.NewMatchRoundRepo(tx, log)
	matches := repos.NewMatchRepo(tx, log)
	svc := NewMatchRoundService(
		log,
		tx,
		repos.NewActivityRepo(tx, log),
		rounds,
		repos.NewQuestionnaireRepo(tx, log),
		repos.NewParticipantRepo(tx, log),
		matches,
		NewHardFilterEngine(log),
		ranker,
		explainer,
	)
	return &roundHarness{tx: tx, svc: svc, rounds: rounds, matches: matches}
}

func seedRoundScenario(t *testing.T, tx *gorm.DB, participantCount int) (*types.MatchRound, []*types.Participant) {
	t.Helper()
	ctx := context.Background()

	activity := testutil.SeedActivity(t, ctx, tx, "board game night")
	questionnaire := testutil.SeedQuestionnaire(t, ctx, tx, activity.ID)
	testutil.SeedQuestion(t, ctx, tx, questionnaire.ID, 0, types.QuestionSingleChoice, types.AttributeSoftPreference, 1, false)

	base := time.Now().UTC().Add(-time.Hour)
	var ps []*types.Participant
	for i := 0; i < participantCount; i++ {
		p := testutil.SeedParticipant(t, ctx, tx, activity.ID, fmt.Sprintf("p%d", i), types.ParticipantCompleted, []string{"games"})
		// spread join times so the anchor pick is deterministic
		joined := base.Add(time.Duration(i) * time.Minute)
		if err := tx.Model(p).Update("created_at", joined).Error; err != nil {
			t.Fatalf("set join time: %v", err)
		}
		ps = append(ps, p)
	}

	round := testutil.SeedMatchRound(t, ctx, tx, activity.ID, types.RoundPending)
	return round, ps
}

func (h *roundHarness) roundStatus(t *testing.T, roundID uuid.UUID) *types.MatchRound {
	t.Helper()
	round, err := h.rounds.GetByID(context.Background(), nil, roundID)
	if err != nil {
		t.Fatalf("reload round: %v", err)
	}
	return round
}

func (h *roundHarness) matchCount(t *testing.T, roundID uuid.UUID) int64 {
	t.Helper()
	n, err := h.matches.CountByRoundID(context.Background(), nil, roundID)
	if err != nil {
		t.Fatalf("count matches: %v", err)
	}
	return n
}

func TestRunRoundSuccess(t *testing.T) {
	h := newRoundHarness(t, &fakeRanker{combined: 0.9}, &fakeExplainer{text: "batch explanation"})
	round, ps := seedRoundScenario(t, h.tx, 3)
	ctx := context.Background()

	result, err := h.svc.RunRound(ctx, round.ID)
	if err != nil {
		t.Fatalf("RunRound: %v", err)
	}
	if result.MatchesCreated != 2 || result.ParticipantsMatched != 3 {
		t.Fatalf("result = %+v, want 2 matches over 3 participants", result)
	}

	got := h.roundStatus(t, round.ID)
	if got.Status != types.RoundCompleted {
		t.Fatalf("round status = %s, want completed", got.Status)
	}
	if got.StartedAt == nil || got.FinishedAt == nil {
		t.Fatal("expected started_at and finished_at to be set")
	}

	matches, err := h.svc.GetRoundMatches(ctx, round.ID)
	if err != nil {
		t.Fatalf("GetRoundMatches: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 persisted matches, got %d", len(matches))
	}
	anchor := ps[0]
	for _, m := range matches {
		if m.ProfileID1 != anchor.ProfileID {
			t.Fatalf("profile_id_1 = %s, want anchor %s", m.ProfileID1, anchor.ProfileID)
		}
		if m.MatchScore != 0.9 {
			t.Fatalf("match score = %v, want 0.9", m.MatchScore)
		}
		if want := fmt.Sprintf("insight for %s", m.ProfileID2); m.MatchReason != want {
			t.Fatalf("match reason = %q, want %q", m.MatchReason, want)
		}
		if m.Icebreaker == "" {
			t.Fatal("expected a non-empty icebreaker")
		}
	}

	// terminal rounds cannot run again
	if _, err := h.svc.RunRound(ctx, round.ID); err == nil {
		t.Fatal("expected rerun of a completed round to fail")
	} else {
		assertKind(t, err, apperr.KindInvalidState)
	}
	if h.matchCount(t, round.ID) != 2 {
		t.Fatal("rerun must not create additional matches")
	}
}

func TestRunRoundClampsScore(t *testing.T) {
	h := newRoundHarness(t, &fakeRanker{combined: 1.7}, &fakeExplainer{text: "t"})
	round, _ := seedRoundScenario(t, h.tx, 2)

	if _, err := h.svc.RunRound(context.Background(), round.ID); err != nil {
		t.Fatalf("RunRound: %v", err)
	}
	matches, err := h.matches.GetByRoundID(context.Background(), nil, round.ID)
	if err != nil {
		t.Fatalf("load matches: %v", err)
	}
	if len(matches) != 1 || matches[0].MatchScore != 1 {
		t.Fatalf("expected score clamped to 1, got %+v", matches)
	}
}

func TestRunRoundInsufficientParticipants(t *testing.T) {
	h := newRoundHarness(t, &fakeRanker{combined: 0.5}, &fakeExplainer{text: "t"})
	round, _ := seedRoundScenario(t, h.tx, 1)

	_, err := h.svc.RunRound(context.Background(), round.ID)
	if err == nil {
		t.Fatal("expected error with one participant")
	}
	assertKind(t, err, apperr.KindInsufficientParticipants)

	got := h.roundStatus(t, round.ID)
	if got.Status != types.RoundFailed {
		t.Fatalf("round status = %s, want failed", got.Status)
	}
	if got.FailureReason == "" {
		t.Fatal("expected a failure reason")
	}
	if h.matchCount(t, round.ID) != 0 {
		t.Fatal("failed round must have zero matches")
	}
}

func TestRunRoundRejectsNonPending(t *testing.T) {
	for _, status := range []types.MatchRoundStatus{types.RoundRunning, types.RoundCompleted, types.RoundFailed} {
		t.Run(string(status), func(t *testing.T) {
			h := newRoundHarness(t, &fakeRanker{combined: 0.5}, &fakeExplainer{text: "t"})
			activity := testutil.SeedActivity(t, context.Background(), h.tx, "a")
			round := testutil.SeedMatchRound(t, context.Background(), h.tx, activity.ID, status)

			_, err := h.svc.RunRound(context.Background(), round.ID)
			if err == nil {
				t.Fatal("expected error")
			}
			assertKind(t, err, apperr.KindInvalidState)

			if got := h.roundStatus(t, round.ID); got.Status != status {
				t.Fatalf("status changed from %s to %s", status, got.Status)
			}
		})
	}
}

func TestRunRoundUnknownRound(t *testing.T) {
	h := newRoundHarness(t, &fakeRanker{combined: 0.5}, &fakeExplainer{text: "t"})

	_, err := h.svc.RunRound(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error")
	}
	assertKind(t, err, apperr.KindNotFound)
}

func TestRunRoundExplanationFailureLeavesNoMatches(t *testing.T) {
	h := newRoundHarness(t, &fakeRanker{combined: 0.5}, &fakeExplainer{textErr: errors.New("completion failed")})
	round, _ := seedRoundScenario(t, h.tx, 2)

	_, err := h.svc.RunRound(context.Background(), round.ID)
	if err == nil {
		t.Fatal("expected error")
	}

	got := h.roundStatus(t, round.ID)
	if got.Status != types.RoundFailed {
		t.Fatalf("round status = %s, want failed", got.Status)
	}
	if h.matchCount(t, round.ID) != 0 {
		t.Fatal("no matches may survive a failed pipeline")
	}
}

func TestRunRoundRankerFailure(t *testing.T) {
	h := newRoundHarness(t, &fakeRanker{err: errors.New("embedding service down")}, &fakeExplainer{text: "t"})
	round, _ := seedRoundScenario(t, h.tx, 2)

	_, err := h.svc.RunRound(context.Background(), round.ID)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := h.roundStatus(t, round.ID); got.Status != types.RoundFailed {
		t.Fatalf("round status = %s, want failed", got.Status)
	}
	if h.matchCount(t, round.ID) != 0 {
		t.Fatal("failed round must have zero matches")
	}
}

// cancelingRanker simulates the caller disconnecting mid-pipeline: it cancels
// the request context and reports the cancellation as its error.
type cancelingRanker struct {
	cancel context.CancelFunc
}

func (f *cancelingRanker) Rank(ctx context.Context, _ *types.Participant, _ []*types.Participant, _ []types.Question) ([]RankedCandidate, error) {
	f.cancel()
	return nil, ctx.Err()
}

func TestRunRoundCanceledRequestStillMarksFailed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newRoundHarness(t, &cancelingRanker{cancel: cancel}, &fakeExplainer{text: "t"})
	round, _ := seedRoundScenario(t, h.tx, 2)

	_, err := h.svc.RunRound(ctx, round.ID)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("RunRound error = %v, want context.Canceled", err)
	}

	// the failed transition must land despite the dead request context,
	// otherwise the round is wedged in running and can never rerun
	got := h.roundStatus(t, round.ID)
	if got.Status != types.RoundFailed {
		t.Fatalf("round status = %s, want failed", got.Status)
	}
	if got.FailureReason == "" {
		t.Fatal("expected a failure reason")
	}
	if h.matchCount(t, round.ID) != 0 {
		t.Fatal("failed round must have zero matches")
	}
}

func TestRunRoundHardFilterExcludesUnanswered(t *testing.T) {
	h := newRoundHarness(t, &fakeRanker{combined: 0.8}, &fakeExplainer{text: "t"})
	ctx := context.Background()

	activity := testutil.SeedActivity(t, ctx, h.tx, "hiking trip")
	questionnaire := testutil.SeedQuestionnaire(t, ctx, h.tx, activity.ID)
	gate := testutil.SeedQuestion(t, ctx, h.tx, questionnaire.ID, 0, types.QuestionSingleChoice, types.AttributeHardFilter, 1, true)

	base := time.Now().UTC().Add(-time.Hour)
	var ps []*types.Participant
	for i := 0; i < 3; i++ {
		p := testutil.SeedParticipant(t, ctx, h.tx, activity.ID, fmt.Sprintf("p%d", i), types.ParticipantCompleted, []string{"hiking"})
		if err := h.tx.Model(p).Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error; err != nil {
			t.Fatalf("set join time: %v", err)
		}
		ps = append(ps, p)
	}
	// the last joiner never answers the required gating question
	testutil.SeedAnswer(t, ctx, h.tx, ps[0].ID, gate.ID, "yes", nil)
	testutil.SeedAnswer(t, ctx, h.tx, ps[1].ID, gate.ID, "yes", nil)

	round := testutil.SeedMatchRound(t, ctx, h.tx, activity.ID, types.RoundPending)

	result, err := h.svc.RunRound(ctx, round.ID)
	if err != nil {
		t.Fatalf("RunRound: %v", err)
	}
	if result.MatchesCreated != 1 || result.ParticipantsMatched != 2 {
		t.Fatalf("result = %+v, want 1 match over 2 participants", result)
	}
	if got := h.roundStatus(t, round.ID); got.Status != types.RoundCompleted {
		t.Fatalf("round status = %s, want completed", got.Status)
	}

	matches, err := h.matches.GetByRoundID(ctx, nil, round.ID)
	if err != nil {
		t.Fatalf("load matches: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected exactly 1 match, got %d", len(matches))
	}
	if matches[0].ProfileID1 != ps[0].ProfileID || matches[0].ProfileID2 != ps[1].ProfileID {
		t.Fatalf("match pairs %s with %s, want the two answered participants",
			matches[0].ProfileID1, matches[0].ProfileID2)
	}
}

func TestGetRoundMatchesUnknownRound(t *testing.T) {
	h := newRoundHarness(t, &fakeRanker{}, &fakeExplainer{})

	_, err := h.svc.GetRoundMatches(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error")
	}
	assertKind(t, err, apperr.KindNotFound)
}
