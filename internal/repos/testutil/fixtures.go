package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/matchpoint-backend/internal/types"
)

func SeedActivity(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Activity {
	tb.Helper()
	a := &types.Activity{
		ID:        uuid.New(),
		CreatorID: uuid.New(),
		Name:      name,
		Type:      "social",
		Capacity:  50,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed activity: %v", err)
	}
	return a
}

func SeedQuestionnaire(tb testing.TB, ctx context.Context, tx *gorm.DB, activityID uuid.UUID) *types.Questionnaire {
	tb.Helper()
	q := &types.Questionnaire{
		ID:         uuid.New(),
		ActivityID: activityID,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed questionnaire: %v", err)
	}
	return q
}

func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, questionnaireID uuid.UUID, position int, qt types.QuestionType, attrType types.AttributeType, weight float64, required bool) *types.Question {
	tb.Helper()
	q := &types.Question{
		ID:              uuid.New(),
		QuestionnaireID: questionnaireID,
		Position:        position,
		Text:            "question",
		Type:            qt,
		Required:        required,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	attr := &types.QuestionAttribute{
		ID:         uuid.New(),
		QuestionID: q.ID,
		Type:       attrType,
		Weight:     weight,
		Required:   required,
	}
	if err := tx.WithContext(ctx).Create(attr).Error; err != nil {
		tb.Fatalf("seed question attribute: %v", err)
	}
	q.Attributes = []types.QuestionAttribute{*attr}
	return q
}

func SeedParticipant(tb testing.TB, ctx context.Context, tx *gorm.DB, activityID uuid.UUID, name string, status types.ParticipantStatus, interests []string) *types.Participant {
	tb.Helper()
	p := &types.Participant{
		ID:          uuid.New(),
		ProfileID:   uuid.New(),
		ActivityID:  activityID,
		DisplayName: name,
		Interests:   datatypes.JSONSlice[string](interests),
		Status:      status,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed participant: %v", err)
	}
	return p
}

func SeedAnswer(tb testing.TB, ctx context.Context, tx *gorm.DB, participantID, questionID uuid.UUID, value string, values []string) *types.Answer {
	tb.Helper()
	a := &types.Answer{
		ID:            uuid.New(),
		ParticipantID: participantID,
		QuestionID:    questionID,
		Value:         value,
		Values:        datatypes.JSONSlice[string](values),
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed answer: %v", err)
	}
	return a
}

func SeedMatchRound(tb testing.TB, ctx context.Context, tx *gorm.DB, activityID uuid.UUID, status types.MatchRoundStatus) *types.MatchRound {
	tb.Helper()
	r := &types.MatchRound{
		ID:         uuid.New(),
		ActivityID: activityID,
		Name:       "round",
		Status:     status,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed match round: %v", err)
	}
	return r
}
