package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/matchpoint-backend/internal/pkg/apperr"
	"github.com/yungbote/matchpoint-backend/internal/repos/testutil"
	"github.com/yungbote/matchpoint-backend/internal/types"
)

func TestQuestionnaireRepoGetByActivityID(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewQuestionnaireRepo(db, testutil.Logger(t))

	activity := testutil.SeedActivity(t, ctx, tx, "book club")
	questionnaire := testutil.SeedQuestionnaire(t, ctx, tx, activity.ID)
	// seeded out of order on purpose
	testutil.SeedQuestion(t, ctx, tx, questionnaire.ID, 2, types.QuestionText, types.AttributeSoftPreference, 1, false)
	testutil.SeedQuestion(t, ctx, tx, questionnaire.ID, 0, types.QuestionSingleChoice, types.AttributeHardFilter, 1, true)
	testutil.SeedQuestion(t, ctx, tx, questionnaire.ID, 1, types.QuestionMultipleChoice, types.AttributeSoftPreference, 2, false)

	got, err := repo.GetByActivityID(ctx, tx, activity.ID)
	if err != nil {
		t.Fatalf("GetByActivityID: %v", err)
	}
	if len(got.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(got.Questions))
	}
	for i, q := range got.Questions {
		if q.Position != i {
			t.Fatalf("questions not ordered by position: index %d has position %d", i, q.Position)
		}
		if len(q.Attributes) != 1 {
			t.Fatalf("attributes not preloaded for question %s", q.ID)
		}
	}
}

func TestQuestionnaireRepoNotFound(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewQuestionnaireRepo(db, testutil.Logger(t))

	_, err := repo.GetByActivityID(context.Background(), tx, uuid.New())
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestParticipantRepoGetCompletedByActivityID(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewParticipantRepo(db, testutil.Logger(t))

	activity := testutil.SeedActivity(t, ctx, tx, "a")
	questionnaire := testutil.SeedQuestionnaire(t, ctx, tx, activity.ID)
	q := testutil.SeedQuestion(t, ctx, tx, questionnaire.ID, 0, types.QuestionText, types.AttributeSoftPreference, 1, false)

	done := testutil.SeedParticipant(t, ctx, tx, activity.ID, "done", types.ParticipantCompleted, nil)
	testutil.SeedAnswer(t, ctx, tx, done.ID, q.ID, "late nights", nil)
	testutil.SeedParticipant(t, ctx, tx, activity.ID, "pending", types.ParticipantPending, nil)

	other := testutil.SeedActivity(t, ctx, tx, "b")
	testutil.SeedParticipant(t, ctx, tx, other.ID, "elsewhere", types.ParticipantCompleted, nil)

	got, err := repo.GetCompletedByActivityID(ctx, tx, activity.ID)
	if err != nil {
		t.Fatalf("GetCompletedByActivityID: %v", err)
	}
	if len(got) != 1 || got[0].DisplayName != "done" {
		t.Fatalf("expected only the completed participant, got %d", len(got))
	}
	if len(got[0].Answers) != 1 || got[0].Answers[0].Value != "late nights" {
		t.Fatalf("answers not preloaded: %+v", got[0].Answers)
	}
}
