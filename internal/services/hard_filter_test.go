package services

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/matchpoint-backend/internal/logger"
	"github.com/yungbote/matchpoint-backend/internal/types"
)

func hardFilterQuestion(required bool) types.Question {
	id := uuid.New()
	return types.Question{
		ID:   id,
		Type: types.QuestionText,
		Attributes: []types.QuestionAttribute{
			{ID: uuid.New(), QuestionID: id, Type: types.AttributeHardFilter, Required: required},
		},
	}
}

func participantWithAnswer(name string, questionID uuid.UUID, value string) *types.Participant {
	p := &types.Participant{ID: uuid.New(), ProfileID: uuid.New(), DisplayName: name}
	if questionID != uuid.Nil {
		p.Answers = []types.Answer{{ID: uuid.New(), ParticipantID: p.ID, QuestionID: questionID, Value: value}}
	}
	return p
}

func TestHardFilterRetention(t *testing.T) {
	q := hardFilterQuestion(true)

	answered := participantWithAnswer("answered", q.ID, "yes")
	blank := participantWithAnswer("blank", q.ID, "   ")
	missing := participantWithAnswer("missing", uuid.Nil, "")

	engine := NewHardFilterEngine(logger.NewNop())
	got := engine.Filter([]*types.Participant{answered, blank, missing}, []types.Question{q})

	if len(got) != 1 || got[0].ID != answered.ID {
		t.Fatalf("expected only the answered participant to survive, got %d", len(got))
	}
}

func TestHardFilterOptionalAttributeKeepsEveryone(t *testing.T) {
	q := hardFilterQuestion(false)
	ps := []*types.Participant{
		participantWithAnswer("a", q.ID, "yes"),
		participantWithAnswer("b", uuid.Nil, ""),
	}

	engine := NewHardFilterEngine(logger.NewNop())
	if got := engine.Filter(ps, []types.Question{q}); len(got) != 2 {
		t.Fatalf("optional attribute must not eliminate anyone, got %d", len(got))
	}
}

func TestHardFilterSoftPreferenceIgnored(t *testing.T) {
	id := uuid.New()
	q := types.Question{
		ID:   id,
		Type: types.QuestionSingleChoice,
		Attributes: []types.QuestionAttribute{
			{ID: uuid.New(), QuestionID: id, Type: types.AttributeSoftPreference, Required: true},
		},
	}
	ps := []*types.Participant{participantWithAnswer("unanswered", uuid.Nil, "")}

	engine := NewHardFilterEngine(logger.NewNop())
	if got := engine.Filter(ps, []types.Question{q}); len(got) != 1 {
		t.Fatalf("soft preferences must never eliminate, got %d", len(got))
	}
}

func TestHardFilterIdempotentAndOrderPreserving(t *testing.T) {
	q := hardFilterQuestion(true)

	var ps []*types.Participant
	for i := 0; i < 4; i++ {
		ps = append(ps, participantWithAnswer("p", q.ID, "ok"))
	}
	ps = append(ps, participantWithAnswer("dropped", uuid.Nil, ""))

	engine := NewHardFilterEngine(logger.NewNop())
	once := engine.Filter(ps, []types.Question{q})
	twice := engine.Filter(once, []types.Question{q})

	if len(once) != 4 || len(twice) != 4 {
		t.Fatalf("expected 4 survivors, got %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID || once[i].ID != ps[i].ID {
			t.Fatalf("order changed at index %d", i)
		}
	}
}

func TestHardFilterMultipleChoiceAnswer(t *testing.T) {
	q := hardFilterQuestion(true)
	q.Type = types.QuestionMultipleChoice

	p := &types.Participant{ID: uuid.New(), ProfileID: uuid.New()}
	p.Answers = []types.Answer{{
		ID:            uuid.New(),
		ParticipantID: p.ID,
		QuestionID:    q.ID,
		Values:        datatypes.JSONSlice[string]{"", "hiking"},
	}}

	engine := NewHardFilterEngine(logger.NewNop())
	if got := engine.Filter([]*types.Participant{p}, []types.Question{q}); len(got) != 1 {
		t.Fatalf("non-empty values answer must count as answered")
	}
}
