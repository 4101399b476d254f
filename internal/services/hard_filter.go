package services

import (
	"github.com/yungbote/matchpoint-backend/internal/logger"
	"github.com/yungbote/matchpoint-backend/internal/types"
)

// HardFilterEngine removes participants who fail required hard-filter
// attributes before any scoring happens. Pure and order-preserving, so
// filtering an already-filtered set is a no-op.
type HardFilterEngine struct {
	log *logger.Logger
}

func NewHardFilterEngine(log *logger.Logger) *HardFilterEngine {
	return &HardFilterEngine{log: log.With("service", "HardFilterEngine")}
}

// Filter retains a participant only when, for every hard-filter attribute,
// the attribute is not required or the participant supplied a non-empty
// answer to the associated question.
func (e *HardFilterEngine) Filter(participants []*types.Participant, questions []types.Question) []*types.Participant {
	out := make([]*types.Participant, 0, len(participants))
	for _, p := range participants {
		if e.passes(p, questions) {
			out = append(out, p)
		}
	}
	if removed := len(participants) - len(out); removed > 0 {
		e.log.Debug("Hard filter removed participants", "removed", removed, "remaining", len(out))
	}
	return out
}

func (e *HardFilterEngine) passes(p *types.Participant, questions []types.Question) bool {
	for i := range questions {
		attr := questions[i].HardFilter()
		if attr == nil || !attr.Required {
			continue
		}
		if p.AnswerFor(questions[i].ID).IsEmpty() {
			return false
		}
	}
	return true
}
