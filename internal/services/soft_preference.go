package services

import (
	"strings"

	"github.com/yungbote/matchpoint-backend/internal/logger"
	"github.com/yungbote/matchpoint-backend/internal/types"
)

// SoftPreferenceScorer computes a weighted compatibility score from
// soft-preference attributes. A soft preference never excludes a participant,
// it only shifts the score.
type SoftPreferenceScorer struct {
	log *logger.Logger
}

func NewSoftPreferenceScorer(log *logger.Logger) *SoftPreferenceScorer {
	return &SoftPreferenceScorer{log: log.With("service", "SoftPreferenceScorer")}
}

// Score returns the weighted mean of per-attribute answer similarity between
// two participants. Attributes either participant left unanswered contribute
// nothing and their weight is excluded from the denominator. The result is 0
// when no comparable attribute exists, which callers must read as "no signal"
// rather than zero compatibility.
func (s *SoftPreferenceScorer) Score(a, b *types.Participant, questions []types.Question) float64 {
	var totalScore, totalWeight float64

	for i := range questions {
		q := &questions[i]
		attr := q.SoftPreference()
		if attr == nil {
			continue
		}

		ansA := a.AnswerFor(q.ID)
		ansB := b.AnswerFor(q.ID)
		if ansA.IsEmpty() || ansB.IsEmpty() {
			continue
		}

		weight := attr.Weight
		if weight <= 0 {
			weight = 1
		}
		totalScore += answerSimilarity(q.Type, ansA, ansB) * weight
		totalWeight += weight
	}

	denom := totalWeight
	if denom < 1 {
		denom = 1
	}
	return totalScore / denom
}

func answerSimilarity(qt types.QuestionType, a, b *types.Answer) float64 {
	switch qt {
	case types.QuestionSingleChoice:
		if strings.EqualFold(strings.TrimSpace(a.Value), strings.TrimSpace(b.Value)) {
			return 1
		}
		return 0
	case types.QuestionMultipleChoice:
		return jaccard(a.Terms(), b.Terms())
	default:
		return jaccard(tokenize(a.Terms()), tokenize(b.Terms()))
	}
}

// jaccard is |A ∩ B| / |A ∪ B| over case-folded terms.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	seen := make(map[string]bool, len(a))
	for _, t := range a {
		seen[strings.ToLower(strings.TrimSpace(t))] = true
	}

	matches := 0
	union := len(seen)
	counted := make(map[string]bool, len(b))
	for _, t := range b {
		key := strings.ToLower(strings.TrimSpace(t))
		if counted[key] {
			continue
		}
		counted[key] = true
		if seen[key] {
			matches++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(matches) / float64(union)
}

func tokenize(terms []string) []string {
	var out []string
	for _, t := range terms {
		out = append(out, strings.Fields(strings.ToLower(t))...)
	}
	return out
}
