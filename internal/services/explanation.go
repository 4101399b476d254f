package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/matchpoint-backend/internal/logger"
	"github.com/yungbote/matchpoint-backend/internal/pkg/apperr"
	"github.com/yungbote/matchpoint-backend/internal/types"
)

// CandidateInsight is one entry of the model-ranked candidate list.
type CandidateInsight struct {
	UserID              string   `json:"userId"`
	Score               float64  `json:"score"`
	Explanation         string   `json:"explanation"`
	CommonInterests     []string `json:"commonInterests"`
	CommonPreferences   []string `json:"commonPreferences"`
	HardFilterMatches   []string `json:"hardFilterMatches"`
	SoftPreferenceScore float64  `json:"softPreferenceScore"`
}

// ExplanationGenerator exposes the two completion-backed operations as
// separately callable paths: a free-text batch explanation of the final
// pairings, and a structured re-ranking of the candidates. Callers decide
// which output drives persistence.
type ExplanationGenerator interface {
	// ExplainMatches issues one completion over the anchor and the ranked
	// candidates and returns the raw text response.
	ExplainMatches(ctx context.Context, anchor *types.Participant, ranked []RankedCandidate) (string, error)
	// RankCandidates asks the model for its own scored ordering of the
	// candidates and parses the JSON array it returns.
	RankCandidates(ctx context.Context, anchor *types.Participant, candidates []*types.Participant) ([]CandidateInsight, error)
}

type explanationGenerator struct {
	log *logger.Logger
	ai  OpenAIClient
}

func NewExplanationGenerator(log *logger.Logger, ai OpenAIClient) ExplanationGenerator {
	return &explanationGenerator{
		log: log.With("service", "ExplanationGenerator"),
		ai:  ai,
	}
}

const explainSystemPrompt = "You are a matchmaking assistant for group activities. " +
	"Given one participant and their ranked candidate matches, explain in a warm, concrete tone " +
	"why each candidate is a good match. Mention shared interests and preferences by name. " +
	"Write one short paragraph per candidate."

func (g *explanationGenerator) ExplainMatches(ctx context.Context, anchor *types.Participant, ranked []RankedCandidate) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Participant:\n%s\n", CanonicalProfileText(anchor))
	b.WriteString("Ranked candidates:\n")
	for i, rc := range ranked {
		fmt.Fprintf(&b, "%d. (combined score %.3f, similarity %.3f, preference %.3f)\n%s\n",
			i+1, rc.CombinedScore, rc.SimilarityScore, rc.SoftPreferenceScore, CanonicalProfileText(rc.Participant))
	}

	text, err := g.ai.GenerateText(ctx, explainSystemPrompt, b.String())
	if err != nil {
		return "", apperr.E(apperr.KindCompletion, fmt.Sprintf("explain matches for participant %s", anchor.ID), err)
	}
	return text, nil
}

const rankSystemPrompt = "You are a matchmaking assistant for group activities. " +
	"Given one participant and a list of candidates, rank the candidates by compatibility. " +
	"Return a candidates array ordered best first."

func rankCandidatesSchema() map[string]any {
	candidate := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"userId":              map[string]any{"type": "string"},
			"score":               map[string]any{"type": "number"},
			"explanation":         map[string]any{"type": "string"},
			"commonInterests":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"commonPreferences":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"hardFilterMatches":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"softPreferenceScore": map[string]any{"type": "number"},
		},
		"required":             []string{"userId", "score", "explanation", "commonInterests", "commonPreferences", "hardFilterMatches", "softPreferenceScore"},
		"additionalProperties": false,
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"candidates": map[string]any{"type": "array", "items": candidate},
		},
		"required":             []string{"candidates"},
		"additionalProperties": false,
	}
}

func (g *explanationGenerator) RankCandidates(ctx context.Context, anchor *types.Participant, candidates []*types.Participant) ([]CandidateInsight, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Participant:\n%s\n", CanonicalProfileText(anchor))
	b.WriteString("Candidates (userId then profile):\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "userId %s:\n%s\n", c.ProfileID, CanonicalProfileText(c))
	}

	obj, err := g.ai.GenerateJSON(ctx, rankSystemPrompt, b.String(), "candidate_ranking", rankCandidatesSchema())
	if err != nil {
		return nil, apperr.E(apperr.KindCompletion, fmt.Sprintf("rank candidates for participant %s", anchor.ID), err)
	}

	raw, err := json.Marshal(obj["candidates"])
	if err != nil {
		return nil, apperr.E(apperr.KindCompletion, "encode ranked candidates", err)
	}
	var insights []CandidateInsight
	if err := json.Unmarshal(raw, &insights); err != nil {
		return nil, apperr.E(apperr.KindCompletion, "parse ranked candidates", err)
	}
	return insights, nil
}

// InsightsByProfile indexes insights by parsed profile id, dropping entries
// whose userId the model mangled.
func InsightsByProfile(insights []CandidateInsight) map[uuid.UUID]CandidateInsight {
	out := make(map[uuid.UUID]CandidateInsight, len(insights))
	for _, in := range insights {
		id, err := uuid.Parse(strings.TrimSpace(in.UserID))
		if err != nil {
			continue
		}
		out[id] = in
	}
	return out
}

// BuildIcebreaker derives a deterministic conversation opener from whatever
// the two participants share, so matches always carry one even when the model
// output omits a candidate.
func BuildIcebreaker(anchor, candidate *types.Participant) string {
	if shared := sharedTerms(anchor.Interests, candidate.Interests); len(shared) > 0 {
		return fmt.Sprintf("You both are into %s. Ask %s what got them started!", shared[0], candidate.DisplayName)
	}
	if shared := sharedTerms(anchor.Preferences, candidate.Preferences); len(shared) > 0 {
		return fmt.Sprintf("You both prefer %s. Compare notes with %s!", shared[0], candidate.DisplayName)
	}
	return fmt.Sprintf("Ask %s what they are most looking forward to at this event!", candidate.DisplayName)
}

func sharedTerms(a, b []string) []string {
	seen := make(map[string]string, len(a))
	for _, t := range a {
		seen[strings.ToLower(strings.TrimSpace(t))] = strings.TrimSpace(t)
	}
	var out []string
	for _, t := range b {
		if orig, ok := seen[strings.ToLower(strings.TrimSpace(t))]; ok && orig != "" {
			out = append(out, orig)
		}
	}
	return out
}
