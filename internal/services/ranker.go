package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/yungbote/matchpoint-backend/internal/logger"
	"github.com/yungbote/matchpoint-backend/internal/types"
)

// RankedCandidate is one scored candidate relative to the anchor participant.
type RankedCandidate struct {
	Participant         *types.Participant
	SimilarityScore     float64
	SoftPreferenceScore float64
	CombinedScore       float64
}

type CandidateRanker interface {
	// Rank embeds the anchor and every candidate once, scores each candidate
	// against the anchor, sorts descending by combined score (stable, so ties
	// keep their input order) and truncates to the configured maximum.
	Rank(ctx context.Context, anchor *types.Participant, candidates []*types.Participant, questions []types.Question) ([]RankedCandidate, error)
}

type candidateRanker struct {
	log        *logger.Logger
	embeddings EmbeddingService
	scorer     *SoftPreferenceScorer
	maxResults int
}

func NewCandidateRanker(log *logger.Logger, embeddings EmbeddingService, scorer *SoftPreferenceScorer, cfg MatchingConfig) CandidateRanker {
	return &candidateRanker{
		log:        log.With("service", "CandidateRanker"),
		embeddings: embeddings,
		scorer:     scorer,
		maxResults: cfg.MaxResults,
	}
}

func (r *candidateRanker) Rank(ctx context.Context, anchor *types.Participant, candidates []*types.Participant, questions []types.Question) ([]RankedCandidate, error) {
	all := make([]*types.Participant, 0, len(candidates)+1)
	all = append(all, anchor)
	all = append(all, candidates...)

	vectors, err := r.embeddings.EmbedParticipants(ctx, all)
	if err != nil {
		return nil, err
	}
	anchorVec, ok := vectors[anchor.ID]
	if !ok {
		return nil, fmt.Errorf("no embedding produced for anchor %s", anchor.ID)
	}

	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		vec, ok := vectors[c.ID]
		if !ok {
			return nil, fmt.Errorf("no embedding produced for candidate %s", c.ID)
		}
		sim := CosineSimilarity(anchorVec, vec)
		soft := r.scorer.Score(anchor, c, questions)
		ranked = append(ranked, RankedCandidate{
			Participant:         c,
			SimilarityScore:     sim,
			SoftPreferenceScore: soft,
			CombinedScore:       (sim + soft) / 2,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CombinedScore > ranked[j].CombinedScore
	})

	if r.maxResults > 0 && len(ranked) > r.maxResults {
		ranked = ranked[:r.maxResults]
	}
	return ranked, nil
}
