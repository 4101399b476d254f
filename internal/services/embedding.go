package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/matchpoint-backend/internal/logger"
	"github.com/yungbote/matchpoint-backend/internal/pkg/apperr"
	"github.com/yungbote/matchpoint-backend/internal/types"
)

type EmbeddingService interface {
	EmbedParticipant(ctx context.Context, p *types.Participant) ([]float32, error)
	// EmbedParticipants embeds every participant exactly once, fanning out up
	// to the configured concurrency.
	EmbedParticipants(ctx context.Context, ps []*types.Participant) (map[uuid.UUID][]float32, error)
}

type embeddingService struct {
	log         *logger.Logger
	ai          OpenAIClient
	cache       EmbeddingCache // nil when caching is disabled
	model       string
	concurrency int
	group       singleflight.Group
}

func NewEmbeddingService(log *logger.Logger, ai OpenAIClient, cache EmbeddingCache, cfg MatchingConfig) EmbeddingService {
	concurrency := cfg.EmbedConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	if !cfg.CacheEnabled {
		cache = nil
	}
	return &embeddingService{
		log:         log.With("service", "EmbeddingService"),
		ai:          ai,
		cache:       cache,
		model:       cfg.EmbedModel,
		concurrency: concurrency,
	}
}

// CanonicalProfileText renders a participant in a stable field order (id,
// name, interests, preferences, personality traits, then answers by question
// id) so equal profiles always produce the same cache key and embedding input.
func CanonicalProfileText(p *types.Participant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "id: %s\n", p.ProfileID)
	fmt.Fprintf(&b, "name: %s\n", p.DisplayName)
	fmt.Fprintf(&b, "interests: %s\n", strings.Join(p.Interests, ", "))
	fmt.Fprintf(&b, "preferences: %s\n", strings.Join(p.Preferences, ", "))
	fmt.Fprintf(&b, "personality traits: %s\n", strings.Join(p.PersonalityTraits, ", "))

	answers := make([]types.Answer, len(p.Answers))
	copy(answers, p.Answers)
	sort.Slice(answers, func(i, j int) bool {
		return answers[i].QuestionID.String() < answers[j].QuestionID.String()
	})
	for i := range answers {
		terms := answers[i].Terms()
		if len(terms) == 0 {
			continue
		}
		fmt.Fprintf(&b, "answer %s: %s\n", answers[i].QuestionID, strings.Join(terms, ", "))
	}
	return b.String()
}

func (es *embeddingService) EmbedParticipant(ctx context.Context, p *types.Participant) ([]float32, error) {
	text := CanonicalProfileText(p)
	key := es.model + ":" + text

	if es.cache != nil {
		if vec, ok, err := es.cache.Get(ctx, key); err != nil {
			es.log.Warn("Embedding cache read failed, falling through to API", "error", err)
		} else if ok {
			return vec, nil
		}
	}

	// singleflight collapses concurrent misses for the same key into a single
	// API call.
	v, err, _ := es.group.Do(key, func() (interface{}, error) {
		vecs, err := es.ai.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(vecs) != 1 {
			return nil, fmt.Errorf("expected 1 embedding, got %d", len(vecs))
		}
		if es.cache != nil {
			if putErr := es.cache.Put(ctx, key, vecs[0]); putErr != nil {
				es.log.Warn("Embedding cache write failed", "error", putErr)
			}
		}
		return vecs[0], nil
	})
	if err != nil {
		return nil, apperr.E(apperr.KindEmbedding, fmt.Sprintf("embed participant %s", p.ID), err)
	}
	return v.([]float32), nil
}

func (es *embeddingService) EmbedParticipants(ctx context.Context, ps []*types.Participant) (map[uuid.UUID][]float32, error) {
	out := make(map[uuid.UUID][]float32, len(ps))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(es.concurrency)
	for _, p := range ps {
		g.Go(func() error {
			vec, err := es.EmbedParticipant(gctx, p)
			if err != nil {
				return err
			}
			mu.Lock()
			out[p.ID] = vec
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
