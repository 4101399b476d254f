package services

import (
	"github.com/yungbote/matchpoint-backend/internal/logger"
	"github.com/yungbote/matchpoint-backend/internal/utils"
)

// MatchingConfig carries every knob the matching pipeline recognizes. Loaded
// once at startup and passed down; services never read the environment
// themselves.
type MatchingConfig struct {
	EmbedModel      string
	CompletionModel string
	Temperature     float64
	MaxTokens       int
	TimeoutSeconds  int
	MaxRetries      int
	MaxResults      int
	// SimilarityThreshold is recognized but not applied as a hard cutoff:
	// candidates below it are still returned.
	SimilarityThreshold float64
	CacheEnabled        bool
	EmbedConcurrency    int
}

func LoadMatchingConfig(log *logger.Logger) MatchingConfig {
	// a non-positive cap would disable truncation entirely, so fall back
	maxResults := utils.GetEnvAsInt("MATCH_MAX_RESULTS", 10, log)
	if maxResults < 1 {
		log.Warn("MATCH_MAX_RESULTS must be at least 1, using default", "value", maxResults)
		maxResults = 10
	}

	return MatchingConfig{
		EmbedModel:          utils.GetEnv("MATCH_EMBED_MODEL", "text-embedding-3-small", log),
		CompletionModel:     utils.GetEnv("MATCH_COMPLETION_MODEL", "gpt-4o-mini", log),
		Temperature:         utils.GetEnvAsFloat("MATCH_TEMPERATURE", 0.7, log),
		MaxTokens:           utils.GetEnvAsInt("MATCH_MAX_TOKENS", 1024, log),
		TimeoutSeconds:      utils.GetEnvAsInt("MATCH_TIMEOUT_SECONDS", 60, log),
		MaxRetries:          utils.GetEnvAsInt("MATCH_MAX_RETRIES", 3, log),
		MaxResults:          maxResults,
		SimilarityThreshold: utils.GetEnvAsFloat("MATCH_SIMILARITY_THRESHOLD", 0.0, log),
		CacheEnabled:        utils.GetEnvAsBool("MATCH_CACHE_ENABLED", true, log),
		EmbedConcurrency:    utils.GetEnvAsInt("MATCH_EMBED_CONCURRENCY", 8, log),
	}
}
