package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yungbote/matchpoint-backend/internal/db"
	"github.com/yungbote/matchpoint-backend/internal/handlers"
	"github.com/yungbote/matchpoint-backend/internal/logger"
	"github.com/yungbote/matchpoint-backend/internal/middleware"
	"github.com/yungbote/matchpoint-backend/internal/observability"
	"github.com/yungbote/matchpoint-backend/internal/repos"
	"github.com/yungbote/matchpoint-backend/internal/server"
	"github.com/yungbote/matchpoint-backend/internal/services"
	"github.com/yungbote/matchpoint-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	ctx := context.Background()
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "matchpoint",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if otelShutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(shutdownCtx); err != nil {
				log.Warn("OTel shutdown failed", "error", err)
			}
		}()
	}

	// Env
	log.Info("Loading environment variables from main...")
	matchingCfg := services.LoadMatchingConfig(log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	activityRepo := repos.NewActivityRepo(thePG, log)
	questionnaireRepo := repos.NewQuestionnaireRepo(thePG, log)
	participantRepo := repos.NewParticipantRepo(thePG, log)
	matchRoundRepo := repos.NewMatchRoundRepo(thePG, log)
	matchRepo := repos.NewMatchRepo(thePG, log)
	matchFeedbackRepo := repos.NewMatchFeedbackRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	openaiClient, err := services.NewOpenAIClient(log, matchingCfg)
	if err != nil {
		log.Error("Could not init OpenAIClient", "error", err)
		os.Exit(1)
	}
	var embeddingCache services.EmbeddingCache
	if matchingCfg.CacheEnabled {
		embeddingCache, err = services.NewRedisEmbeddingCache(log)
		if err != nil {
			log.Warn("Redis cache unavailable, falling back to in-process cache", "error", err)
			embeddingCache = services.NewMemoryEmbeddingCache()
		}
	} else {
		embeddingCache = services.NewMemoryEmbeddingCache()
	}
	embeddingService := services.NewEmbeddingService(log, openaiClient, embeddingCache, matchingCfg)
	hardFilter := services.NewHardFilterEngine(log)
	softScorer := services.NewSoftPreferenceScorer(log)
	ranker := services.NewCandidateRanker(log, embeddingService, softScorer, matchingCfg)
	explainer := services.NewExplanationGenerator(log, openaiClient)
	matchRoundService := services.NewMatchRoundService(
		log,
		thePG,
		activityRepo,
		matchRoundRepo,
		questionnaireRepo,
		participantRepo,
		matchRepo,
		hardFilter,
		ranker,
		explainer,
	)
	matchFeedbackService := services.NewMatchFeedbackService(log, matchRepo, matchFeedbackRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	matchRoundHandler := handlers.NewMatchRoundHandler(log, matchRoundService)
	matchFeedbackHandler := handlers.NewMatchFeedbackHandler(log, matchFeedbackService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		RequestLogger:        middleware.NewRequestLogger(log),
		MatchRoundHandler:    matchRoundHandler,
		MatchFeedbackHandler: matchFeedbackHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Info("Server listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("Server shutdown failed", "error", err)
	}
}
