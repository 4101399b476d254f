package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/matchpoint-backend/internal/handlers"
	"github.com/yungbote/matchpoint-backend/internal/middleware"
)

type RouterConfig struct {
	RequestLogger        *middleware.RequestLogger
	MatchRoundHandler    *handlers.MatchRoundHandler
	MatchFeedbackHandler *handlers.MatchFeedbackHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))
	router.Use(otelgin.Middleware("matchpoint"))
	if cfg.RequestLogger != nil {
		router.Use(cfg.RequestLogger.Handle())
	}

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Match rounds
		api.POST("/match-rounds/:id/run", cfg.MatchRoundHandler.RunRound)
		api.GET("/match-rounds/:id/matches", cfg.MatchRoundHandler.GetRoundMatches)
		// Match feedback
		api.POST("/matches/:id/feedback", cfg.MatchFeedbackHandler.SubmitFeedback)
		api.GET("/matches/:id/feedback", cfg.MatchFeedbackHandler.ListFeedback)
	}

	return router
}
