package repos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/matchpoint-backend/internal/logger"
	"github.com/yungbote/matchpoint-backend/internal/pkg/apperr"
	"github.com/yungbote/matchpoint-backend/internal/types"
)

type MatchFeedbackRepo interface {
	Create(ctx context.Context, tx *gorm.DB, feedback *types.MatchFeedback) error
	GetByMatchID(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) ([]*types.MatchFeedback, error)
}

type matchFeedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMatchFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) MatchFeedbackRepo {
	return &matchFeedbackRepo{db: db, log: baseLog.With("repo", "MatchFeedbackRepo")}
}

func (fr *matchFeedbackRepo) Create(ctx context.Context, tx *gorm.DB, feedback *types.MatchFeedback) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	if err := transaction.WithContext(ctx).Create(feedback).Error; err != nil {
		return apperr.E(apperr.KindDataAccess, fmt.Sprintf("insert feedback for match %s", feedback.MatchID), err)
	}
	return nil
}

func (fr *matchFeedbackRepo) GetByMatchID(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) ([]*types.MatchFeedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	var results []*types.MatchFeedback
	if err := transaction.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, apperr.E(apperr.KindDataAccess, fmt.Sprintf("load feedback for match %s", matchID), err)
	}
	return results, nil
}
