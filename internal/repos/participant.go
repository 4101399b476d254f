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

type ParticipantRepo interface {
	// GetCompletedByActivityID loads participants who finished the
	// questionnaire, with their answers, in join order.
	GetCompletedByActivityID(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) ([]*types.Participant, error)
}

type participantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewParticipantRepo(db *gorm.DB, baseLog *logger.Logger) ParticipantRepo {
	return &participantRepo{db: db, log: baseLog.With("repo", "ParticipantRepo")}
}

func (pr *participantRepo) GetCompletedByActivityID(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) ([]*types.Participant, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Participant
	if err := transaction.WithContext(ctx).
		Where("activity_id = ? AND status = ?", activityID, types.ParticipantCompleted).
		Preload("Answers").
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, apperr.E(apperr.KindDataAccess, fmt.Sprintf("load completed participants for activity %s", activityID), err)
	}
	return results, nil
}
