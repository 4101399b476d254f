package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/matchpoint-backend/internal/logger"
	"github.com/yungbote/matchpoint-backend/internal/pkg/apperr"
	"github.com/yungbote/matchpoint-backend/internal/types"
)

type QuestionnaireRepo interface {
	// GetByActivityID loads the activity's questionnaire with its questions in
	// position order and each question's matching attributes.
	GetByActivityID(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) (*types.Questionnaire, error)
}

type questionnaireRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionnaireRepo(db *gorm.DB, baseLog *logger.Logger) QuestionnaireRepo {
	return &questionnaireRepo{db: db, log: baseLog.With("repo", "QuestionnaireRepo")}
}

func (qr *questionnaireRepo) GetByActivityID(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) (*types.Questionnaire, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	var result types.Questionnaire
	if err := transaction.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Questions.Attributes").
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Errorf(apperr.KindNotFound, "no questionnaire for activity %s", activityID)
		}
		return nil, apperr.E(apperr.KindDataAccess, fmt.Sprintf("load questionnaire for activity %s", activityID), err)
	}
	return &result, nil
}
