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

type ActivityRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) (*types.Activity, error)
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{db: db, log: baseLog.With("repo", "ActivityRepo")}
}

func (ar *activityRepo) GetByID(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) (*types.Activity, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var result types.Activity
	if err := transaction.WithContext(ctx).
		Where("id = ?", activityID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Errorf(apperr.KindNotFound, "activity %s not found", activityID)
		}
		return nil, apperr.E(apperr.KindDataAccess, fmt.Sprintf("load activity %s", activityID), err)
	}
	return &result, nil
}
