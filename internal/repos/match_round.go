package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/matchpoint-backend/internal/logger"
	"github.com/yungbote/matchpoint-backend/internal/pkg/apperr"
	"github.com/yungbote/matchpoint-backend/internal/types"
)

type MatchRoundRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, roundID uuid.UUID) (*types.MatchRound, error)
	// TransitionStatus moves a round from one status to another using a
	// conditional update. When the round is no longer in the expected status
	// the update touches zero rows and an invalid_state error is returned, so
	// two concurrent runners cannot both claim the same round.
	TransitionStatus(ctx context.Context, tx *gorm.DB, roundID uuid.UUID, from, to types.MatchRoundStatus) error
	MarkFailed(ctx context.Context, tx *gorm.DB, roundID uuid.UUID, reason string) error
}

type matchRoundRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMatchRoundRepo(db *gorm.DB, baseLog *logger.Logger) MatchRoundRepo {
	return &matchRoundRepo{db: db, log: baseLog.With("repo", "MatchRoundRepo")}
}

func (mr *matchRoundRepo) GetByID(ctx context.Context, tx *gorm.DB, roundID uuid.UUID) (*types.MatchRound, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var result types.MatchRound
	if err := transaction.WithContext(ctx).
		Where("id = ?", roundID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Errorf(apperr.KindNotFound, "match round %s not found", roundID)
		}
		return nil, apperr.E(apperr.KindDataAccess, fmt.Sprintf("load match round %s", roundID), err)
	}
	return &result, nil
}

func (mr *matchRoundRepo) TransitionStatus(ctx context.Context, tx *gorm.DB, roundID uuid.UUID, from, to types.MatchRoundStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": now,
	}
	switch to {
	case types.RoundRunning:
		updates["started_at"] = now
	case types.RoundCompleted, types.RoundFailed:
		updates["finished_at"] = now
	}

	res := transaction.WithContext(ctx).
		Model(&types.MatchRound{}).
		Where("id = ? AND status = ?", roundID, from).
		Updates(updates)
	if res.Error != nil {
		return apperr.E(apperr.KindDataAccess, fmt.Sprintf("transition round %s %s->%s", roundID, from, to), res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.Errorf(apperr.KindInvalidState, "round %s is not in status %q", roundID, from)
	}
	return nil
}

func (mr *matchRoundRepo) MarkFailed(ctx context.Context, tx *gorm.DB, roundID uuid.UUID, reason string) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	now := time.Now().UTC()
	res := transaction.WithContext(ctx).
		Model(&types.MatchRound{}).
		Where("id = ? AND status = ?", roundID, types.RoundRunning).
		Updates(map[string]interface{}{
			"status":         types.RoundFailed,
			"failure_reason": reason,
			"finished_at":    now,
			"updated_at":     now,
		})
	if res.Error != nil {
		return apperr.E(apperr.KindDataAccess, fmt.Sprintf("mark round %s failed", roundID), res.Error)
	}
	return nil
}
