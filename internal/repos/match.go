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

type MatchRepo interface {
	// CreateBatch inserts every match in one statement. Callers run it inside
	// a transaction together with the round's completed transition so a failed
	// run leaves zero rows.
	CreateBatch(ctx context.Context, tx *gorm.DB, matches []*types.Match) error
	GetByID(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) (*types.Match, error)
	GetByRoundID(ctx context.Context, tx *gorm.DB, roundID uuid.UUID) ([]*types.Match, error)
	CountByRoundID(ctx context.Context, tx *gorm.DB, roundID uuid.UUID) (int64, error)
}

type matchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMatchRepo(db *gorm.DB, baseLog *logger.Logger) MatchRepo {
	return &matchRepo{db: db, log: baseLog.With("repo", "MatchRepo")}
}

func (mr *matchRepo) CreateBatch(ctx context.Context, tx *gorm.DB, matches []*types.Match) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if len(matches) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).Create(&matches).Error; err != nil {
		return apperr.E(apperr.KindDataAccess, fmt.Sprintf("insert %d matches for round %s", len(matches), matches[0].RoundID), err)
	}
	return nil
}

func (mr *matchRepo) GetByID(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) (*types.Match, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var result types.Match
	if err := transaction.WithContext(ctx).
		Where("id = ?", matchID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Errorf(apperr.KindNotFound, "match %s not found", matchID)
		}
		return nil, apperr.E(apperr.KindDataAccess, fmt.Sprintf("load match %s", matchID), err)
	}
	return &result, nil
}

func (mr *matchRepo) GetByRoundID(ctx context.Context, tx *gorm.DB, roundID uuid.UUID) ([]*types.Match, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.Match
	if err := transaction.WithContext(ctx).
		Where("round_id = ?", roundID).
		Order("match_score DESC").
		Find(&results).Error; err != nil {
		return nil, apperr.E(apperr.KindDataAccess, fmt.Sprintf("load matches for round %s", roundID), err)
	}
	return results, nil
}

func (mr *matchRepo) CountByRoundID(ctx context.Context, tx *gorm.DB, roundID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Match{}).
		Where("round_id = ?", roundID).
		Count(&count).Error; err != nil {
		return 0, apperr.E(apperr.KindDataAccess, fmt.Sprintf("count matches for round %s", roundID), err)
	}
	return count, nil
}
