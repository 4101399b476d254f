package types

import (
	"time"

	"github.com/google/uuid"
)

type MatchRoundStatus string

const (
	RoundPending   MatchRoundStatus = "pending"
	RoundRunning   MatchRoundStatus = "running"
	RoundCompleted MatchRoundStatus = "completed"
	RoundFailed    MatchRoundStatus = "failed"
)

// MatchRound is one execution of the matching pipeline for an activity.
// Status is mutated only by the round orchestrator; completed and failed are
// terminal.
type MatchRound struct {
	ID            uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ActivityID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"activity_id"`
	Activity      *Activity        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ActivityID;references:ID" json:"activity,omitempty"`
	Name          string           `gorm:"not null;column:name" json:"name"`
	ScheduledAt   *time.Time       `gorm:"column:scheduled_at" json:"scheduled_at,omitempty"`
	Status        MatchRoundStatus `gorm:"not null;default:pending;column:status;index" json:"status"`
	FailureReason string           `gorm:"column:failure_reason" json:"failure_reason,omitempty"`
	StartedAt     *time.Time       `gorm:"column:started_at" json:"started_at,omitempty"`
	FinishedAt    *time.Time       `gorm:"column:finished_at" json:"finished_at,omitempty"`
	CreatedAt     time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"not null;default:now()" json:"updated_at"`
}

func (MatchRound) TableName() string { return "match_round" }
