package types

import (
	"time"

	"github.com/google/uuid"
)

// Match is an ordered pairing produced by one round run. Rows are created once
// per run and never updated in place.
type Match struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RoundID     uuid.UUID `gorm:"type:uuid;not null;index" json:"round_id"`
	ProfileID1  uuid.UUID `gorm:"type:uuid;not null;column:profile_id_1" json:"profile_id_1"`
	ProfileID2  uuid.UUID `gorm:"type:uuid;not null;column:profile_id_2" json:"profile_id_2"`
	MatchScore  float64   `gorm:"not null;column:match_score" json:"match_score"`
	MatchReason string    `gorm:"column:match_reason" json:"match_reason"`
	Icebreaker  string    `gorm:"column:icebreaker" json:"icebreaker"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Match) TableName() string { return "match" }

// MatchFeedback is a participant's reaction to a match. Independent lifecycle
// from the round.
type MatchFeedback struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	MatchID   uuid.UUID `gorm:"type:uuid;not null;index" json:"match_id"`
	ProfileID uuid.UUID `gorm:"type:uuid;not null;index" json:"profile_id"`
	Positive  bool      `gorm:"not null;column:positive" json:"positive"`
	Reason    string    `gorm:"column:reason" json:"reason,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (MatchFeedback) TableName() string { return "match_feedback" }
