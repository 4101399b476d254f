package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Activity struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CreatorID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"creator_id"`
	Name        string         `gorm:"not null;column:name" json:"name"`
	Type        string         `gorm:"not null;column:type" json:"type"`
	ScheduledAt *time.Time     `gorm:"column:scheduled_at" json:"scheduled_at,omitempty"`
	Capacity    int            `gorm:"not null;default:0;column:capacity" json:"capacity"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Activity) TableName() string { return "activity" }
