package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ParticipantStatus string

const (
	ParticipantPending   ParticipantStatus = "pending"
	ParticipantCompleted ParticipantStatus = "completed"
)

// Participant is a (profile, activity) pairing. Rows are never deleted, only
// superseded by a newer row for the same profile.
type Participant struct {
	ID                uuid.UUID                   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProfileID         uuid.UUID                   `gorm:"type:uuid;not null;index" json:"profile_id"`
	ActivityID        uuid.UUID                   `gorm:"type:uuid;not null;index" json:"activity_id"`
	DisplayName       string                      `gorm:"not null;column:display_name" json:"display_name"`
	Interests         datatypes.JSONSlice[string] `gorm:"column:interests" json:"interests,omitempty"`
	Preferences       datatypes.JSONSlice[string] `gorm:"column:preferences" json:"preferences,omitempty"`
	PersonalityTraits datatypes.JSONSlice[string] `gorm:"column:personality_traits" json:"personality_traits,omitempty"`
	Status            ParticipantStatus           `gorm:"not null;default:pending;column:status;index" json:"status"`
	Answers           []Answer                    `gorm:"foreignKey:ParticipantID;references:ID" json:"answers,omitempty"`
	CreatedAt         time.Time                   `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time                   `gorm:"not null;default:now()" json:"updated_at"`
}

func (Participant) TableName() string { return "participant" }

// AnswerFor returns the participant's answer to a question, or nil.
func (p *Participant) AnswerFor(questionID uuid.UUID) *Answer {
	for i := range p.Answers {
		if p.Answers[i].QuestionID == questionID {
			return &p.Answers[i]
		}
	}
	return nil
}

// Answer holds a string value for text/single-choice questions or a string
// array for multiple-choice ones.
type Answer struct {
	ID            uuid.UUID                   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ParticipantID uuid.UUID                   `gorm:"type:uuid;not null;index:idx_answer_participant_question,unique,priority:1" json:"participant_id"`
	QuestionID    uuid.UUID                   `gorm:"type:uuid;not null;index:idx_answer_participant_question,unique,priority:2" json:"question_id"`
	Value         string                      `gorm:"column:value" json:"value,omitempty"`
	Values        datatypes.JSONSlice[string] `gorm:"column:values" json:"values,omitempty"`
	CreatedAt     time.Time                   `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time                   `gorm:"not null;default:now()" json:"updated_at"`
}

func (Answer) TableName() string { return "answer" }

func (a *Answer) IsEmpty() bool {
	if a == nil {
		return true
	}
	if strings.TrimSpace(a.Value) != "" {
		return false
	}
	for _, v := range a.Values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Terms returns the answer as a flat list of comparable terms.
func (a *Answer) Terms() []string {
	if a == nil {
		return nil
	}
	var out []string
	if v := strings.TrimSpace(a.Value); v != "" {
		out = append(out, v)
	}
	for _, v := range a.Values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
