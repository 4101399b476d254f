package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuestionType string

const (
	QuestionText           QuestionType = "text"
	QuestionSingleChoice   QuestionType = "single_choice"
	QuestionMultipleChoice QuestionType = "multiple_choice"
)

type AttributeType string

const (
	AttributeHardFilter     AttributeType = "hard_filter"
	AttributeSoftPreference AttributeType = "soft_preference"
)

type Questionnaire struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ActivityID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"activity_id"`
	Activity   *Activity  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ActivityID;references:ID" json:"activity,omitempty"`
	Questions  []Question `gorm:"foreignKey:QuestionnaireID;references:ID" json:"questions,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Questionnaire) TableName() string { return "questionnaire" }

type Question struct {
	ID              uuid.UUID                      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuestionnaireID uuid.UUID                      `gorm:"type:uuid;not null;index" json:"questionnaire_id"`
	Position        int                            `gorm:"not null;default:0;column:position" json:"position"`
	Text            string                         `gorm:"not null;column:text" json:"text"`
	Type            QuestionType                   `gorm:"not null;column:type" json:"type"`
	Required        bool                           `gorm:"not null;default:false;column:required" json:"required"`
	Options         datatypes.JSONSlice[string]    `gorm:"column:options" json:"options,omitempty"`
	Attributes      []QuestionAttribute            `gorm:"foreignKey:QuestionID;references:ID" json:"attributes,omitempty"`
	CreatedAt       time.Time                      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time                      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Question) TableName() string { return "question" }

// HardFilter returns the question's hard-filter attribute, if any. A question
// carries at most one attribute of each type.
func (q *Question) HardFilter() *QuestionAttribute {
	return q.attributeOfType(AttributeHardFilter)
}

func (q *Question) SoftPreference() *QuestionAttribute {
	return q.attributeOfType(AttributeSoftPreference)
}

func (q *Question) attributeOfType(t AttributeType) *QuestionAttribute {
	for i := range q.Attributes {
		if q.Attributes[i].Type == t {
			return &q.Attributes[i]
		}
	}
	return nil
}

type QuestionAttribute struct {
	ID         uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuestionID uuid.UUID     `gorm:"type:uuid;not null;index:idx_question_attribute_type,unique,priority:1" json:"question_id"`
	Type       AttributeType `gorm:"not null;column:type;index:idx_question_attribute_type,unique,priority:2" json:"type"`
	Weight     float64       `gorm:"not null;default:1;column:weight" json:"weight"`
	Required   bool          `gorm:"not null;default:false;column:required" json:"required"`
	CreatedAt  time.Time     `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"not null;default:now()" json:"updated_at"`
}

func (QuestionAttribute) TableName() string { return "question_attribute" }
