package db_models

import (
	"gorm.io/datatypes"
)

// QuestionType enumerates the supported answer shapes. Every switch over
// question types (validation, storage, aggregation) must handle all four.
type QuestionType string

const (
	QuestionSingle QuestionType = "single"
	QuestionMulti  QuestionType = "multi"
	QuestionLikert QuestionType = "likert"
	QuestionText   QuestionType = "text"
)

func ParseQuestionType(value string) (QuestionType, bool) {
	switch QuestionType(value) {
	case QuestionSingle, QuestionMulti, QuestionLikert, QuestionText:
		return QuestionType(value), true
	}
	return "", false
}

type Question struct {
	ID          uint           `gorm:"primaryKey"`
	ExhibitID   *uint          `gorm:"index"` // NULL = global question
	Text        string         `gorm:"type:text;not null"`
	Type        QuestionType   `gorm:"type:varchar(16);not null"`
	OptionsJSON datatypes.JSON // choice list, or {min,max} for likert
	Required    bool           `gorm:"not null;default:false"`
	SortOrder   int            `gorm:"not null;default:0"`

	Answers []Answer `gorm:"foreignKey:QuestionID"`
}

func (Question) TableName() string { return "questions" }

// LikertRange decodes the {min,max} options payload, defaulting to 1..5.
type LikertRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}
