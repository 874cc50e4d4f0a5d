package db_models

import (
	"time"

	"gorm.io/datatypes"
)

// Answer holds one respondent's value for one question. The composite
// unique index makes concurrent duplicate POSTs collapse into a single
// row; writes go through an upsert, so the last writer wins.
type Answer struct {
	ID         uint           `gorm:"primaryKey"`
	SessionID  uint           `gorm:"not null;uniqueIndex:idx_answers_session_question"`
	QuestionID uint           `gorm:"not null;uniqueIndex:idx_answers_session_question"`
	ValueText  *string        // text, single choice, likert
	ValueJSON  datatypes.JSON // multi-choice arrays
	CreatedAt  time.Time      `gorm:"autoCreateTime"`

	Session  Session  `gorm:"foreignKey:SessionID"`
	Question Question `gorm:"foreignKey:QuestionID"`
}

func (Answer) TableName() string { return "answers" }
