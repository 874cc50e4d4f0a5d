package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Session struct {
	ID                     uint      `gorm:"primaryKey"`
	UUID                   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	UserAgent              *string
	AcceptLang             *string
	Completed              bool `gorm:"not null;default:false"`
	SelfevalJSON           datatypes.JSON
	ExhibitionFeedbackJSON datatypes.JSON
	LastActivity           time.Time `gorm:"not null"`
	CreatedAt              time.Time `gorm:"autoCreateTime"`

	Answers []Answer `gorm:"foreignKey:SessionID"`
	Events  []Event  `gorm:"foreignKey:SessionID"`
}

func (Session) TableName() string { return "sessions" }

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.UUID == uuid.Nil {
		s.UUID = uuid.New()
	}
	if s.LastActivity.IsZero() {
		s.LastActivity = time.Now().UTC()
	}
	return nil
}

// HasSelfeval reports whether the intake form was actually submitted.
// An empty string or empty object blob counts the same as never submitted.
func (s *Session) HasSelfeval() bool {
	return JSONBlobPresent(s.SelfevalJSON)
}

func (s *Session) HasExhibitionFeedback() bool {
	return JSONBlobPresent(s.ExhibitionFeedbackJSON)
}

// JSONBlobPresent distinguishes "submitted something" from both "never
// submitted" and "submitted nothing".
func JSONBlobPresent(blob datatypes.JSON) bool {
	switch string(blob) {
	case "", "null", `""`, "{}":
		return false
	}
	return true
}
