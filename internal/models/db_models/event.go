package db_models

import (
	"time"

	"gorm.io/datatypes"
)

type EventType string

const (
	EventViewStart  EventType = "view_start"
	EventViewEnd    EventType = "view_end"
	EventAudioPlay  EventType = "audio_play"
	EventAudioPause EventType = "audio_pause"
)

func ParseEventType(value string) (EventType, bool) {
	switch EventType(value) {
	case EventViewStart, EventViewEnd, EventAudioPlay, EventAudioPause:
		return EventType(value), true
	}
	return "", false
}

// Event rows are append-only telemetry; nothing in the application
// mutates or deletes them.
type Event struct {
	ID           uint      `gorm:"primaryKey"`
	SessionID    uint      `gorm:"index;not null"`
	ExhibitID    *uint     `gorm:"index"`
	EventType    EventType `gorm:"type:varchar(16);not null"`
	Timestamp    time.Time `gorm:"not null"`
	MetadataJSON datatypes.JSON
}

func (Event) TableName() string { return "events" }
