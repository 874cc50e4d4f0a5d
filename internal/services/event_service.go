package services

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"gallerytour/internal/models/db_models"
	"gallerytour/internal/repositories"
)

// EventServiceInterface appends interaction telemetry; events are
// never read back on the visitor path.
type EventServiceInterface interface {
	Record(ctx context.Context, sessionID uint, exhibitSlug string, eventType db_models.EventType, metadata datatypes.JSON) error
}

type EventService struct {
	eventRepo   repositories.EventRepositoryInterface
	exhibitRepo repositories.ExhibitRepositoryInterface
}

func NewEventService(eventRepo repositories.EventRepositoryInterface, exhibitRepo repositories.ExhibitRepositoryInterface) EventServiceInterface {
	return &EventService{eventRepo: eventRepo, exhibitRepo: exhibitRepo}
}

func (s *EventService) Record(ctx context.Context, sessionID uint, exhibitSlug string, eventType db_models.EventType, metadata datatypes.JSON) error {
	event := &db_models.Event{
		SessionID:    sessionID,
		EventType:    eventType,
		Timestamp:    time.Now().UTC(),
		MetadataJSON: metadata,
	}

	if exhibitSlug != "" {
		exhibit, err := s.exhibitRepo.GetBySlug(ctx, exhibitSlug)
		if err != nil {
			return err
		}
		event.ExhibitID = &exhibit.ID
	}

	return s.eventRepo.Append(ctx, event)
}
