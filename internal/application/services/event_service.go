package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/commonsforge/pagecraft-go/internal/domain/entities/content"
	"github.com/commonsforge/pagecraft-go/internal/domain/repositories"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/observability/logging"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/security"
)

// EventService manages the calendar entries shown on the events dashboard.
type EventService struct {
	events repositories.EventRepository
	logger *logging.ChanneledLogger
}

// NewEventService creates the event service.
func NewEventService(events repositories.EventRepository, logger *logging.ChanneledLogger) *EventService {
	return &EventService{events: events, logger: logger}
}

// List returns every event sorted by start time.
func (s *EventService) List(ctx context.Context) ([]*content.EventItem, error) {
	return s.events.FindAll(ctx)
}

// Upcoming returns events that have not yet started.
func (s *EventService) Upcoming(ctx context.Context) ([]*content.EventItem, error) {
	all, err := s.events.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	upcoming := make([]*content.EventItem, 0, len(all))
	for _, event := range all {
		if event.StartsAt.After(now) {
			upcoming = append(upcoming, event)
		}
	}
	return upcoming, nil
}

// Get returns one event; (nil, nil) when it does not exist.
func (s *EventService) Get(ctx context.Context, id string) (*content.EventItem, error) {
	return s.events.FindByID(ctx, id)
}

// Create stores a new calendar entry.
func (s *EventService) Create(ctx context.Context, title, description string, location *string, startsAt time.Time, endsAt *time.Time) (*content.EventItem, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("event title is required")
	}
	if startsAt.IsZero() {
		return nil, fmt.Errorf("event start time is required")
	}
	event := &content.EventItem{
		ID:          security.GenerateULID(),
		Title:       title,
		Description: description,
		Location:    location,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		Created:     time.Now().UTC(),
	}
	if err := s.events.Store(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	s.logger.Content().Info("Event created", "eventId", event.ID)
	return event, nil
}

// Update replaces an event's editable fields.
func (s *EventService) Update(ctx context.Context, id, title, description string, location *string, startsAt time.Time, endsAt *time.Time) (*content.EventItem, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event %s not found", id)
	}
	now := time.Now().UTC()
	if title != "" {
		event.Title = title
	}
	if description != "" {
		event.Description = description
	}
	if location != nil {
		event.Location = location
	}
	if !startsAt.IsZero() {
		event.StartsAt = startsAt
	}
	if endsAt != nil {
		event.EndsAt = endsAt
	}
	event.Changed = &now
	if err := s.events.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

// Delete removes an event permanently.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.events.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	s.logger.Content().Info("Event deleted", "eventId", id)
	return nil
}
