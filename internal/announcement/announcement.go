package announcement

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/core/events"
	"github.com/frahmantamala/project-management/internal/tenant"
)

const DefaultColor = "primary"

type Announcement struct {
	Message string `json:"message"`
	Color   string `json:"color"`
}

// Service keeps the active tenant's single announcement banner.
type Service struct {
	registry  *tenant.Registry
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(registry *tenant.Registry, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		registry:  registry,
		publisher: publisher,
		logger:    logger,
	}
}

// Get returns nil when no announcement is set.
func (s *Service) Get() *Announcement {
	var message string
	if !s.registry.GetData(tenant.KeyAnnouncement, &message) || message == "" {
		return nil
	}
	color := DefaultColor
	var stored string
	if s.registry.GetData(tenant.KeyAnnouncementColor, &stored) && stored != "" {
		color = stored
	}
	return &Announcement{Message: message, Color: color}
}

func (s *Service) Set(message, color string) (*Announcement, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, internal.NewValidationFieldError("message", "message is required", internal.ErrCodeValidationFailed)
	}
	if color == "" {
		color = DefaultColor
	}

	action := events.AnnouncementCreated
	if s.Get() != nil {
		action = events.AnnouncementUpdated
	}
	if err := s.registry.SetData(tenant.KeyAnnouncement, message); err != nil {
		return nil, fmt.Errorf("failed to save announcement: %w", err)
	}
	if err := s.registry.SetData(tenant.KeyAnnouncementColor, color); err != nil {
		return nil, fmt.Errorf("failed to save announcement color: %w", err)
	}

	s.publish(events.NewAnnouncementChangedEvent(action, message))
	return &Announcement{Message: message, Color: color}, nil
}

// Clear removes the announcement. Clearing when nothing is set is a no-op.
func (s *Service) Clear() error {
	current := s.Get()
	if current == nil {
		return nil
	}
	if err := s.registry.RemoveData(tenant.KeyAnnouncement); err != nil {
		return fmt.Errorf("failed to remove announcement: %w", err)
	}
	if err := s.registry.RemoveData(tenant.KeyAnnouncementColor); err != nil {
		return fmt.Errorf("failed to remove announcement color: %w", err)
	}

	s.publish(events.NewAnnouncementChangedEvent(events.AnnouncementRemoved, current.Message))
	return nil
}

func (s *Service) publish(evt events.Event) {
	if err := s.publisher.Publish(context.Background(), evt); err != nil {
		s.logger.Warn("failed to publish announcement event", "event_type", evt.EventType(), "error", err)
	}
}
