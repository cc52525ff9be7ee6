package messaging

import (
	"context"
	"time"
)

// EventType - тип события жизненного цикла презентации.
type EventType string

const (
	EventCreated    EventType = "presentation.created"
	EventConfigured EventType = "presentation.configured"
	EventDeleted    EventType = "presentation.deleted"
)

// PresentationEvent is published after a state change has been committed.
type PresentationEvent struct {
	Type           EventType `json:"type"`
	PresentationID string    `json:"presentation_id"`
	Topic          string    `json:"topic,omitempty"`
	Layout         string    `json:"layout,omitempty"`
	NumSlides      int       `json:"num_slides,omitempty"`
	// Reason is set for deletions: "request", "expired" or "capacity".
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher sends presentation events. Publishing is best effort:
// callers log failures and never roll back on them.
type EventPublisher interface {
	Publish(ctx context.Context, event PresentationEvent) error
	Close() error
}

// nopPublisher используется, когда RABBITMQ_URL не задан.
type nopPublisher struct{}

// NewNopPublisher returns a publisher that drops every event.
func NewNopPublisher() EventPublisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, PresentationEvent) error { return nil }
func (nopPublisher) Close() error                                     { return nil }
