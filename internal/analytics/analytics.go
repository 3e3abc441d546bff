// Package analytics forwards product events to an external sink.
// Delivery is best effort: callers log failures and move on.
package analytics

import (
	"context"
	"time"

	awsclient "apartmentiq-workers/internal/common/aws"

	"github.com/google/uuid"
)

const EventPaywallImpression = "paywall_impression"

type Event struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	SessionID  string                 `json:"sessionId,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(name, sessionID string, props map[string]interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Name:       name,
		SessionID:  sessionID,
		Properties: props,
		Timestamp:  time.Now().UTC(),
	}
}

type Sink interface {
	Track(ctx context.Context, event Event) error
}

// NoopSink drops every event.
type NoopSink struct{}

func (NoopSink) Track(context.Context, Event) error { return nil }

// SNSSink publishes events as JSON to an SNS topic.
type SNSSink struct {
	client   awsclient.SNSAPI
	topicARN string
}

func NewSNSSink(client awsclient.SNSAPI, topicARN string) *SNSSink {
	return &SNSSink{client: client, topicARN: topicARN}
}

func (s *SNSSink) Track(ctx context.Context, event Event) error {
	_, err := awsclient.PublishJSON(ctx, s.client, s.topicARN, event.Name, event)
	return err
}
