package kafka

import "context"

// EventType identifies a published event.
type EventType string

const (
	EventUserRegistered    EventType = "com.megamarket.user.registered.v1"
	EventUserActivated     EventType = "com.megamarket.user.activated.v1"
	EventUserPasswordReset EventType = "com.megamarket.user.password_reset.v1"
	EventImageCreated      EventType = "com.megamarket.image.created.v1"
	EventImageDeleted      EventType = "com.megamarket.image.deleted.v1"
)

// NopPublisher drops every event. Used when Kafka is disabled by config.
type NopPublisher struct{}

func (NopPublisher) Publish(_ context.Context, _ EventType, _ string, _ interface{}) error {
	return nil
}

func (NopPublisher) Close() error { return nil }

var _ Publisher = NopPublisher{}
