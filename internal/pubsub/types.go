package pubsub

import (
	"sync"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub. It doubles
// as the topic name.
type EventType string

const (
	EventSessionClosed EventType = "session-closed"
)

// SessionClosedEvent is published when a session is closed for settlement.
type SessionClosedEvent struct {
	SessionID string `msgpack:"session_id"`
	ClosedAt  int64  `msgpack:"closed_at"`
	DryRun    bool   `msgpack:"dry_run"`
}

// Handler consumes a raw message payload.
type Handler func(data []byte) error

// LocalClient delivers messages to in-process handlers instead of Google Cloud.
type LocalClient struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// PushRequest is the JSON envelope of a Pub/Sub push delivery.
type PushRequest struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data      string `json:"data"`
		MessageID string `json:"messageId"`
	} `json:"message"`
}
