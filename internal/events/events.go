package events

//go:generate mockgen -destination=mock/publisher.go -package=mock_events . Publisher

import (
	"context"
	"encoding/json"
	"fmt"
)

// Event types published for a session.
const (
	TypeSessionUpdated = "session_updated"
	TypeSessionReset   = "session_reset"
	TypeModeChanged    = "mode_changed"
	TypeGameOver       = "game_over"
	TypeSessionClosed  = "session_closed"
)

// SessionChannel returns the Pub/Sub channel for a session.
func SessionChannel(sessionID string) string {
	return fmt.Sprintf("channel:session:%s", sessionID)
}

// Event represents a session change delivered to watchers.
type Event struct {
	Type      string          `json:"event"`
	SessionID string          `json:"session_id"`
	Payload   json.RawMessage `json:"payload"`
}

// New builds an event with payload encoded as JSON.
func New(eventType, sessionID string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Event{Type: eventType, SessionID: sessionID, Payload: data}, nil
}

// Publisher delivers session events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Subscriber streams the events of one session.
type Subscriber interface {
	Subscribe(ctx context.Context, sessionID string) (*Subscription, error)
}

// Bus is both ends of the event stream.
type Bus interface {
	Publisher
	Subscriber
}

// Subscription is a live event stream. C is closed after Close or when the
// subscribing context is done.
type Subscription struct {
	C     <-chan Event
	close func() error
}

// Close stops the subscription.
func (s *Subscription) Close() error {
	return s.close()
}
