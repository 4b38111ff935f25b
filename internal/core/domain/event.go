package domain

import "time"

// EventType tags a live broadcast event.
type EventType string

const (
	EventTransactionCreated   EventType = "transaction:created"
	EventTransactionUpdated   EventType = "transaction:updated"
	EventTransactionCompleted EventType = "transaction:completed"
	EventTransactionFailed    EventType = "transaction:failed"
	EventCallbackReceived     EventType = "callback:received"
	EventLogCreated           EventType = "log:created"
	EventRetryQueued          EventType = "retry:queued"
	EventRetryCompleted       EventType = "retry:completed"
	EventRetryFailed          EventType = "retry:failed"
)

// Event is one message pushed to live subscribers: the relevant entity
// snapshot plus a type tag and timestamp.
type Event struct {
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp string      `json:"timestamp"`
}

// NewEvent stamps an event with the current UTC time.
func NewEvent(t EventType, payload interface{}) Event {
	return Event{
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
