package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTaskCreated EventType = "task_created"
	EventTaskUpdated EventType = "task_updated"
	EventTaskDeleted EventType = "task_deleted"
)

// Event represents a task lifecycle change emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TaskID    string      `json:"task_id"`
	OwnerID   string      `json:"owner_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TaskCreatedPayload payload.
type TaskCreatedPayload struct {
	Title string `json:"title"`
}

// TaskUpdatedPayload lists the fields the update touched.
type TaskUpdatedPayload struct {
	TitleChanged     bool  `json:"title_changed"`
	CompletedChanged bool  `json:"completed_changed"`
	Completed        *bool `json:"completed,omitempty"`
}
