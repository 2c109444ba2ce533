package domain

import "time"

// EventType is the kind of a lifecycle event
type EventType string

const (
	EventTypeBegin  EventType = "begin"
	EventTypeEnd    EventType = "end"
	EventTypeAbort  EventType = "abort"
	EventTypeError  EventType = "error"
	EventTypeDelete EventType = "delete"
	EventTypeMove   EventType = "move"
)

// LifecycleEvent is what collaborators observe of an upload, a deletion or a move
type LifecycleEvent struct {
	Type    EventType   `json:"type"`
	Profile string      `json:"profile"`
	File    *FileRecord `json:"file,omitempty"`
	// Name is the stored file name for delete and move events
	Name string `json:"name,omitempty"`
	// Target is the destination of a move, relative to the target root
	Target string    `json:"target,omitempty"`
	Error  string    `json:"error,omitempty"`
	At     time.Time `json:"at"`
}
