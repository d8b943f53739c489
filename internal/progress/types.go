package progress

import (
	"time"
)

// EventType represents the type of progress event
type EventType int

const (
	EventLoadStart EventType = iota
	EventCategoryLoaded
	EventLoadComplete
	EventIndexBuilt
	EventFileWriting
	EventFileWritten
	EventInfo
)

// Event represents something that happened while loading or exporting
type Event struct {
	Type       EventType
	Source     string
	Name       string
	Info       string
	Categories int
	Techs      int
	Entries    int
	Duration   time.Duration
}

// Reporter is the interface loaders use to report events
type Reporter interface {
	Report(event Event)
}

// Handler processes events and produces output
type Handler interface {
	Handle(event Event)
}

// NullHandler discards all events
type NullHandler struct{}

func NewNullHandler() *NullHandler {
	return &NullHandler{}
}

func (h *NullHandler) Handle(event Event) {}
