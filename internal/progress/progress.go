package progress

import (
	"os"
	"time"
)

// Progress is the centralized verbose system
type Progress struct {
	enabled bool
	handler Handler
}

// New creates a new progress reporter
func New(enabled bool, handler Handler) *Progress {
	if handler == nil {
		handler = NewSimpleHandler(os.Stderr)
	}
	return &Progress{
		enabled: enabled,
		handler: handler,
	}
}

// Disabled returns a reporter that drops every event
func Disabled() *Progress {
	return New(false, NewNullHandler())
}

// Report sends an event to the handler (only if enabled)
func (p *Progress) Report(event Event) {
	if p == nil || !p.enabled {
		return
	}
	p.handler.Handle(event)
}

func (p *Progress) LoadStart(source string) {
	p.Report(Event{Type: EventLoadStart, Source: source})
}

func (p *Progress) CategoryLoaded(name string, techs int) {
	p.Report(Event{Type: EventCategoryLoaded, Name: name, Techs: techs})
}

func (p *Progress) LoadComplete(source string, categories, techs int, duration time.Duration) {
	p.Report(Event{
		Type:       EventLoadComplete,
		Source:     source,
		Categories: categories,
		Techs:      techs,
		Duration:   duration,
	})
}

func (p *Progress) IndexBuilt(entries int, duration time.Duration) {
	p.Report(Event{Type: EventIndexBuilt, Entries: entries, Duration: duration})
}

func (p *Progress) FileWriting(path string) {
	p.Report(Event{Type: EventFileWriting, Source: path})
}

func (p *Progress) FileWritten(path string) {
	p.Report(Event{Type: EventFileWritten, Source: path})
}

func (p *Progress) Info(message string) {
	p.Report(Event{Type: EventInfo, Info: message})
}
