package progress

import (
	"fmt"
	"io"
)

// SimpleHandler outputs events as simple lines
type SimpleHandler struct {
	writer io.Writer
}

func NewSimpleHandler(writer io.Writer) *SimpleHandler {
	return &SimpleHandler{writer: writer}
}

func (h *SimpleHandler) Handle(event Event) {
	switch event.Type {
	case EventLoadStart:
		fmt.Fprintf(h.writer, "[LOAD] Reading dataset: %s\n", event.Source)

	case EventCategoryLoaded:
		fmt.Fprintf(h.writer, "[CAT]  %s (%d technologies)\n", event.Name, event.Techs)

	case EventLoadComplete:
		fmt.Fprintf(h.writer, "[LOAD] Completed: %d categories, %d technologies in %.1fms\n",
			event.Categories, event.Techs, float64(event.Duration.Microseconds())/1000)

	case EventIndexBuilt:
		fmt.Fprintf(h.writer, "[INDEX] Built: %d entries in %.1fms\n",
			event.Entries, float64(event.Duration.Microseconds())/1000)

	case EventFileWriting:
		fmt.Fprintf(h.writer, "[OUT]  Writing export to: %s\n", event.Source)

	case EventFileWritten:
		fmt.Fprintf(h.writer, "[OUT]  Export written: %s\n", event.Source)

	case EventInfo:
		fmt.Fprintf(h.writer, "[INFO] %s\n", event.Info)
	}
}
