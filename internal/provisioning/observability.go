package provisioning

import (
	"fmt"
	"log"
	"time"
)

// Observer receives structured events during a run. The console
// implementation logs; the TUI implementation feeds a progress display.
type Observer interface {
	// Printf emits a free-form log line.
	Printf(format string, v ...any)

	// Event emits a structured step event.
	Event(event Event)
}

// Event is one structured provisioning event.
type Event struct {
	Type      EventType
	Step      string
	Message   string
	Timestamp time.Time
}

// EventType classifies step events.
type EventType string

// Step event types.
const (
	EventStepStarted   EventType = "step.started"
	EventStepSkipped   EventType = "step.skipped"
	EventStepCompleted EventType = "step.completed"
	EventStepWarned    EventType = "step.warned"
	EventStepFailed    EventType = "step.failed"
)

// ConsoleObserver logs events through the standard log package.
type ConsoleObserver struct{}

// NewConsoleObserver returns a console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{}
}

// Printf implements Observer.
func (o *ConsoleObserver) Printf(format string, v ...any) {
	log.Printf(format, v...)
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	if event.Step != "" {
		log.Printf("%s [%s] %s", event.Type, event.Step, event.Message)
		return
	}
	log.Printf("%s %s", event.Type, event.Message)
}

// RecordingObserver captures events for assertions in tests.
type RecordingObserver struct {
	Events []Event
	Lines  []string
}

// Printf implements Observer.
func (o *RecordingObserver) Printf(format string, v ...any) {
	o.Lines = append(o.Lines, fmt.Sprintf(format, v...))
}

// Event implements Observer.
func (o *RecordingObserver) Event(event Event) {
	o.Events = append(o.Events, event)
}

// EventsOfType filters captured events.
func (o *RecordingObserver) EventsOfType(t EventType) []Event {
	var out []Event
	for _, e := range o.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
