package provisioning

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Observer receives structured events from the deployment workflow.
type Observer interface {
	// Printf logs a free-form message.
	Printf(format string, v ...interface{})

	// Event emits a structured event.
	Event(event Event)
}

// Event represents a structured workflow event.
type Event struct {
	Type      EventType
	Phase     string
	Message   string
	Resource  string
	Timestamp time.Time
	Fields    map[string]string
}

// EventType represents the type of workflow event.
type EventType string

const (
	// EventPhaseStarted indicates a workflow phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a workflow phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a workflow phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventResourceCreating indicates a hosting resource is being provisioned.
	EventResourceCreating EventType = "resource.creating"
	// EventResourceReady indicates a hosting resource is ready to serve.
	EventResourceReady EventType = "resource.ready"
	// EventResourceExists indicates a hosting resource already exists.
	EventResourceExists EventType = "resource.exists"

	// EventArtifactBatch announces the size of an upload batch.
	EventArtifactBatch EventType = "artifact.batch"
	// EventArtifactDeployed indicates one artifact finished uploading.
	EventArtifactDeployed EventType = "artifact.deployed"
)

// ConsoleObserver implements Observer using the standard log package.
type ConsoleObserver struct{}

// NewConsoleObserver creates a new console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{}
}

// Printf implements Observer.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	log.Print(formatEvent(event))
}

func formatEvent(event Event) string {
	var parts []string

	parts = append(parts, string(event.Type))
	if event.Phase != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Phase))
	}
	if event.Resource != "" {
		parts = append(parts, fmt.Sprintf("resource=%s", event.Resource))
	}
	parts = append(parts, event.Message)

	if len(event.Fields) > 0 {
		var fieldParts []string
		for k, v := range event.Fields {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%s", k, v))
		}
		parts = append(parts, fmt.Sprintf("(%s)", strings.Join(fieldParts, ", ")))
	}

	return strings.Join(parts, " ")
}

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: fmt.Sprintf("failed: %v", err),
	})
}
