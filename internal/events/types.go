package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Type names an analysis event on the wire and in the event store.
type Type string

const (
	TypeStarted           Type = "started"
	TypeProgress          Type = "progress"
	TypeFallbackActivated Type = "fallback_activated"
	TypeCompleted         Type = "completed"
	TypeFailed            Type = "failed"
)

// Event is emitted while an analysis runs. Every event belongs to exactly one
// analysis.
type Event interface {
	EventType() Type
	AnalysisID() string
	OccurredAt() time.Time
}

// Started is emitted once an upload has been accepted.
type Started struct {
	ID       string    `json:"analysis_id"`
	Filename string    `json:"filename"`
	Industry string    `json:"industry,omitempty"`
	Size     int64     `json:"size"`
	At       time.Time `json:"timestamp"`
}

// Progress reports one pipeline stage.
type Progress struct {
	ID      string    `json:"analysis_id"`
	Percent int       `json:"percent"`
	Agent   string    `json:"agent"`
	Message string    `json:"message"`
	At      time.Time `json:"timestamp"`
}

// LogLine renders the stage the way the activity log shows it.
func (p Progress) LogLine() string {
	return fmt.Sprintf("[%s] %s", p.Agent, p.Message)
}

// FallbackActivated is emitted when the analyzer could not be reached and
// the simulated pipeline takes over.
type FallbackActivated struct {
	ID     string    `json:"analysis_id"`
	Reason string    `json:"reason"`
	At     time.Time `json:"timestamp"`
}

// Completed is emitted once the report has been produced and stored.
type Completed struct {
	ID          string    `json:"analysis_id"`
	Source      string    `json:"source"`
	Fingerprint string    `json:"fingerprint"`
	Blocks      int       `json:"blocks"`
	At          time.Time `json:"timestamp"`
}

// Failed is emitted when no report could be produced.
type Failed struct {
	ID    string    `json:"analysis_id"`
	Error string    `json:"error"`
	At    time.Time `json:"timestamp"`
}

func (Started) EventType() Type           { return TypeStarted }
func (Progress) EventType() Type          { return TypeProgress }
func (FallbackActivated) EventType() Type { return TypeFallbackActivated }
func (Completed) EventType() Type         { return TypeCompleted }
func (Failed) EventType() Type            { return TypeFailed }

func (e Started) AnalysisID() string           { return e.ID }
func (e Progress) AnalysisID() string          { return e.ID }
func (e FallbackActivated) AnalysisID() string { return e.ID }
func (e Completed) AnalysisID() string         { return e.ID }
func (e Failed) AnalysisID() string            { return e.ID }

func (e Started) OccurredAt() time.Time           { return e.At }
func (e Progress) OccurredAt() time.Time          { return e.At }
func (e FallbackActivated) OccurredAt() time.Time { return e.At }
func (e Completed) OccurredAt() time.Time         { return e.At }
func (e Failed) OccurredAt() time.Time            { return e.At }

// Envelope is the serialized form of an Event.
type Envelope struct {
	Type       Type            `json:"type"`
	AnalysisID string          `json:"analysis_id"`
	Timestamp  time.Time       `json:"timestamp"`
	Payload    json.RawMessage `json:"payload"`
}

// Wrap serializes evt into an Envelope.
func Wrap(evt Event) (Envelope, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		Type:       evt.EventType(),
		AnalysisID: evt.AnalysisID(),
		Timestamp:  evt.OccurredAt().UTC(),
		Payload:    payload,
	}, nil
}

// Decode restores the typed event carried by the envelope.
func (e Envelope) Decode() (Event, error) {
	var (
		evt Event
		err error
	)
	switch e.Type {
	case TypeStarted:
		var v Started
		err = json.Unmarshal(e.Payload, &v)
		evt = v
	case TypeProgress:
		var v Progress
		err = json.Unmarshal(e.Payload, &v)
		evt = v
	case TypeFallbackActivated:
		var v FallbackActivated
		err = json.Unmarshal(e.Payload, &v)
		evt = v
	case TypeCompleted:
		var v Completed
		err = json.Unmarshal(e.Payload, &v)
		evt = v
	case TypeFailed:
		var v Failed
		err = json.Unmarshal(e.Payload, &v)
		evt = v
	default:
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s event: %w", e.Type, err)
	}
	return evt, nil
}
