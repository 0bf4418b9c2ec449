// Package store persists generated reports and the analysis events that led
// to them in SQLite.
package store

import (
	"context"
	"time"

	"github.com/inful/mdfp"

	"github.com/anorak1709/research-usecase-generator/internal/events"
)

// Report is a stored analysis report.
type Report struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Industry    string    `json:"industry,omitempty"`
	Source      string    `json:"source"`
	Fingerprint string    `json:"fingerprint"`
	Markdown    string    `json:"markdown,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store is the persistence surface used by the analysis service and the
// HTTP API.
type Store interface {
	SaveReport(ctx context.Context, r Report) (Report, error)
	GetReport(ctx context.Context, id string) (Report, error)
	FindByFingerprint(ctx context.Context, fingerprint string) (Report, error)
	ListReports(ctx context.Context, limit int) ([]Report, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error)
	AppendEvent(ctx context.Context, env events.Envelope) error
	EventsFor(ctx context.Context, analysisID string) ([]events.Envelope, error)
	Ping(ctx context.Context) error
	Close() error
}

// Fingerprint returns the content fingerprint of a report's markdown. It
// serves as the download ETag and for de-duplication.
func Fingerprint(markdown string) string {
	return mdfp.CalculateFingerprintFromParts("", markdown)
}

// Journal returns a Publisher that appends every event to s.
func Journal(s Store) events.Publisher {
	return events.PublisherFunc(func(ctx context.Context, evt events.Event) error {
		env, err := events.Wrap(evt)
		if err != nil {
			return err
		}
		return s.AppendEvent(ctx, env)
	})
}
