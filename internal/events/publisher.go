package events

import (
	"context"
	stderrors "errors"
	"time"
)

// Publisher delivers analysis events to interested parties.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, evt Event) error

func (f PublisherFunc) Publish(ctx context.Context, evt Event) error { return f(ctx, evt) }

// MultiPublisher fans an event out to every publisher. All publishers are
// tried; their errors are joined.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, evt Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// Discard drops every event.
var Discard Publisher = PublisherFunc(func(context.Context, Event) error { return nil })

// WithTimeout bounds each Publish call on p by d, so a slow subscriber cannot
// stall the analysis that emits the event.
func WithTimeout(p Publisher, d time.Duration) Publisher {
	return PublisherFunc(func(ctx context.Context, evt Event) error {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return p.Publish(ctx, evt)
	})
}
