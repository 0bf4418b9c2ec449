package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	ferrors "github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
	"github.com/anorak1709/research-usecase-generator/internal/logfields"
)

// natsConn is the subset of *nats.Conn used by NATSPublisher.
type natsConn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Drain() error
}

// NATSPublisher publishes event envelopes as JSON to
// "<subject>.<analysis id>".
type NATSPublisher struct {
	conn    natsConn
	subject string
	logger  *slog.Logger
}

// DialNATS connects to url and returns a publisher rooted at subject.
func DialNATS(url, subject string, logger *slog.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := nats.Connect(url,
		nats.Name("usecasegen"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", logfields.Error(err))
			}
		}),
	)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryMessaging, "failed to connect to NATS").
			WithContext("url", url).Build()
	}
	logger.Info("NATS publisher connected", slog.String("url", url), logfields.Subject(subject))
	return newNATSPublisher(conn, subject, logger), nil
}

func newNATSPublisher(conn natsConn, subject string, logger *slog.Logger) *NATSPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSPublisher{conn: conn, subject: subject, logger: logger}
}

// SubjectFor returns the subject events of analysis id are published on.
func (p *NATSPublisher) SubjectFor(id string) string {
	return p.subject + "." + id
}

func (p *NATSPublisher) Publish(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env, err := Wrap(evt)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to encode event").Build()
	}
	data, err := json.Marshal(env)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to encode event").Build()
	}

	subject := p.SubjectFor(evt.AnalysisID())
	if err := p.conn.Publish(subject, data); err != nil {
		return ferrors.EventError("failed to publish event").
			WithCause(err).
			WithContext("subject", subject).
			Build()
	}
	p.logger.Debug("Published analysis event",
		logfields.Subject(subject),
		slog.String("type", string(env.Type)))
	return nil
}

// Close flushes pending messages and drains the connection.
func (p *NATSPublisher) Close() error {
	if err := p.conn.FlushTimeout(5 * time.Second); err != nil {
		p.logger.Warn("NATS flush failed", logfields.Error(err))
	}
	return p.conn.Drain()
}
