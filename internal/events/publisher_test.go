package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
)

type fakeConn struct {
	mu       sync.Mutex
	subjects []string
	payloads [][]byte
	err      error
	drained  bool
}

func (c *fakeConn) Publish(subject string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.subjects = append(c.subjects, subject)
	c.payloads = append(c.payloads, data)
	return nil
}

func (c *fakeConn) FlushTimeout(time.Duration) error { return nil }

func (c *fakeConn) Drain() error {
	c.drained = true
	return nil
}

func TestNATSPublisherPublishesEnvelope(t *testing.T) {
	conn := &fakeConn{}
	p := newNATSPublisher(conn, "usecasegen.progress", nil)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	evt := Progress{ID: "abc", Percent: 45, Agent: "Researcher", Message: "Identifying methodology and results...", At: at}
	require.NoError(t, p.Publish(context.Background(), evt))

	require.Equal(t, []string{"usecasegen.progress.abc"}, conn.subjects)

	var env Envelope
	require.NoError(t, json.Unmarshal(conn.payloads[0], &env))
	require.Equal(t, TypeProgress, env.Type)
	require.Equal(t, "abc", env.AnalysisID)

	decoded, err := env.Decode()
	require.NoError(t, err)
	require.Equal(t, evt, decoded)

	require.NoError(t, p.Close())
	require.True(t, conn.drained)
}

func TestNATSPublisherClassifiesFailures(t *testing.T) {
	p := newNATSPublisher(&fakeConn{err: errors.New("connection closed")}, "s", nil)
	err := p.Publish(context.Background(), Started{ID: "x"})
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryMessaging))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, p.Publish(ctx, Started{ID: "x"}), context.Canceled)
}

func TestMultiPublisherJoinsErrors(t *testing.T) {
	var got []Type
	record := PublisherFunc(func(_ context.Context, evt Event) error {
		got = append(got, evt.EventType())
		return nil
	})
	boom := errors.New("boom")
	failing := PublisherFunc(func(context.Context, Event) error { return boom })

	m := MultiPublisher{failing, nil, record, Discard}
	err := m.Publish(context.Background(), Failed{ID: "x", Error: "nope"})
	require.ErrorIs(t, err, boom)
	require.Equal(t, []Type{TypeFailed}, got)
}

func TestBusIsPublisher(t *testing.T) {
	b := NewBus()
	defer b.Close()
	ch, unsub := b.Subscribe(Filter{Types: []Type{TypeFallbackActivated}}, 1)
	defer unsub()

	var p Publisher = b
	require.NoError(t, p.Publish(context.Background(), FallbackActivated{ID: "x", Reason: "refused"}))
	require.Equal(t, "refused", (<-ch).(FallbackActivated).Reason)
}

func TestWithTimeoutBoundsBlockedSubscribers(t *testing.T) {
	b := NewBus()
	defer b.Close()
	_, unsub := b.Subscribe(Filter{}, 0)
	defer unsub()

	err := WithTimeout(b, 20*time.Millisecond).Publish(context.Background(), Progress{ID: "x"})
	require.Error(t, err)
	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, ferrors.CategoryRuntime, classified.Category())
}

func TestEnvelopeRoundTrip(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	all := []Event{
		Started{ID: "1", Filename: "paper.pdf", Industry: "Fintech", Size: 2048, At: at},
		Progress{ID: "1", Percent: 100, Agent: "Manager", Message: "Compiling final report...", At: at},
		FallbackActivated{ID: "1", Reason: "dial tcp: refused", At: at},
		Completed{ID: "1", Source: "simulated", Fingerprint: "abc", Blocks: 30, At: at},
		Failed{ID: "1", Error: "boom", At: at},
	}
	for _, evt := range all {
		env, err := Wrap(evt)
		require.NoError(t, err)
		got, err := env.Decode()
		require.NoError(t, err)
		require.Equal(t, evt, got)
	}

	_, err := Envelope{Type: "mystery"}.Decode()
	require.Error(t, err)
}

func TestProgressLogLine(t *testing.T) {
	p := Progress{Agent: "Product Owner", Message: "Drafting MVP features and roadmap..."}
	require.Equal(t, "[Product Owner] Drafting MVP features and roadmap...", p.LogLine())
}
