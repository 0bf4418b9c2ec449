package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anorak1709/research-usecase-generator/internal/events"
	"github.com/anorak1709/research-usecase-generator/internal/report"
)

func TestSimulatorEmitsEveryStage(t *testing.T) {
	sim := NewSimulator(0, 0)
	var got []events.Progress
	md, err := sim.Run(t.Context(), "a1", "paper.pdf", func(_ context.Context, p events.Progress) error {
		got = append(got, p)
		return nil
	})

	require.NoError(t, err)
	require.Len(t, got, len(Stages))
	for i, p := range got {
		require.Equal(t, "a1", p.ID)
		require.Equal(t, Stages[i].Percent, p.Percent)
		require.Equal(t, Stages[i].Agent, p.Agent)
	}
	require.Equal(t, 100, got[len(got)-1].Percent)
	require.Equal(t, "[Ingestor] Extracting text from PDF...", got[0].LogLine())
	require.Contains(t, md, "## Target Research: paper.pdf")
}

func TestSimulatorStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	sim := NewSimulator(time.Hour, 0)

	done := make(chan error, 1)
	go func() {
		_, err := sim.Run(ctx, "a1", "x", func(context.Context, events.Progress) error { return nil })
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("simulator did not stop")
	}
}

func TestSimulatorStopsOnEmitError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	_, err := NewSimulator(0, 0).Run(t.Context(), "a1", "x", func(context.Context, events.Progress) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, calls)
}

func TestSampleReportParses(t *testing.T) {
	md := SampleReport("")
	require.Contains(t, md, "## Target Research: "+DefaultFilename)

	doc := report.ParseDocument(md)
	counts := doc.CountByKind()
	require.Equal(t, 6, counts[report.KindHeading])
	require.Equal(t, 1, counts[report.KindCodeBlock])
	require.Equal(t, 1, counts[report.KindBlockquote])
	require.Equal(t, 8, counts[report.KindListItem])

	summary := report.ExtractSection(md, report.DefaultSummaryHeading)
	require.True(t, strings.HasPrefix(summary, "The analyzed paper presents"))
}
