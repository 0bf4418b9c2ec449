package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/anorak1709/research-usecase-generator/internal/analysis"
	"github.com/anorak1709/research-usecase-generator/internal/events"
	"github.com/anorak1709/research-usecase-generator/internal/render"
	"github.com/anorak1709/research-usecase-generator/internal/store"
)

// AnalyzeCmd implements the 'analyze' command.
type AnalyzeCmd struct {
	File       string `arg:"" type:"existingfile" help:"Research paper to analyze"`
	Industry   string `short:"i" help:"Target industry hint"`
	Server     string `name:"server" help:"Analyzer URL (overrides analyzer.url)"`
	NoFallback bool   `name:"no-fallback" help:"Fail instead of simulating when the analyzer is unreachable"`
	Save       bool   `help:"Store the report in the configured database"`
	JSON       bool   `name:"json" help:"Print the result as JSON"`
}

func (a *AnalyzeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	logger := root.Logger(g, cfg)

	analyzerCfg := cfg.Analyzer
	if a.Server != "" {
		analyzerCfg.URL = a.Server
	}
	if a.NoFallback {
		disabled := false
		analyzerCfg.Fallback.Enabled = &disabled
	}

	content, err := readInput(g, a.File)
	if err != nil {
		return err
	}

	progress := events.PublisherFunc(func(_ context.Context, evt events.Event) error {
		switch e := evt.(type) {
		case events.Progress:
			_, _ = fmt.Fprintf(os.Stderr, "%3d%% %s\n", e.Percent, e.LogLine())
		case events.FallbackActivated:
			_, _ = fmt.Fprintf(os.Stderr, "analyzer unavailable, simulating pipeline (%s)\n", e.Reason)
		}
		return nil
	})

	opts := []analysis.ServiceOption{
		analysis.WithLogger(logger),
		analysis.WithPublisher(progress),
		analysis.WithSummaryHeading(cfg.Report.SummaryHeading),
	}
	if a.Save {
		st, err := store.NewSQLiteStore(cfg.Storage.Path)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		opts = append(opts, analysis.WithStore(st))
	}

	client := analysis.NewClient(analyzerCfg, analysis.WithClientLogger(logger))
	svc := analysis.NewService(analyzerCfg, client, opts...)

	sigctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Submitting paper",
		"file", filepath.Base(a.File),
		"size", humanize.Bytes(uint64(len(content))),
		"analyzer", analyzerCfg.URL)
	res, err := svc.Analyze(sigctx, analysis.Upload{
		Filename: filepath.Base(a.File),
		Industry: a.Industry,
		Content:  content,
	})
	if err != nil {
		return err
	}

	if a.JSON {
		enc := json.NewEncoder(g.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	_, _ = fmt.Fprintf(g.Stdout, "Analysis %s (%s, %d blocks, %s)\n\n",
		res.ID, res.Source, res.Document.Len(), humanize.Bytes(uint64(len(res.Report))))
	termOpts := render.TerminalOptions{Color: isTerminal(g.Stdout)}
	if err := render.TerminalSummary(g.Stdout, res.Summary, termOpts); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(g.Stdout)
	return render.Terminal(g.Stdout, res.Document, termOpts)
}
