package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/k0kubun/pp"
	"github.com/mattn/go-isatty"

	ferrors "github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
	"github.com/anorak1709/research-usecase-generator/internal/preview"
	"github.com/anorak1709/research-usecase-generator/internal/render"
	"github.com/anorak1709/research-usecase-generator/internal/report"
)

// Output formats accepted by render.
const (
	FormatTerminal = "terminal"
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatDebug    = "debug"
	FormatText     = "text"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	File    string `arg:"" help:"Report markdown file, or - for standard input"`
	Format  string `short:"f" enum:"terminal,html,json,debug,text" default:"terminal" help:"Output format (terminal, html, json, debug, text)"`
	Heading string `help:"Heading that opens the executive summary (defaults to report.summary_heading)"`
	NoColor bool   `name:"no-color" help:"Disable ANSI colour in terminal output"`
	Watch   bool   `short:"w" help:"Re-render whenever the file changes"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	heading := r.Heading
	if heading == "" {
		heading = cfg.Report.SummaryHeading
	}

	if !r.Watch {
		data, err := readInput(g, r.File)
		if err != nil {
			return err
		}
		return r.write(g.Stdout, data, heading)
	}

	if r.File == "-" {
		return ferrors.ValidationError("--watch needs a file path, not standard input").Build()
	}
	sigctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	w := preview.New(r.File, func(_ context.Context, content []byte) error {
		if r.Format == FormatTerminal {
			// Clear screen and home the cursor between renders.
			_, _ = fmt.Fprint(g.Stdout, "\x1b[2J\x1b[H")
		}
		return r.write(g.Stdout, content, heading)
	}, preview.WithLogger(root.Logger(g, cfg)))
	return w.Run(sigctx)
}

func (r *RenderCmd) write(out io.Writer, data []byte, heading string) error {
	text := string(data)
	doc := report.ParseDocument(text)
	summary := report.ExtractSection(text, heading)

	var err error
	switch r.Format {
	case FormatHTML:
		title := "Research Report"
		if r.File != "-" {
			title = filepath.Base(r.File)
		}
		err = render.Page(out, title, summary, doc)
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(struct {
			Summary  string          `json:"summary"`
			Document report.Document `json:"document"`
		}{summary, doc})
	case FormatText:
		err = render.Text(out, doc)
	case FormatDebug:
		pp.ColoringEnabled = false
		_, err = pp.Fprintln(out, doc)
	default:
		opts := render.TerminalOptions{Color: !r.NoColor && isTerminal(out)}
		if err = render.TerminalSummary(out, summary, opts); err == nil {
			_, _ = fmt.Fprintln(out)
			err = render.Terminal(out, doc, opts)
		}
	}
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to write rendered report").
			WithContext("format", r.Format).Build()
	}
	return nil
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
