package commands

import (
	"fmt"

	"github.com/anorak1709/research-usecase-generator/internal/render"
	"github.com/anorak1709/research-usecase-generator/internal/report"
)

// SummaryCmd implements the 'summary' command.
type SummaryCmd struct {
	File    string `arg:"" help:"Report markdown file, or - for standard input"`
	Heading string `help:"Heading that opens the executive summary (defaults to report.summary_heading)"`
	Plain   bool   `help:"Print the raw section text without the panel"`
}

func (s *SummaryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	heading := s.Heading
	if heading == "" {
		heading = cfg.Report.SummaryHeading
	}
	data, err := readInput(g, s.File)
	if err != nil {
		return err
	}

	summary := report.ExtractSection(string(data), heading)
	if s.Plain {
		_, err = fmt.Fprintln(g.Stdout, summary)
		return err
	}
	return render.TerminalSummary(g.Stdout, summary, render.TerminalOptions{Color: isTerminal(g.Stdout)})
}
