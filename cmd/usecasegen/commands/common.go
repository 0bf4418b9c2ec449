package commands

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/anorak1709/research-usecase-generator/internal/config"
	ferrors "github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
)

// Global is shared state handed to every subcommand.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
	Stdin  io.Reader
}

// NewGlobal returns a Global bound to the process streams.
func NewGlobal() *Global {
	return &Global{Logger: slog.Default(), Stdout: os.Stdout, Stdin: os.Stdin}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"usecasegen.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve   ServeCmd   `cmd:"" help:"Run the HTTP API"`
	Render  RenderCmd  `cmd:"" help:"Render a report markdown file"`
	Summary SummaryCmd `cmd:"" help:"Print the executive summary of a report"`
	Analyze AnalyzeCmd `cmd:"" help:"Submit a research paper for analysis"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// LoadConfig reads the configured file. A missing file at the default path
// yields the built-in defaults so the local commands work without setup.
func (c *CLI) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err == nil {
		return cfg, nil
	}
	if c.Config == config.DefaultPath && ferrors.HasCategory(err, ferrors.CategoryConfig) {
		if _, statErr := os.Stat(c.Config); errors.Is(statErr, fs.ErrNotExist) {
			return config.Default(), nil
		}
	}
	return nil, err
}

// Logger builds the command logger from cfg, falling back to g.Logger.
func (c *CLI) Logger(g *Global, cfg *config.Config) *slog.Logger {
	if cfg == nil {
		return g.Logger
	}
	return cfg.Logging.NewLogger(os.Stderr, c.Verbose)
}

// readInput reads path, or standard input when path is "-".
func readInput(g *Global, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(g.Stdin)
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read standard input").Build()
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.NotFoundError("input file not found").WithContext("path", path).Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read input file").
			WithContext("path", path).Build()
	}
	return data, nil
}
