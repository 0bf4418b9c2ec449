package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/anorak1709/research-usecase-generator/cmd/usecasegen/commands"
	ferrors "github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
	"github.com/anorak1709/research-usecase-generator/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("usecasegen"),
		kong.Description("Turn research papers into business use-case reports."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := commands.NewGlobal()
	global.Logger = slog.Default()
	if err := parser.Run(global, cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
