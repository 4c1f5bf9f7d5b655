package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pillarsync/cmd/pillarsync/commands"
	"git.home.luguber.info/inful/pillarsync/internal/foundation/errors"
	"git.home.luguber.info/inful/pillarsync/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("pillarsync"),
		kong.Description("Keeps SEO metadata and cross-links of a static study-notes site in sync."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)

	err := parser.Run(&commands.Global{Logger: slog.Default(), Out: os.Stdout}, cli)
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
